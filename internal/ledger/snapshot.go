package ledger

import (
	"fmt"

	"github.com/hourbank-network/hourbank/internal/domain"
)

// ─── Snapshot / Restore ─────────────────────────────────────────────────────
// The durable store (app/bank) rebuilds the ledger from persisted rows at
// startup and reads back copies of mutated entities after each operation.
// Restore is the only way to seed non-empty state; there is no aliased
// access to the owned tables.

// Snapshot is a value copy of the ledger's complete state.
type Snapshot struct {
	Users         []domain.User
	Services      []domain.Service
	Projects      []domain.Project
	Contributions []domain.Contribution

	LastUser    int64
	LastService int64
	LastProject int64
}

// Restore builds a ledger from persisted state. The id counters must be at
// least the highest id present in the corresponding table, or newly assigned
// ids could collide with restored rows.
func Restore(cfg Config, snap Snapshot) (*Ledger, error) {
	l := New(cfg)
	for _, u := range snap.Users {
		if int64(u.ID) > snap.LastUser {
			return nil, fmt.Errorf("user id %d exceeds counter %d", u.ID, snap.LastUser)
		}
		cp := copyUser(&u)
		l.users[u.ID] = &cp
	}
	for _, s := range snap.Services {
		if int64(s.ID) > snap.LastService {
			return nil, fmt.Errorf("service id %d exceeds counter %d", s.ID, snap.LastService)
		}
		cp := s
		l.services[s.ID] = &cp
	}
	for _, p := range snap.Projects {
		if int64(p.ID) > snap.LastProject {
			return nil, fmt.Errorf("project id %d exceeds counter %d", p.ID, snap.LastProject)
		}
		cp := copyProject(&p)
		l.projects[p.ID] = &cp
	}
	for _, c := range snap.Contributions {
		cp := c
		l.contributions[c.Key()] = &cp
	}
	l.lastUser = snap.LastUser
	l.lastService = snap.LastService
	l.lastProject = snap.LastProject
	return l, nil
}

// Snapshot returns a value copy of the complete state.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	snap := Snapshot{
		LastUser:    l.lastUser,
		LastService: l.lastService,
		LastProject: l.lastProject,
	}
	for _, u := range l.users {
		snap.Users = append(snap.Users, copyUser(u))
	}
	for _, s := range l.services {
		snap.Services = append(snap.Services, *s)
	}
	for _, p := range l.projects {
		snap.Projects = append(snap.Projects, copyProject(p))
	}
	for _, c := range l.contributions {
		snap.Contributions = append(snap.Contributions, *c)
	}
	return snap
}

// Counters returns the current id counters.
func (l *Ledger) Counters() (user, service, project int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastUser, l.lastService, l.lastProject
}
