// Package bank is the runtime around the ledger core: it restores state from
// the SQLite store at startup and, after the core accepts an operation,
// persists the mutated rows plus an audit journal entry.
//
// The core decides; the bank records. A rejected operation touches neither
// memory nor disk. Operations are serialized by the core's single-writer
// lock, so rows persisted here always reflect a fully applied operation.
package bank

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/hourbank-network/hourbank/internal/domain"
	"github.com/hourbank-network/hourbank/internal/infra/observability"
	"github.com/hourbank-network/hourbank/internal/infra/sqlite"
	"github.com/hourbank-network/hourbank/internal/ledger"
)

// Bank couples the ledger core with its durable store.
type Bank struct {
	led *ledger.Ledger
	db  *sqlite.DB // nil for an ephemeral bank (demo, tests)
}

// New creates an ephemeral bank with no durable store.
func New(cfg ledger.Config) *Bank {
	return &Bank{led: ledger.New(cfg)}
}

// Open restores the ledger from the store and returns a durable bank.
func Open(cfg ledger.Config, db *sqlite.DB) (*Bank, error) {
	snap, err := loadSnapshot(db)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	led, err := ledger.Restore(cfg, snap)
	if err != nil {
		return nil, fmt.Errorf("restore ledger: %w", err)
	}
	users, services, projects := led.Counts()
	log.Printf("[bank] restored %d users, %d services, %d projects", users, services, projects)
	b := &Bank{led: led, db: db}
	b.syncGauges()
	return b, nil
}

func loadSnapshot(db *sqlite.DB) (ledger.Snapshot, error) {
	var snap ledger.Snapshot
	var err error
	if snap.Users, err = db.ListUsers(); err != nil {
		return snap, err
	}
	if snap.Services, err = db.ListServices(); err != nil {
		return snap, err
	}
	if snap.Projects, err = db.ListProjects(); err != nil {
		return snap, err
	}
	if snap.Contributions, err = db.ListContributions(); err != nil {
		return snap, err
	}
	if snap.LastUser, err = db.GetCounter(sqlite.CounterUsers); err != nil {
		return snap, err
	}
	if snap.LastService, err = db.GetCounter(sqlite.CounterServices); err != nil {
		return snap, err
	}
	if snap.LastProject, err = db.GetCounter(sqlite.CounterProjects); err != nil {
		return snap, err
	}
	return snap, nil
}

// ─── Identity Registry ──────────────────────────────────────────────────────

// RegisterUser registers a participant and persists the new profile.
func (b *Bank) RegisterUser(skills []string) (domain.UserID, error) {
	id := b.led.RegisterUser(skills)
	observability.Operations.WithLabelValues("register_user", "ok").Inc()
	b.syncGauges()

	if b.db == nil {
		return id, nil
	}
	u, err := b.led.User(id)
	if err != nil {
		return id, err
	}
	if err := b.db.UpsertUser(u); err != nil {
		return id, fmt.Errorf("persist user %d: %w", id, err)
	}
	if err := b.db.SetCounter(sqlite.CounterUsers, int64(id)); err != nil {
		return id, fmt.Errorf("persist user counter: %w", err)
	}
	b.journal(domain.OpRegisterUser, id, int64(id), 0)
	return id, nil
}

// User returns a user profile.
func (b *Bank) User(id domain.UserID) (domain.User, error) {
	return b.led.User(id)
}

// ─── Service Exchange ───────────────────────────────────────────────────────

// OfferService records an offer of labor by the caller.
func (b *Bank) OfferService(caller domain.UserID, description string, duration int64) (domain.ServiceID, error) {
	id, err := b.led.OfferService(caller, description, duration)
	observability.Operations.WithLabelValues("offer_service", observability.ResultLabel(err)).Inc()
	if err != nil {
		return 0, err
	}
	b.syncGauges()

	if b.db != nil {
		if err := b.persistService(id); err != nil {
			return id, err
		}
		if err := b.db.SetCounter(sqlite.CounterServices, int64(id)); err != nil {
			return id, fmt.Errorf("persist service counter: %w", err)
		}
		b.journal(domain.OpOfferService, caller, int64(id), duration)
	}
	return id, nil
}

// AcceptService binds the caller as seeker.
func (b *Bank) AcceptService(caller domain.UserID, serviceID domain.ServiceID) error {
	err := b.led.AcceptService(caller, serviceID)
	observability.Operations.WithLabelValues("accept_service", observability.ResultLabel(err)).Inc()
	if err != nil {
		return err
	}

	if b.db != nil {
		if err := b.persistService(serviceID); err != nil {
			return err
		}
		b.journal(domain.OpAcceptService, caller, int64(serviceID), 0)
	}
	return nil
}

// CompleteService settles the exchange and persists both balances.
func (b *Bank) CompleteService(serviceID domain.ServiceID) error {
	err := b.led.CompleteService(serviceID)
	observability.Operations.WithLabelValues("complete_service", observability.ResultLabel(err)).Inc()
	if err != nil {
		return err
	}

	svc, err := b.led.Service(serviceID)
	if err != nil {
		return err
	}
	observability.HoursTransferred.Add(float64(svc.Duration))

	if b.db != nil {
		if err := b.persistService(serviceID); err != nil {
			return err
		}
		if err := b.persistUser(svc.Provider); err != nil {
			return err
		}
		if err := b.persistUser(svc.Seeker); err != nil {
			return err
		}
		b.journal(domain.OpCompleteSvc, svc.Seeker, int64(serviceID), svc.Duration)
	}
	return nil
}

// RateService folds a rating into the provider's reputation.
func (b *Bank) RateService(serviceID domain.ServiceID, rating int) error {
	err := b.led.RateService(serviceID, rating)
	observability.Operations.WithLabelValues("rate_service", observability.ResultLabel(err)).Inc()
	if err != nil {
		return err
	}

	if b.db != nil {
		svc, err := b.led.Service(serviceID)
		if err != nil {
			return err
		}
		if err := b.persistUser(svc.Provider); err != nil {
			return err
		}
		b.journal(domain.OpRateService, svc.Provider, int64(serviceID), int64(rating))
	}
	return nil
}

// Service returns a service record.
func (b *Bank) Service(id domain.ServiceID) (domain.Service, error) {
	return b.led.Service(id)
}

// ─── Project Pool ───────────────────────────────────────────────────────────

// CreateProject creates a project and persists it.
func (b *Bank) CreateProject(name, description string, requiredSkills []string, totalHours int64) (domain.ProjectID, error) {
	id, err := b.led.CreateProject(name, description, requiredSkills, totalHours)
	observability.Operations.WithLabelValues("create_project", observability.ResultLabel(err)).Inc()
	if err != nil {
		return 0, err
	}
	b.syncGauges()

	if b.db != nil {
		if err := b.persistProject(id); err != nil {
			return id, err
		}
		if err := b.db.SetCounter(sqlite.CounterProjects, int64(id)); err != nil {
			return id, fmt.Errorf("persist project counter: %w", err)
		}
		b.journal(domain.OpCreateProject, 0, int64(id), totalHours)
	}
	return id, nil
}

// ContributeToProject pools hours from the caller into a project and persists
// the debited balance, the contribution record, and the project status.
func (b *Bank) ContributeToProject(caller domain.UserID, projectID domain.ProjectID, hours int64) error {
	before, _ := b.led.Project(projectID)

	err := b.led.ContributeToProject(caller, projectID, hours)
	observability.Operations.WithLabelValues("contribute", observability.ResultLabel(err)).Inc()
	if err != nil {
		return err
	}
	observability.HoursContributed.Add(float64(hours))

	after, err := b.led.Project(projectID)
	if err != nil {
		return err
	}
	if before.Status == domain.ProjectOpen && after.Status == domain.ProjectCompleted {
		observability.ProjectsCompleted.Inc()
		log.Printf("[bank] project %d completed at %d/%d hours",
			projectID, b.led.ProjectContributed(projectID), after.TotalHours)
	}

	if b.db != nil {
		if err := b.persistUser(caller); err != nil {
			return err
		}
		contrib, err := b.led.Contribution(projectID, caller)
		if err != nil {
			return err
		}
		if err := b.db.UpsertContribution(contrib); err != nil {
			return fmt.Errorf("persist contribution (%d,%d): %w", projectID, caller, err)
		}
		if err := b.persistProject(projectID); err != nil {
			return err
		}
		b.journal(domain.OpContribute, caller, int64(projectID), hours)
	}
	return nil
}

// Project returns a project record.
func (b *Bank) Project(id domain.ProjectID) (domain.Project, error) {
	return b.led.Project(id)
}

// Contribution returns one user's running total on a project.
func (b *Bank) Contribution(projectID domain.ProjectID, userID domain.UserID) (domain.Contribution, error) {
	return b.led.Contribution(projectID, userID)
}

// ProjectContributions returns all contribution records for a project.
func (b *Bank) ProjectContributions(projectID domain.ProjectID) []domain.Contribution {
	return b.led.ProjectContributions(projectID)
}

// ProjectContributed returns a project's cumulative contributed hours.
func (b *Bank) ProjectContributed(projectID domain.ProjectID) int64 {
	return b.led.ProjectContributed(projectID)
}

// ─── Status ─────────────────────────────────────────────────────────────────

// Counts returns the table sizes.
func (b *Bank) Counts() (users, services, projects int) {
	return b.led.Counts()
}

// Journal returns recent journal entries, newest first. Ephemeral banks have
// no journal.
func (b *Bank) Journal(limit int) ([]domain.JournalEntry, error) {
	if b.db == nil {
		return nil, nil
	}
	return b.db.ListJournal(limit)
}

// ─── Persistence Helpers ────────────────────────────────────────────────────

func (b *Bank) persistUser(id domain.UserID) error {
	u, err := b.led.User(id)
	if err != nil {
		return err
	}
	if err := b.db.UpsertUser(u); err != nil {
		return fmt.Errorf("persist user %d: %w", id, err)
	}
	return nil
}

func (b *Bank) persistService(id domain.ServiceID) error {
	s, err := b.led.Service(id)
	if err != nil {
		return err
	}
	if err := b.db.UpsertService(s); err != nil {
		return fmt.Errorf("persist service %d: %w", id, err)
	}
	return nil
}

func (b *Bank) persistProject(id domain.ProjectID) error {
	p, err := b.led.Project(id)
	if err != nil {
		return err
	}
	if err := b.db.UpsertProject(p); err != nil {
		return fmt.Errorf("persist project %d: %w", id, err)
	}
	return nil
}

// journal appends an audit entry. Journal failures are logged, not returned:
// the operation itself is already applied and persisted.
func (b *Bank) journal(op domain.OpKind, caller domain.UserID, entity, amount int64) {
	e := domain.JournalEntry{
		ID:        uuid.NewString(),
		Op:        op,
		Caller:    caller,
		Entity:    entity,
		Amount:    amount,
		Timestamp: time.Now(),
	}
	if err := b.db.AppendJournal(e); err != nil {
		log.Printf("[bank] journal append failed for %s: %v", op, err)
	}
}

func (b *Bank) syncGauges() {
	users, services, projects := b.led.Counts()
	observability.RegisteredUsers.Set(float64(users))
	observability.Services.Set(float64(services))
	observability.Projects.Set(float64(projects))
}
