// Package ledger implements the time-banking state-transition core.
//
// The Ledger is the single entry point for every mutation: it resolves the
// caller against the user table, validates all preconditions of an operation,
// and only then applies the mutation. Because every check happens before the
// first write, a rejected operation leaves prior state completely unchanged —
// there is no partial-failure mode.
//
// The core is a single-writer owner of its four tables. A mutex serializes
// operations so no caller can observe another operation's partial mutation;
// within one operation, "atomic" means "no interleaving", not a transaction
// protocol. Durability belongs to the surrounding runtime (see app/bank).
package ledger

import (
	"fmt"
	"sync"

	"github.com/hourbank-network/hourbank/internal/domain"
)

// ─── Configuration ──────────────────────────────────────────────────────────

// Config holds the ledger's policy switches. Both default to permissive.
type Config struct {
	// AllowNegativeBalance lets a seeker's balance go negative when a
	// service completes (a credit line). Project contributions always
	// require sufficient balance regardless of this flag.
	AllowNegativeBalance bool

	// AllowSelfAccept lets a provider accept their own offer.
	AllowSelfAccept bool
}

// DefaultConfig returns the default policy: negative balances and
// self-acceptance are both permitted.
func DefaultConfig() Config {
	return Config{
		AllowNegativeBalance: true,
		AllowSelfAccept:      true,
	}
}

// ─── Ledger ─────────────────────────────────────────────────────────────────

// Ledger owns the user, service, project, and contribution tables
// exclusively. All access goes through its methods.
type Ledger struct {
	mu     sync.Mutex
	config Config

	users         map[domain.UserID]*domain.User
	services      map[domain.ServiceID]*domain.Service
	projects      map[domain.ProjectID]*domain.Project
	contributions map[domain.ContributionKey]*domain.Contribution

	// Monotonic id counters. The next assigned id is counter+1.
	lastUser    int64
	lastService int64
	lastProject int64
}

// New creates an empty ledger.
func New(cfg Config) *Ledger {
	return &Ledger{
		config:        cfg,
		users:         make(map[domain.UserID]*domain.User),
		services:      make(map[domain.ServiceID]*domain.Service),
		projects:      make(map[domain.ProjectID]*domain.Project),
		contributions: make(map[domain.ContributionKey]*domain.Contribution),
	}
}

// Config returns the ledger's policy configuration.
func (l *Ledger) Config() Config { return l.config }

// ─── Identity Registry ──────────────────────────────────────────────────────

// RegisterUser allocates the next user id and creates the profile with zero
// balance and the initial reputation. It always succeeds.
func (l *Ledger) RegisterUser(skills []string) domain.UserID {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lastUser++
	id := domain.UserID(l.lastUser)
	l.users[id] = &domain.User{
		ID:          id,
		TimeBalance: 0,
		Reputation:  domain.InitialReputation,
		Skills:      append([]string(nil), skills...),
	}
	return id
}

// User returns a copy of a user's profile.
func (l *Ledger) User(id domain.UserID) (domain.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	u, ok := l.users[id]
	if !ok {
		return domain.User{}, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	return copyUser(u), nil
}

// ─── Service Exchange ───────────────────────────────────────────────────────
// State machine per service: Offered → Accepted → Completed. No transition
// out of Completed, no transition back.

// OfferService creates a service offer by the caller.
func (l *Ledger) OfferService(caller domain.UserID, description string, duration int64) (domain.ServiceID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if duration <= 0 {
		return 0, fmt.Errorf("duration %d: %w", duration, domain.ErrInvalidInput)
	}
	if _, ok := l.users[caller]; !ok {
		return 0, fmt.Errorf("caller %d: %w", caller, domain.ErrNotFound)
	}

	l.lastService++
	id := domain.ServiceID(l.lastService)
	l.services[id] = &domain.Service{
		ID:          id,
		Provider:    caller,
		Duration:    duration,
		Description: description,
		Status:      domain.ServiceOffered,
	}
	return id, nil
}

// AcceptService binds the caller as seeker on an Offered service.
func (l *Ledger) AcceptService(caller domain.UserID, serviceID domain.ServiceID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.users[caller]; !ok {
		return fmt.Errorf("caller %d: %w", caller, domain.ErrNotFound)
	}
	svc, ok := l.services[serviceID]
	if !ok {
		return fmt.Errorf("service %d: %w", serviceID, domain.ErrNotFound)
	}
	if svc.Status != domain.ServiceOffered {
		return fmt.Errorf("service %d is %s, want %s: %w",
			serviceID, svc.Status, domain.ServiceOffered, domain.ErrInvalidState)
	}
	if !l.config.AllowSelfAccept && caller == svc.Provider {
		return fmt.Errorf("service %d: provider cannot accept own offer: %w",
			serviceID, domain.ErrInvalidState)
	}

	svc.Seeker = caller
	svc.Status = domain.ServiceAccepted
	return nil
}

// CompleteService settles an Accepted service: the provider earns the
// service's duration and the seeker is debited the same amount, in one step.
// This is the sole path by which credit moves between participants through
// labor. Under the default policy the seeker's balance may go negative.
func (l *Ledger) CompleteService(serviceID domain.ServiceID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	svc, ok := l.services[serviceID]
	if !ok {
		return fmt.Errorf("service %d: %w", serviceID, domain.ErrNotFound)
	}
	if svc.Status != domain.ServiceAccepted {
		return fmt.Errorf("service %d is %s, want %s: %w",
			serviceID, svc.Status, domain.ServiceAccepted, domain.ErrInvalidState)
	}
	provider, ok := l.users[svc.Provider]
	if !ok {
		return fmt.Errorf("provider %d: %w", svc.Provider, domain.ErrNotFound)
	}
	seeker, ok := l.users[svc.Seeker]
	if !ok {
		return fmt.Errorf("seeker %d: %w", svc.Seeker, domain.ErrNotFound)
	}
	if !l.config.AllowNegativeBalance && seeker.TimeBalance < svc.Duration {
		return fmt.Errorf("seeker %d balance %d < %d: %w",
			seeker.ID, seeker.TimeBalance, svc.Duration, domain.ErrInsufficientBalance)
	}

	provider.TimeBalance += svc.Duration
	seeker.TimeBalance -= svc.Duration
	svc.Status = domain.ServiceCompleted
	return nil
}

// RateService folds a rating into the provider's reputation. Requires a
// Completed service. Repeated ratings on the same service are cumulative.
func (l *Ledger) RateService(serviceID domain.ServiceID, rating int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !domain.ValidRating(rating) {
		return fmt.Errorf("rating %d outside %d–%d: %w",
			rating, domain.MinRating, domain.MaxRating, domain.ErrInvalidInput)
	}
	svc, ok := l.services[serviceID]
	if !ok {
		return fmt.Errorf("service %d: %w", serviceID, domain.ErrNotFound)
	}
	if svc.Status != domain.ServiceCompleted {
		return fmt.Errorf("service %d is %s, want %s: %w",
			serviceID, svc.Status, domain.ServiceCompleted, domain.ErrInvalidState)
	}
	provider, ok := l.users[svc.Provider]
	if !ok {
		return fmt.Errorf("provider %d: %w", svc.Provider, domain.ErrNotFound)
	}

	provider.Reputation = domain.NextReputation(provider.Reputation, rating)
	return nil
}

// Service returns a copy of a service record.
func (l *Ledger) Service(id domain.ServiceID) (domain.Service, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	svc, ok := l.services[id]
	if !ok {
		return domain.Service{}, fmt.Errorf("service %d: %w", id, domain.ErrNotFound)
	}
	return *svc, nil
}

// ─── Project Pool ───────────────────────────────────────────────────────────
// State machine: Open → Completed, terminal. Completion is derived from the
// contribution fold, never asserted independently.

// CreateProject creates an Open project with a positive required-hours target.
func (l *Ledger) CreateProject(name, description string, requiredSkills []string, totalHours int64) (domain.ProjectID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if totalHours <= 0 {
		return 0, fmt.Errorf("total hours %d: %w", totalHours, domain.ErrInvalidInput)
	}

	l.lastProject++
	id := domain.ProjectID(l.lastProject)
	l.projects[id] = &domain.Project{
		ID:             id,
		Name:           name,
		Description:    description,
		RequiredSkills: append([]string(nil), requiredSkills...),
		TotalHours:     totalHours,
		Status:         domain.ProjectOpen,
	}
	return id, nil
}

// ContributeToProject debits the caller's balance into a project's pool and
// accumulates their contribution record. After the write it refolds the
// project's cumulative hours across all participants; if the fold reaches the
// target the project flips to Completed.
func (l *Ledger) ContributeToProject(caller domain.UserID, projectID domain.ProjectID, hours int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if hours <= 0 {
		return fmt.Errorf("hours %d: %w", hours, domain.ErrInvalidInput)
	}
	project, ok := l.projects[projectID]
	if !ok {
		return fmt.Errorf("project %d: %w", projectID, domain.ErrNotFound)
	}
	if project.Status != domain.ProjectOpen {
		return fmt.Errorf("project %d is %s, want %s: %w",
			projectID, project.Status, domain.ProjectOpen, domain.ErrInvalidState)
	}
	user, ok := l.users[caller]
	if !ok {
		return fmt.Errorf("caller %d: %w", caller, domain.ErrNotFound)
	}
	if user.TimeBalance < hours {
		return fmt.Errorf("caller %d balance %d < %d: %w",
			caller, user.TimeBalance, hours, domain.ErrInsufficientBalance)
	}

	user.TimeBalance -= hours
	key := domain.ContributionKey{Project: projectID, User: caller}
	contrib, ok := l.contributions[key]
	if !ok {
		contrib = &domain.Contribution{Project: projectID, User: caller}
		l.contributions[key] = contrib
	}
	contrib.Hours += hours

	// Completion is derived: refold every contribution record for this
	// project. The sum is order-independent, so map iteration is fine.
	if l.foldProject(projectID) >= project.TotalHours {
		project.Status = domain.ProjectCompleted
	}
	return nil
}

// foldProject sums all contribution records for one project.
// Caller must hold l.mu.
func (l *Ledger) foldProject(projectID domain.ProjectID) int64 {
	var total int64
	for key, c := range l.contributions {
		if key.Project == projectID {
			total += c.Hours
		}
	}
	return total
}

// Project returns a copy of a project record.
func (l *Ledger) Project(id domain.ProjectID) (domain.Project, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, ok := l.projects[id]
	if !ok {
		return domain.Project{}, fmt.Errorf("project %d: %w", id, domain.ErrNotFound)
	}
	return copyProject(p), nil
}

// Contribution returns one user's running total on one project.
func (l *Ledger) Contribution(projectID domain.ProjectID, userID domain.UserID) (domain.Contribution, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.contributions[domain.ContributionKey{Project: projectID, User: userID}]
	if !ok {
		return domain.Contribution{}, fmt.Errorf("contribution (%d,%d): %w", projectID, userID, domain.ErrNotFound)
	}
	return *c, nil
}

// ProjectContributions returns all contribution records for a project.
func (l *Ledger) ProjectContributions(projectID domain.ProjectID) []domain.Contribution {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []domain.Contribution
	for key, c := range l.contributions {
		if key.Project == projectID {
			out = append(out, *c)
		}
	}
	return out
}

// ProjectContributed returns the cumulative contributed hours for a project.
func (l *Ledger) ProjectContributed(projectID domain.ProjectID) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.foldProject(projectID)
}

// ─── Counts ─────────────────────────────────────────────────────────────────

// Counts returns the table sizes, for status surfaces and metrics.
func (l *Ledger) Counts() (users, services, projects int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.users), len(l.services), len(l.projects)
}

// ─── Copy Helpers ───────────────────────────────────────────────────────────
// Copies are returned so no caller ever aliases the ledger's owned state.

func copyUser(u *domain.User) domain.User {
	out := *u
	out.Skills = append([]string(nil), u.Skills...)
	return out
}

func copyProject(p *domain.Project) domain.Project {
	out := *p
	out.RequiredSkills = append([]string(nil), p.RequiredSkills...)
	return out
}
