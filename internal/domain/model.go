// Package domain contains pure business types with ZERO infrastructure imports.
// This is the innermost ring of the ledger — it depends on nothing.
package domain

// ─── Identifiers ────────────────────────────────────────────────────────────
// Ids are opaque and monotonically assigned by the ledger core, starting at 1.

// UserID identifies a registered participant.
type UserID int64

// ServiceID identifies a single bilateral labor exchange.
type ServiceID int64

// ProjectID identifies a collective project.
type ProjectID int64

// ─── User ───────────────────────────────────────────────────────────────────

// InitialReputation is assigned at registration.
const InitialReputation = 100

// User is a participant in the time bank. Balance and reputation are mutated
// only by the ledger core; skills are advisory and never enforced.
type User struct {
	ID          UserID   `json:"id"`
	TimeBalance int64    `json:"time_balance"` // hours; may go negative under the credit-line policy
	Reputation  int      `json:"reputation"`   // nominal 0–100, smoothed by ratings
	Skills      []string `json:"skills"`
}

// ─── Service ────────────────────────────────────────────────────────────────

// ServiceStatus is a service's lifecycle state.
type ServiceStatus string

const (
	ServiceOffered   ServiceStatus = "OFFERED"
	ServiceAccepted  ServiceStatus = "ACCEPTED"
	ServiceCompleted ServiceStatus = "COMPLETED"
)

// Service is one offer of labor. Seeker is zero iff status is Offered.
// Once Completed the record is append-only history.
type Service struct {
	ID          ServiceID     `json:"id"`
	Provider    UserID        `json:"provider"`
	Seeker      UserID        `json:"seeker,omitempty"`
	Duration    int64         `json:"duration"` // hours, always positive
	Description string        `json:"description"`
	Status      ServiceStatus `json:"status"`
}

// ─── Project ────────────────────────────────────────────────────────────────

// ProjectStatus is a project's lifecycle state.
type ProjectStatus string

const (
	ProjectOpen      ProjectStatus = "OPEN"
	ProjectCompleted ProjectStatus = "COMPLETED"
)

// Project is a collective goal funded by pooled hour contributions.
// Status flips to Completed exactly once, when the fold over its
// contributions reaches TotalHours, and never reverts.
type Project struct {
	ID             ProjectID     `json:"id"`
	Name           string        `json:"name"`
	Description    string        `json:"description"`
	RequiredSkills []string      `json:"required_skills"` // advisory only
	TotalHours     int64         `json:"total_hours"`
	Status         ProjectStatus `json:"status"`
}

// ─── Contribution ───────────────────────────────────────────────────────────

// ContributionKey is the composite key for one user's running total on one
// project. A proper tuple key — never a concatenated string.
type ContributionKey struct {
	Project ProjectID
	User    UserID
}

// Contribution accumulates the hours a single user has donated to a single
// project across repeated calls.
type Contribution struct {
	Project ProjectID `json:"project"`
	User    UserID    `json:"user"`
	Hours   int64     `json:"hours"`
}

// Key returns the contribution's composite map key.
func (c Contribution) Key() ContributionKey {
	return ContributionKey{Project: c.Project, User: c.User}
}
