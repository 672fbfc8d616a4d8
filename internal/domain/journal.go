package domain

import "time"

// ─── Journal Types ──────────────────────────────────────────────────────────
// Every operation the ledger accepts is appended to an audit journal. The
// journal is observational: replaying it is not how state is restored, it
// exists so the history of balance movements is inspectable.

// OpKind names a ledger operation in the journal.
type OpKind string

const (
	OpRegisterUser  OpKind = "REGISTER_USER"
	OpOfferService  OpKind = "OFFER_SERVICE"
	OpAcceptService OpKind = "ACCEPT_SERVICE"
	OpCompleteSvc   OpKind = "COMPLETE_SERVICE"
	OpRateService   OpKind = "RATE_SERVICE"
	OpCreateProject OpKind = "CREATE_PROJECT"
	OpContribute    OpKind = "CONTRIBUTE"
)

// JournalEntry is a single row in the append-only operation journal.
type JournalEntry struct {
	ID        string    `json:"id"` // uuid
	Op        OpKind    `json:"op"`
	Caller    UserID    `json:"caller,omitempty"`
	Entity    int64     `json:"entity,omitempty"` // service or project id the op touched
	Amount    int64     `json:"amount,omitempty"` // hours moved, or rating for RATE_SERVICE
	Timestamp time.Time `json:"timestamp"`
}
