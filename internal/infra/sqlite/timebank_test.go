package sqlite

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hourbank-network/hourbank/internal/domain"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// ─── Users ──────────────────────────────────────────────────────────────────

func TestUpsertUser(t *testing.T) {
	db := newTestDB(t)

	u := domain.User{ID: 1, TimeBalance: 5, Reputation: 100, Skills: []string{"coding", "teaching"}}
	if err := db.UpsertUser(u); err != nil {
		t.Fatalf("UpsertUser() error: %v", err)
	}

	got, ok, err := db.GetUser(1)
	if err != nil {
		t.Fatalf("GetUser() error: %v", err)
	}
	if !ok {
		t.Fatal("user 1 should exist")
	}
	if got.TimeBalance != 5 {
		t.Errorf("time_balance = %d, want 5", got.TimeBalance)
	}
	if len(got.Skills) != 2 || got.Skills[0] != "coding" {
		t.Errorf("skills = %v, want [coding teaching]", got.Skills)
	}
}

func TestUpsertUser_Update(t *testing.T) {
	db := newTestDB(t)
	db.UpsertUser(domain.User{ID: 1, TimeBalance: 0, Reputation: 100})
	db.UpsertUser(domain.User{ID: 1, TimeBalance: -2, Reputation: 90})

	got, ok, err := db.GetUser(1)
	if err != nil || !ok {
		t.Fatalf("GetUser() = %v, %v", ok, err)
	}
	if got.TimeBalance != -2 {
		t.Errorf("time_balance = %d, want -2", got.TimeBalance)
	}
	if got.Reputation != 90 {
		t.Errorf("reputation = %d, want 90", got.Reputation)
	}

	users, err := db.ListUsers()
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 1 {
		t.Errorf("ListUsers() = %d rows, want 1", len(users))
	}
}

func TestGetUser_NotFound(t *testing.T) {
	db := newTestDB(t)
	_, ok, err := db.GetUser(99)
	if err != nil {
		t.Fatalf("GetUser(99) error: %v", err)
	}
	if ok {
		t.Error("missing user should report ok=false")
	}
}

// ─── Services ───────────────────────────────────────────────────────────────

func TestUpsertService_Lifecycle(t *testing.T) {
	db := newTestDB(t)

	s := domain.Service{ID: 1, Provider: 1, Duration: 2, Description: "web dev", Status: domain.ServiceOffered}
	if err := db.UpsertService(s); err != nil {
		t.Fatalf("UpsertService() error: %v", err)
	}

	s.Seeker = 2
	s.Status = domain.ServiceAccepted
	if err := db.UpsertService(s); err != nil {
		t.Fatal(err)
	}

	got, ok, err := db.GetService(1)
	if err != nil || !ok {
		t.Fatalf("GetService() = %v, %v", ok, err)
	}
	if got.Seeker != 2 {
		t.Errorf("seeker = %d, want 2", got.Seeker)
	}
	if got.Status != domain.ServiceAccepted {
		t.Errorf("status = %s, want %s", got.Status, domain.ServiceAccepted)
	}
	if got.Duration != 2 || got.Description != "web dev" {
		t.Errorf("immutable fields changed: %+v", got)
	}
}

// ─── Projects & Contributions ───────────────────────────────────────────────

func TestUpsertProject(t *testing.T) {
	db := newTestDB(t)

	p := domain.Project{ID: 1, Name: "Community Garden", RequiredSkills: []string{"gardening"},
		TotalHours: 10, Status: domain.ProjectOpen}
	if err := db.UpsertProject(p); err != nil {
		t.Fatalf("UpsertProject() error: %v", err)
	}

	p.Status = domain.ProjectCompleted
	if err := db.UpsertProject(p); err != nil {
		t.Fatal(err)
	}

	got, ok, err := db.GetProject(1)
	if err != nil || !ok {
		t.Fatalf("GetProject() = %v, %v", ok, err)
	}
	if got.Status != domain.ProjectCompleted {
		t.Errorf("status = %s, want %s", got.Status, domain.ProjectCompleted)
	}
	if got.TotalHours != 10 {
		t.Errorf("total_hours = %d, want 10", got.TotalHours)
	}
}

func TestUpsertContribution_CompositeKey(t *testing.T) {
	db := newTestDB(t)

	db.UpsertContribution(domain.Contribution{Project: 1, User: 1, Hours: 5})
	db.UpsertContribution(domain.Contribution{Project: 1, User: 2, Hours: 3})
	db.UpsertContribution(domain.Contribution{Project: 2, User: 1, Hours: 7})
	// Same key again replaces the running total.
	db.UpsertContribution(domain.Contribution{Project: 1, User: 1, Hours: 8})

	all, err := db.ListContributions()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("ListContributions() = %d rows, want 3", len(all))
	}

	forProject, err := db.ListProjectContributions(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(forProject) != 2 {
		t.Fatalf("ListProjectContributions(1) = %d rows, want 2", len(forProject))
	}
	if forProject[0].Hours != 8 {
		t.Errorf("upserted hours = %d, want 8", forProject[0].Hours)
	}
}

// ─── Counters ───────────────────────────────────────────────────────────────

func TestCounters(t *testing.T) {
	db := newTestDB(t)

	v, err := db.GetCounter(CounterUsers)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0 {
		t.Errorf("fresh counter = %d, want 0", v)
	}

	if err := db.SetCounter(CounterUsers, 3); err != nil {
		t.Fatal(err)
	}
	if err := db.SetCounter(CounterUsers, 4); err != nil {
		t.Fatal(err)
	}

	v, err = db.GetCounter(CounterUsers)
	if err != nil {
		t.Fatal(err)
	}
	if v != 4 {
		t.Errorf("counter = %d, want 4", v)
	}
}

// ─── Journal ────────────────────────────────────────────────────────────────

func TestJournal(t *testing.T) {
	db := newTestDB(t)

	e := domain.JournalEntry{
		ID:        uuid.NewString(),
		Op:        domain.OpCompleteSvc,
		Caller:    2,
		Entity:    1,
		Amount:    2,
		Timestamp: time.Now(),
	}
	if err := db.AppendJournal(e); err != nil {
		t.Fatalf("AppendJournal() error: %v", err)
	}

	n, err := db.JournalCount()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("JournalCount() = %d, want 1", n)
	}

	entries, err := db.ListJournal(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("ListJournal() = %d rows, want 1", len(entries))
	}
	if entries[0].Op != domain.OpCompleteSvc {
		t.Errorf("op = %s, want %s", entries[0].Op, domain.OpCompleteSvc)
	}
	if entries[0].Amount != 2 {
		t.Errorf("amount = %d, want 2", entries[0].Amount)
	}
}
