package bank

import (
	"errors"
	"testing"

	"github.com/hourbank-network/hourbank/internal/domain"
	"github.com/hourbank-network/hourbank/internal/infra/sqlite"
	"github.com/hourbank-network/hourbank/internal/ledger"
)

func openTestBank(t *testing.T, dir string) (*Bank, *sqlite.DB) {
	t.Helper()
	db, err := sqlite.Open(dir)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	b, err := Open(ledger.DefaultConfig(), db)
	if err != nil {
		t.Fatalf("bank.Open() error: %v", err)
	}
	return b, db
}

func TestBank_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	b, db := openTestBank(t, dir)

	a, err := b.RegisterUser([]string{"coding"})
	if err != nil {
		t.Fatalf("RegisterUser() error: %v", err)
	}
	bob, _ := b.RegisterUser(nil)

	sid, err := b.OfferService(a, "web development", 2)
	if err != nil {
		t.Fatalf("OfferService() error: %v", err)
	}
	if err := b.AcceptService(bob, sid); err != nil {
		t.Fatal(err)
	}
	if err := b.CompleteService(sid); err != nil {
		t.Fatal(err)
	}
	if err := b.RateService(sid, 5); err != nil {
		t.Fatal(err)
	}

	db.Close()

	// Reopen from the same directory: everything survives.
	b2, _ := openTestBank(t, dir)

	ua, err := b2.User(a)
	if err != nil {
		t.Fatalf("restored User() error: %v", err)
	}
	if ua.TimeBalance != 2 {
		t.Errorf("restored provider balance = %d, want 2", ua.TimeBalance)
	}
	if ua.Reputation != 100 {
		t.Errorf("restored reputation = %d, want 100", ua.Reputation)
	}
	if len(ua.Skills) != 1 || ua.Skills[0] != "coding" {
		t.Errorf("restored skills = %v, want [coding]", ua.Skills)
	}

	ub, _ := b2.User(bob)
	if ub.TimeBalance != -2 {
		t.Errorf("restored seeker balance = %d, want -2", ub.TimeBalance)
	}

	svc, err := b2.Service(sid)
	if err != nil {
		t.Fatal(err)
	}
	if svc.Status != domain.ServiceCompleted {
		t.Errorf("restored service status = %s, want %s", svc.Status, domain.ServiceCompleted)
	}

	// Id allocation continues past restored ids.
	next, _ := b2.RegisterUser(nil)
	if int64(next) != 3 {
		t.Errorf("next user id after reopen = %d, want 3", next)
	}
}

func TestBank_ProjectPersistence(t *testing.T) {
	dir := t.TempDir()
	b, db := openTestBank(t, dir)

	u1, _ := b.RegisterUser(nil)
	u2, _ := b.RegisterUser(nil)
	fundBank(t, b, u1, 10)
	fundBank(t, b, u2, 10)

	pid, err := b.CreateProject("Community Garden", "", []string{"gardening"}, 10)
	if err != nil {
		t.Fatalf("CreateProject() error: %v", err)
	}
	if err := b.ContributeToProject(u1, pid, 5); err != nil {
		t.Fatal(err)
	}

	db.Close()
	b2, _ := openTestBank(t, dir)

	p, err := b2.Project(pid)
	if err != nil {
		t.Fatal(err)
	}
	if p.Status != domain.ProjectOpen {
		t.Errorf("restored project status = %s, want %s", p.Status, domain.ProjectOpen)
	}
	if got := b2.ProjectContributed(pid); got != 5 {
		t.Errorf("restored fold = %d, want 5", got)
	}

	// The second contribution completes the project against restored state.
	if err := b2.ContributeToProject(u2, pid, 5); err != nil {
		t.Fatal(err)
	}
	p, _ = b2.Project(pid)
	if p.Status != domain.ProjectCompleted {
		t.Errorf("project status = %s, want %s", p.Status, domain.ProjectCompleted)
	}

	c1, _ := b2.Contribution(pid, u1)
	c2, _ := b2.Contribution(pid, u2)
	if c1.Hours != 5 || c2.Hours != 5 {
		t.Errorf("contributions = %d, %d, want 5, 5", c1.Hours, c2.Hours)
	}
}

func TestBank_RejectionsPersistNothing(t *testing.T) {
	dir := t.TempDir()
	b, db := openTestBank(t, dir)

	u, _ := b.RegisterUser(nil)
	pid, _ := b.CreateProject("x", "", nil, 10)

	err := b.ContributeToProject(u, pid, 5)
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("error = %v, want ErrInsufficientBalance", err)
	}

	rows, err := db.ListContributions()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Errorf("rejected contribution persisted %d rows, want 0", len(rows))
	}
}

func TestBank_JournalRecordsOperations(t *testing.T) {
	b, db := openTestBank(t, t.TempDir())

	a, _ := b.RegisterUser(nil)
	bob, _ := b.RegisterUser(nil)
	sid, _ := b.OfferService(a, "x", 2)
	b.AcceptService(bob, sid)
	b.CompleteService(sid)

	n, err := db.JournalCount()
	if err != nil {
		t.Fatal(err)
	}
	if n != 5 {
		t.Errorf("JournalCount() = %d, want 5", n)
	}

	entries, err := b.Journal(10)
	if err != nil {
		t.Fatal(err)
	}
	ops := make(map[domain.OpKind]bool)
	for _, e := range entries {
		if e.ID == "" {
			t.Error("journal entry without id")
		}
		ops[e.Op] = true
	}
	for _, want := range []domain.OpKind{
		domain.OpRegisterUser, domain.OpOfferService,
		domain.OpAcceptService, domain.OpCompleteSvc,
	} {
		if !ops[want] {
			t.Errorf("journal missing op %s", want)
		}
	}
}

func TestBank_Ephemeral(t *testing.T) {
	b := New(ledger.DefaultConfig())
	id, err := b.RegisterUser(nil)
	if err != nil {
		t.Fatalf("RegisterUser() error: %v", err)
	}
	if id != 1 {
		t.Errorf("id = %d, want 1", id)
	}
	entries, err := b.Journal(5)
	if err != nil || entries != nil {
		t.Errorf("ephemeral Journal() = %v, %v, want nil, nil", entries, err)
	}
}

// fundBank gives a user balance through a completed service with a throwaway
// seeker, the only path by which credit enters a balance.
func fundBank(t *testing.T, b *Bank, provider domain.UserID, hours int64) {
	t.Helper()
	sink, _ := b.RegisterUser(nil)
	id, err := b.OfferService(provider, "funding", hours)
	if err != nil {
		t.Fatalf("fund offer: %v", err)
	}
	if err := b.AcceptService(sink, id); err != nil {
		t.Fatalf("fund accept: %v", err)
	}
	if err := b.CompleteService(id); err != nil {
		t.Fatalf("fund complete: %v", err)
	}
}
