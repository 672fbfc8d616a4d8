package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hourbank-network/hourbank/internal/app/bank"
	"github.com/hourbank-network/hourbank/internal/domain"
	"github.com/hourbank-network/hourbank/internal/ledger"
)

func init() {
	rootCmd.AddCommand(demoCmd)
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a scripted time-bank scenario in memory",
	Long: `Run a complete time-bank scenario against an ephemeral in-memory
ledger: two members exchange a service, rate it, and pool hours into
a community project until it completes. Nothing is persisted.`,
	RunE: runDemo,
}

func runDemo(cmd *cobra.Command, args []string) error {
	b := bank.New(ledger.DefaultConfig())
	out := os.Stdout

	fmt.Fprintln(out, "── Service exchange ──")
	alice, _ := b.RegisterUser([]string{"coding"})
	bob, _ := b.RegisterUser([]string{"gardening"})
	fmt.Fprintf(out, "registered alice (user %d) and bob (user %d)\n", alice, bob)

	sid, err := b.OfferService(alice, "web development", 2)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "alice offers 2h of web development (service %d)\n", sid)
	if err := b.AcceptService(bob, sid); err != nil {
		return err
	}
	if err := b.CompleteService(sid); err != nil {
		return err
	}
	if err := b.RateService(sid, 5); err != nil {
		return err
	}
	printUser(out, b, alice, "alice")
	printUser(out, b, bob, "bob")

	fmt.Fprintln(out, "\n── Community project ──")
	// Fund both members so they can contribute without going negative.
	for _, u := range []domain.UserID{alice, bob} {
		if err := fundDemo(b, u, 10); err != nil {
			return err
		}
	}

	pid, err := b.CreateProject("Community Garden", "build raised beds", []string{"gardening"}, 10)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "created project %d: Community Garden (10h goal)\n", pid)

	for _, u := range []domain.UserID{alice, bob} {
		if err := b.ContributeToProject(u, pid, 5); err != nil {
			return err
		}
	}
	p, _ := b.Project(pid)
	fmt.Fprintf(out, "pooled %d/%d hours — project is %s\n",
		b.ProjectContributed(pid), p.TotalHours, p.Status)

	fmt.Fprintln(out, "\n── Final balances ──")
	printUser(out, b, alice, "alice")
	printUser(out, b, bob, "bob")
	return nil
}

func printUser(out *os.File, b *bank.Bank, id domain.UserID, name string) {
	u, err := b.User(id)
	if err != nil {
		return
	}
	fmt.Fprintf(out, "%-6s balance %+dh, reputation %d\n", name, u.TimeBalance, u.Reputation)
}

// fundDemo credits a member through a completed service with a throwaway
// seeker.
func fundDemo(b *bank.Bank, provider domain.UserID, hours int64) error {
	sink, _ := b.RegisterUser(nil)
	sid, err := b.OfferService(provider, "setup work", hours)
	if err != nil {
		return err
	}
	if err := b.AcceptService(sink, sid); err != nil {
		return err
	}
	return b.CompleteService(sid)
}
