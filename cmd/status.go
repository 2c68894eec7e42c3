package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codex-rotate/cli/internal/identity"
)

func newStatusCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Aliases: []string{"s"},
		Short:   "Show the live Codex login and pool state",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.open(cmd)
			if err != nil {
				return err
			}
			a.status()
			return nil
		},
	}
}

// status reports each part independently and never fails.
func (a *app) status() {
	liveID := a.liveStatus()

	a.out.Printf("")
	a.out.Title("Pool")
	a.out.Field("Path", a.pools.Path())

	p, err := a.pools.Load()
	if err != nil {
		a.out.Warn("could not read pool: %v", err)
		return
	}
	a.out.Field("Size", fmt.Sprintf("%d accounts, %d bytes", p.Len(), a.pools.Size()))

	active := p.Active()
	if active == nil {
		a.out.Warn("no accounts in pool")
		return
	}
	a.out.Field("Active", fmt.Sprintf("%s [%d/%d]", describe(*active), p.ActiveIndex+1, p.Len()))

	if liveID != "" && liveID != active.AccountID {
		if i := p.IndexOfAccountID(liveID); i >= 0 {
			a.out.Warn("live credentials belong to %q, not the active account %q", p.Accounts[i].Label, active.Label)
		} else {
			a.out.Warn("live credentials belong to an account that is not in the pool")
		}
	}
}

// liveStatus prints the live credential block and returns its account id.
func (a *app) liveStatus() string {
	a.out.Title("Live credentials")
	a.out.Field("Path", a.creds.Path())

	if !a.creds.Exists() {
		a.out.Warn("no live credentials found. Run 'codex login' first")
		return ""
	}
	cred, err := a.creds.Load()
	if err != nil {
		a.out.Warn("could not read live credentials: %v", err)
		return ""
	}

	id := identity.Inspect(cred)
	a.out.Field("Email", id.Email)
	a.out.Field("Plan", id.PlanType)
	a.out.Field("Account", orDash(id.AccountID))
	a.out.Field("Last refresh", orDash(cred.LastRefresh))
	return id.AccountID
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
