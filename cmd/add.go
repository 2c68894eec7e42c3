package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/codex-rotate/cli/internal/identity"
	"github.com/codex-rotate/cli/internal/pool"
)

func newAddCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <label>",
		Short: "Save the current Codex login into the pool",
		Long: `Save the login in $CODEX_HOME/auth.json into the pool under <label>.

If <label> already exists its credentials are replaced and it becomes active.
If the login belongs to an account stored under another label, that entry is
refreshed instead and the active account does not change.
Otherwise the login is appended and becomes active.

Examples:
  codex login && codex-rotate add work
  codex-rotate add personal`,
		Args: labelArg("add <label>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.open(cmd)
			if err != nil {
				return err
			}
			return a.add(strings.TrimSpace(args[0]))
		},
	}
}

func (a *app) add(label string) error {
	cred, err := a.creds.Load()
	if err != nil {
		return err
	}

	p, err := a.pools.Load()
	if err != nil {
		return err
	}

	res := p.Add(label, *cred, a.now())
	if err := a.pools.Save(p); err != nil {
		return err
	}

	acct := res.Account
	switch res.Outcome {
	case pool.AddUpdated:
		a.out.Success("Updated %s (%s, %s) [%d/%d]", acct.Label, acct.Email, acct.PlanType, res.Index+1, p.Len())
	case pool.AddMatchedAccount:
		a.out.Warn("this login (account %s) is already stored as %q; refreshed that entry instead of adding %q",
			identity.ShortID(acct.AccountID), acct.Label, label)
		a.out.Success("Refreshed %s (%s, %s)", acct.Label, acct.Email, acct.PlanType)
	case pool.AddAppended:
		a.out.Success("Added %s (%s, %s) [%d/%d]", acct.Label, acct.Email, acct.PlanType, res.Index+1, p.Len())
	}
	return nil
}
