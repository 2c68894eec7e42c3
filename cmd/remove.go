package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

func newRemoveCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <label>",
		Aliases: []string{"rm"},
		Short:   "Delete an account from the pool",
		Long: `Delete the account stored under <label>.

The live credential file is not touched. When the removed account was the
active one, Codex keeps using it until you switch with 'use' or 'next'.`,
		Args: labelArg("remove <label>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.open(cmd)
			if err != nil {
				return err
			}
			return a.remove(strings.TrimSpace(args[0]))
		},
	}
}

func (a *app) remove(label string) error {
	p, err := a.pools.Load()
	if err != nil {
		return err
	}

	res, err := p.Remove(label)
	if err != nil {
		return err
	}
	if err := a.pools.Save(p); err != nil {
		return err
	}

	a.out.Success("Removed %s, %d account(s) left", describe(res.Account), p.Len())

	if res.WasActive {
		if next := p.Active(); next != nil {
			a.out.Warn("%s was active and %s still holds its credentials; the pool now marks %s active. Run 'codex-rotate use %s' to switch",
				res.Account.Label, a.creds.Path(), next.Label, next.Label)
		} else {
			a.out.Warn("%s was active and %s still holds its credentials", res.Account.Label, a.creds.Path())
		}
	}
	return nil
}
