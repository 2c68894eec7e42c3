package cmd

import (
	"github.com/spf13/cobra"
)

func newListCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored accounts in rotation order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.open(cmd)
			if err != nil {
				return err
			}
			return a.list()
		},
	}
}

func (a *app) list() error {
	p, err := a.pools.Load()
	if err != nil {
		return err
	}

	if p.Len() == 0 {
		a.out.Warn("no accounts in pool. Run 'codex-rotate add <label>' after 'codex login'")
		return nil
	}

	a.out.Title("Accounts (%d)", p.Len())
	for i, acct := range p.Accounts {
		a.out.Account(i+1, acct, i == p.ActiveIndex)
	}
	return nil
}
