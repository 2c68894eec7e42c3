package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/codex-rotate/cli/internal/fileutil"
	"github.com/codex-rotate/cli/internal/pool"
)

func newNextCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "next",
		Aliases: []string{"n"},
		Short:   "Switch to the next account in the pool",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.open(cmd)
			if err != nil {
				return err
			}
			return a.activate(func(p *pool.Pool) (int, int, error) { return p.Rotate(1) })
		},
	}
}

func newPrevCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "prev",
		Aliases: []string{"p"},
		Short:   "Switch to the previous account in the pool",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.open(cmd)
			if err != nil {
				return err
			}
			return a.activate(func(p *pool.Pool) (int, int, error) { return p.Rotate(-1) })
		},
	}
}

func newUseCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "use <label>",
		Short: "Switch to the account stored under <label>",
		Args:  labelArg("use <label>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.open(cmd)
			if err != nil {
				return err
			}
			label := strings.TrimSpace(args[0])
			return a.activate(func(p *pool.Pool) (int, int, error) { return p.Select(label) })
		},
	}
}

// activate moves the active slot with move, then mirrors the new active
// credential into the live file and persists the pool. Both files are staged
// before either is replaced.
func (a *app) activate(move func(*pool.Pool) (from, to int, err error)) error {
	p, err := a.pools.Load()
	if err != nil {
		return err
	}

	a.reconcile(p)

	from, to, err := move(p)
	if err != nil {
		return err
	}
	prev := p.Accounts[from]
	next := p.Active()

	credStaged, err := a.creds.Stage(&next.Auth)
	if err != nil {
		return err
	}
	poolStaged, err := a.pools.Stage(p)
	if err != nil {
		credStaged.Discard()
		return err
	}
	if err := fileutil.Commit(credStaged, poolStaged); err != nil {
		return err
	}
	a.log.Debug("switched account", "from", prev.Label, "to", next.Label, "active_index", to)

	a.out.Success("Switched %s -> %s, %s [%d/%d]", describe(prev), describe(*next), orUnknown(next.PlanType), to+1, p.Len())
	return nil
}

// reconcile copies the live credential into the active entry when it still
// belongs to the same account, so a token Codex refreshed is not lost.
func (a *app) reconcile(p *pool.Pool) {
	if p.Len() == 0 || !a.creds.Exists() {
		return
	}
	live, err := a.creds.Load()
	if err != nil {
		a.log.Warn("live credentials unreadable, not capturing refreshed tokens", "path", a.creds.Path(), "error", err)
		return
	}
	if p.Reconcile(live) {
		a.log.Debug("captured live credentials into active entry", "label", p.Active().Label)
	}
}
