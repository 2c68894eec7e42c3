package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/codex-rotate/cli/internal/config"
	"github.com/codex-rotate/cli/internal/identity"
	"github.com/codex-rotate/cli/internal/pool"
)

// printer writes human readable results to stdout and warnings and errors
// to stderr.
type printer struct {
	out    io.Writer
	errOut io.Writer

	title  lipgloss.Style
	ok     lipgloss.Style
	warn   lipgloss.Style
	fail   lipgloss.Style
	active lipgloss.Style
	faint  lipgloss.Style
}

func newPrinter(out, errOut io.Writer, mode config.ColorMode) *printer {
	r := lipgloss.NewRenderer(out)
	switch mode {
	case config.ColorNever:
		r.SetColorProfile(termenv.Ascii)
	case config.ColorAlways:
		r.SetColorProfile(termenv.ANSI256)
	default:
		if !isTerminal(out) || termenv.EnvNoColor() {
			r.SetColorProfile(termenv.Ascii)
		}
	}

	return &printer{
		out:    out,
		errOut: errOut,
		title:  r.NewStyle().Bold(true),
		ok:     r.NewStyle().Foreground(lipgloss.Color("10")),
		warn:   r.NewStyle().Foreground(lipgloss.Color("3")),
		fail:   r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		active: r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		faint:  r.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

func (p *printer) Printf(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *printer) Title(format string, args ...any) {
	fmt.Fprintln(p.out, p.title.Render(fmt.Sprintf(format, args...)))
}

func (p *printer) Success(format string, args ...any) {
	fmt.Fprintln(p.out, p.ok.Render("✓")+" "+fmt.Sprintf(format, args...))
}

// Field prints an indented "Key: value" line.
func (p *printer) Field(key, value string) {
	fmt.Fprintf(p.out, "  %s %s\n", p.faint.Render(key+":"), value)
}

func (p *printer) Warn(format string, args ...any) {
	fmt.Fprintln(p.errOut, p.warn.Render("Warning:")+" "+fmt.Sprintf(format, args...))
}

func (p *printer) Error(err error) {
	fmt.Fprintln(p.errOut, p.fail.Render("Error:")+" "+err.Error())
}

// Account prints one list row; the active row is marked with '*'.
func (p *printer) Account(pos int, acct pool.Account, isActive bool) {
	marker := " "
	if isActive {
		marker = "*"
	}
	row := fmt.Sprintf("%s %d. %-16s %-32s %-10s %s",
		marker, pos, acct.Label, orUnknown(acct.Email), orUnknown(acct.PlanType), identity.ShortID(acct.AccountID))
	if isActive {
		row = p.active.Render(row)
	}
	fmt.Fprintln(p.out, row)
}

// describe renders "label (email)" for transition messages.
func describe(acct pool.Account) string {
	return fmt.Sprintf("%s (%s)", acct.Label, orUnknown(acct.Email))
}

func orUnknown(s string) string {
	if s == "" {
		return identity.Unknown
	}
	return s
}
