// Package pool holds the ordered set of stored Codex accounts and which
// one is mirrored into the live credential file.
package pool

import (
	"errors"
	"fmt"
	"time"

	"github.com/codex-rotate/cli/internal/auth"
	"github.com/codex-rotate/cli/internal/identity"
)

var (
	// ErrAccountNotFound is returned when no account has the requested label
	ErrAccountNotFound = errors.New("account not found")
	// ErrEmptyPool is returned when an operation needs at least one account
	ErrEmptyPool = errors.New("no accounts in pool, add an account first")
	// ErrTooFewAccounts is returned when rotating a pool of one
	ErrTooFewAccounts = errors.New("only one account in pool, need at least two to rotate")
	// ErrDuplicateLabel is returned when a loaded pool repeats a label
	ErrDuplicateLabel = errors.New("duplicate account label")
)

// Account is one stored credential set
type Account struct {
	Label     string          `json:"label"`
	Email     string          `json:"email"`
	AccountID string          `json:"account_id"`
	PlanType  string          `json:"plan_type"`
	Auth      auth.Credential `json:"auth"`
	AddedAt   string          `json:"added_at"`
}

// Pool is the persisted rotation state. Accounts are kept in rotation order.
type Pool struct {
	ActiveIndex int       `json:"active_index"`
	Accounts    []Account `json:"accounts"`
}

// New returns an empty pool
func New() *Pool {
	return &Pool{Accounts: []Account{}}
}

// Len returns the number of accounts
func (p *Pool) Len() int {
	return len(p.Accounts)
}

// Active returns the active account, or nil when the pool is empty
func (p *Pool) Active() *Account {
	if len(p.Accounts) == 0 {
		return nil
	}
	return &p.Accounts[p.ActiveIndex]
}

// IndexOf returns the position of label, or -1
func (p *Pool) IndexOf(label string) int {
	for i := range p.Accounts {
		if p.Accounts[i].Label == label {
			return i
		}
	}
	return -1
}

// IndexOfAccountID returns the position of the first account with id, or -1.
// Empty ids never match.
func (p *Pool) IndexOfAccountID(id string) int {
	if id == "" {
		return -1
	}
	for i := range p.Accounts {
		if p.Accounts[i].AccountID == id {
			return i
		}
	}
	return -1
}

// AddOutcome says which branch Add took
type AddOutcome int

const (
	// AddUpdated means an account with the same label was overwritten
	AddUpdated AddOutcome = iota
	// AddMatchedAccount means the credential belongs to an account stored under another label
	AddMatchedAccount
	// AddAppended means a new account was appended
	AddAppended
)

// AddResult describes the effect of Add
type AddResult struct {
	Outcome AddOutcome
	Index   int
	Account Account
}

// Add stores cred under label.
//
// An existing label is overwritten and activated. A credential whose account
// id is already stored under a different label refreshes that entry and leaves
// the active index alone. Anything else is appended and activated.
func (p *Pool) Add(label string, cred auth.Credential, now time.Time) AddResult {
	id := identity.Inspect(&cred)

	if i := p.IndexOf(label); i >= 0 {
		acct := &p.Accounts[i]
		acct.Auth = cred
		acct.Email = id.Email
		acct.PlanType = id.PlanType
		acct.AccountID = id.AccountID
		p.ActiveIndex = i
		return AddResult{Outcome: AddUpdated, Index: i, Account: *acct}
	}

	if i := p.IndexOfAccountID(id.AccountID); i >= 0 {
		acct := &p.Accounts[i]
		acct.Auth = cred
		acct.Email = id.Email
		acct.PlanType = id.PlanType
		return AddResult{Outcome: AddMatchedAccount, Index: i, Account: *acct}
	}

	p.Accounts = append(p.Accounts, Account{
		Label:     label,
		Email:     id.Email,
		AccountID: id.AccountID,
		PlanType:  id.PlanType,
		Auth:      cred,
		AddedAt:   now.UTC().Format(time.RFC3339),
	})
	p.ActiveIndex = len(p.Accounts) - 1
	return AddResult{Outcome: AddAppended, Index: p.ActiveIndex, Account: p.Accounts[p.ActiveIndex]}
}

// Reconcile copies live into the active account when both belong to the
// same account id, keeping tokens Codex refreshed since the last switch.
// It reports whether the stored credential was replaced.
func (p *Pool) Reconcile(live *auth.Credential) bool {
	active := p.Active()
	if active == nil || live == nil {
		return false
	}
	liveID := identity.AccountID(live)
	if liveID == "" || liveID != active.AccountID {
		return false
	}
	active.Auth = *live
	return true
}

// Rotate moves the active index by step, wrapping in both directions, and
// returns the previous and new positions.
func (p *Pool) Rotate(step int) (from, to int, err error) {
	n := len(p.Accounts)
	switch {
	case n == 0:
		return 0, 0, ErrEmptyPool
	case n == 1:
		return 0, 0, ErrTooFewAccounts
	}

	from = p.ActiveIndex
	to = ((from+step)%n + n) % n
	p.ActiveIndex = to
	return from, to, nil
}

// Select makes label the active account and returns the previous and new positions.
func (p *Pool) Select(label string) (from, to int, err error) {
	if len(p.Accounts) == 0 {
		return 0, 0, ErrEmptyPool
	}
	to = p.IndexOf(label)
	if to < 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrAccountNotFound, label)
	}
	from = p.ActiveIndex
	p.ActiveIndex = to
	return from, to, nil
}

// RemoveResult describes the effect of Remove
type RemoveResult struct {
	Account Account
	// WasActive is true when the removed account was the active one, in which
	// case the live credential file still holds it.
	WasActive bool
}

// Remove deletes the account with label.
//
// Removing an account before the active one shifts the index so the same
// account stays active. Removing the active account leaves the index on the
// next account, or resets it to 0 when it falls past the end.
func (p *Pool) Remove(label string) (RemoveResult, error) {
	i := p.IndexOf(label)
	if i < 0 {
		return RemoveResult{}, fmt.Errorf("%w: %q", ErrAccountNotFound, label)
	}

	removed := p.Accounts[i]
	wasActive := i == p.ActiveIndex
	p.Accounts = append(p.Accounts[:i], p.Accounts[i+1:]...)

	if i < p.ActiveIndex {
		p.ActiveIndex--
	}
	if len(p.Accounts) == 0 || p.ActiveIndex >= len(p.Accounts) {
		p.ActiveIndex = 0
	}
	return RemoveResult{Account: removed, WasActive: wasActive}, nil
}

// Validate checks label uniqueness and the active index invariant.
func (p *Pool) Validate() error {
	seen := make(map[string]struct{}, len(p.Accounts))
	for _, acct := range p.Accounts {
		if _, dup := seen[acct.Label]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateLabel, acct.Label)
		}
		seen[acct.Label] = struct{}{}
	}
	if len(p.Accounts) == 0 && p.ActiveIndex != 0 {
		return fmt.Errorf("active index %d in an empty pool", p.ActiveIndex)
	}
	if len(p.Accounts) > 0 && (p.ActiveIndex < 0 || p.ActiveIndex >= len(p.Accounts)) {
		return fmt.Errorf("active index %d out of range for %d accounts", p.ActiveIndex, len(p.Accounts))
	}
	return nil
}
