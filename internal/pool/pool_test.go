package pool

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codex-rotate/cli/internal/testutils"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func poolOf(t *testing.T, labels ...string) *Pool {
	t.Helper()
	p := New()
	for _, label := range labels {
		p.Add(label, *testutils.Credential(t, label+"@x.com", "plus", "acct-"+label), fixedNow)
	}
	return p
}

func labels(p *Pool) []string {
	out := make([]string, 0, len(p.Accounts))
	for _, acct := range p.Accounts {
		out = append(out, acct.Label)
	}
	return out
}

func TestAdd_AppendsAndActivates(t *testing.T) {
	p := New()

	res := p.Add("work", *testutils.Credential(t, "a@x.com", "pro", "acct-a"), fixedNow)

	assert.Equal(t, AddAppended, res.Outcome)
	assert.Equal(t, 0, res.Index)
	require.Equal(t, 1, p.Len())
	assert.Equal(t, 0, p.ActiveIndex)

	acct := p.Accounts[0]
	assert.Equal(t, "work", acct.Label)
	assert.Equal(t, "a@x.com", acct.Email)
	assert.Equal(t, "pro", acct.PlanType)
	assert.Equal(t, "acct-a", acct.AccountID)
	assert.Equal(t, "2025-06-01T12:00:00Z", acct.AddedAt)

	res = p.Add("home", *testutils.Credential(t, "b@x.com", "plus", "acct-b"), fixedNow)
	assert.Equal(t, AddAppended, res.Outcome)
	assert.Equal(t, 1, p.ActiveIndex)
}

func TestAdd_SameLabelUpdatesInPlace(t *testing.T) {
	p := poolOf(t, "work", "home")
	require.Equal(t, 1, p.ActiveIndex)

	res := p.Add("work", *testutils.Credential(t, "new@x.com", "team", "acct-new"), fixedNow.Add(time.Hour))

	assert.Equal(t, AddUpdated, res.Outcome)
	assert.Equal(t, 2, p.Len())
	assert.Equal(t, 0, p.ActiveIndex)
	assert.Equal(t, "new@x.com", p.Accounts[0].Email)
	assert.Equal(t, "team", p.Accounts[0].PlanType)
	assert.Equal(t, "acct-new", p.Accounts[0].AccountID)
	assert.Equal(t, "2025-06-01T12:00:00Z", p.Accounts[0].AddedAt, "added_at is kept on update")
}

func TestAdd_Idempotent(t *testing.T) {
	p := New()
	cred := *testutils.Credential(t, "a@x.com", "pro", "acct-a")

	p.Add("work", cred, fixedNow)
	res := p.Add("work", cred, fixedNow)

	assert.Equal(t, AddUpdated, res.Outcome)
	assert.Equal(t, 1, p.Len())
}

func TestAdd_SameAccountDifferentLabel(t *testing.T) {
	p := poolOf(t, "work", "home")
	p.ActiveIndex = 1

	refreshed := *testutils.Credential(t, "work@x.com", "pro", "acct-work")
	refreshed.Tokens.AccessToken = "refreshed"
	res := p.Add("office", refreshed, fixedNow)

	assert.Equal(t, AddMatchedAccount, res.Outcome)
	assert.Equal(t, 0, res.Index)
	assert.Equal(t, []string{"work", "home"}, labels(p))
	assert.Equal(t, 1, p.ActiveIndex, "active index is untouched")
	assert.Equal(t, "refreshed", p.Accounts[0].Auth.Tokens.AccessToken)
	assert.Equal(t, "pro", p.Accounts[0].PlanType)
}

func TestAdd_EmptyAccountIDsNeverMatch(t *testing.T) {
	p := New()
	p.Add("one", *testutils.Credential(t, "a@x.com", "pro", ""), fixedNow)
	res := p.Add("two", *testutils.Credential(t, "b@x.com", "pro", ""), fixedNow)

	assert.Equal(t, AddAppended, res.Outcome)
	assert.Equal(t, 2, p.Len())
}

func TestRotate_Errors(t *testing.T) {
	_, _, err := New().Rotate(1)
	assert.ErrorIs(t, err, ErrEmptyPool)

	_, _, err = poolOf(t, "solo").Rotate(-1)
	assert.ErrorIs(t, err, ErrTooFewAccounts)
}

func TestRotate_Wraps(t *testing.T) {
	p := poolOf(t, "a", "b", "c")
	p.ActiveIndex = 0

	from, to, err := p.Rotate(-1)
	require.NoError(t, err)
	assert.Equal(t, 0, from)
	assert.Equal(t, 2, to)

	from, to, err = p.Rotate(1)
	require.NoError(t, err)
	assert.Equal(t, 2, from)
	assert.Equal(t, 0, to)
}

func TestRotate_IsCyclic(t *testing.T) {
	for _, step := range []int{1, -1} {
		for start := 0; start < 4; start++ {
			p := poolOf(t, "a", "b", "c", "d")
			p.ActiveIndex = start
			for range p.Len() {
				_, _, err := p.Rotate(step)
				require.NoError(t, err)
				require.NoError(t, p.Validate())
			}
			assert.Equal(t, start, p.ActiveIndex, "step %d from %d", step, start)
		}
	}
}

func TestRotate_NextThenPrevRestores(t *testing.T) {
	p := poolOf(t, "a", "b", "c")
	for start := 0; start < 3; start++ {
		p.ActiveIndex = start
		_, _, err := p.Rotate(1)
		require.NoError(t, err)
		_, _, err = p.Rotate(-1)
		require.NoError(t, err)
		assert.Equal(t, start, p.ActiveIndex)
	}
}

func TestReconcile(t *testing.T) {
	p := poolOf(t, "a", "b")
	p.ActiveIndex = 0

	live := testutils.Credential(t, "a@x.com", "plus", "acct-a")
	live.Tokens.AccessToken = "refreshed-by-codex"
	assert.True(t, p.Reconcile(live))
	assert.Equal(t, "refreshed-by-codex", p.Accounts[0].Auth.Tokens.AccessToken)

	other := testutils.Credential(t, "b@x.com", "plus", "acct-b")
	other.Tokens.AccessToken = "should-not-copy"
	assert.False(t, p.Reconcile(other))
	assert.Equal(t, "access-acct-b", p.Accounts[1].Auth.Tokens.AccessToken)

	assert.False(t, p.Reconcile(nil))
	assert.False(t, New().Reconcile(live))
}

func TestSelect(t *testing.T) {
	p := poolOf(t, "a", "b", "c")

	from, to, err := p.Select("a")
	require.NoError(t, err)
	assert.Equal(t, 2, from)
	assert.Equal(t, 0, to)
	assert.Equal(t, 0, p.ActiveIndex)

	_, _, err = p.Select("zzz")
	assert.ErrorIs(t, err, ErrAccountNotFound)
	assert.Equal(t, 0, p.ActiveIndex)

	_, _, err = New().Select("a")
	assert.ErrorIs(t, err, ErrEmptyPool)
}

func TestRemove(t *testing.T) {
	tests := []struct {
		name       string
		active     int
		remove     string
		wantLabels []string
		wantActive int
		wasActive  bool
	}{
		{name: "After active", active: 0, remove: "c", wantLabels: []string{"a", "b"}, wantActive: 0},
		{name: "Before active keeps account", active: 2, remove: "a", wantLabels: []string{"b", "c"}, wantActive: 1},
		{name: "Active in middle", active: 1, remove: "b", wantLabels: []string{"a", "c"}, wantActive: 1, wasActive: true},
		{name: "Active at end resets", active: 2, remove: "c", wantLabels: []string{"a", "b"}, wantActive: 0, wasActive: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := poolOf(t, "a", "b", "c")
			p.ActiveIndex = tt.active

			res, err := p.Remove(tt.remove)
			require.NoError(t, err)
			assert.Equal(t, tt.remove, res.Account.Label)
			assert.Equal(t, tt.wasActive, res.WasActive)
			assert.Equal(t, tt.wantLabels, labels(p))
			assert.Equal(t, tt.wantActive, p.ActiveIndex)
			assert.NoError(t, p.Validate())
		})
	}
}

func TestRemove_LastAccount(t *testing.T) {
	p := poolOf(t, "solo")

	res, err := p.Remove("solo")
	require.NoError(t, err)
	assert.True(t, res.WasActive)
	assert.Equal(t, 0, p.Len())
	assert.Equal(t, 0, p.ActiveIndex)
	assert.Nil(t, p.Active())
}

func TestRemove_NotFound(t *testing.T) {
	p := poolOf(t, "a")
	_, err := p.Remove("b")
	assert.ErrorIs(t, err, ErrAccountNotFound)
	assert.Equal(t, 1, p.Len())
}

func TestValidate(t *testing.T) {
	p := poolOf(t, "a", "b")
	assert.NoError(t, p.Validate())

	p.ActiveIndex = 2
	assert.Error(t, p.Validate())

	p.ActiveIndex = 0
	p.Accounts[1].Label = "a"
	assert.ErrorIs(t, p.Validate(), ErrDuplicateLabel)

	empty := New()
	empty.ActiveIndex = 3
	assert.Error(t, empty.Validate())
}
