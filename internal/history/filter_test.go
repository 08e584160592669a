package history

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/outreach-cli/internal/model"
)

type stubExclusions struct {
	emails  map[string]bool
	domains map[string]bool
}

func (s stubExclusions) ContainsEmail(e string) bool  { return s.emails[e] }
func (s stubExclusions) ContainsDomain(d string) bool { return s.domains[d] }

type stubSource struct {
	addrs []string
	err   error
}

func (s stubSource) Recipients(context.Context) ([]string, error) { return s.addrs, s.err }

func leadSet(leads ...*model.Lead) *model.LeadSet {
	set := model.NewLeadSet()
	for _, l := range leads {
		set.Put(l)
	}
	return set
}

func TestFilter(t *testing.T) {
	t.Parallel()

	acme := model.NewLead("acme.io", "info@acme.io")
	acme.AddEmail("sales@acme.io")
	foo := model.NewLead("foo.com", "x@foo.com")
	bar := model.NewLead("bar.com", "hr@bar.com")
	baz := model.NewLead("baz.com", "jobs@baz.com")

	set := leadSet(acme, foo, bar, baz)
	hist := model.NewHistorySet("Info@Acme.io", "sales@foo.com")
	excl := stubExclusions{
		emails:  map[string]bool{"hr@bar.com": true},
		domains: map[string]bool{"foo.com": true},
	}

	eligible, skipped := Filter(set, hist, excl)

	require.Len(t, eligible, 1)
	assert.Equal(t, "baz.com", eligible[0].Domain)

	require.Len(t, skipped, 3)
	assert.Equal(t, "acme.io", skipped[0].Domain)
	assert.Equal(t, model.OutcomeSkippedHistory, skipped[0].Status)
	assert.Equal(t, "foo.com", skipped[1].Domain)
	assert.Equal(t, model.OutcomeSkippedBlacklist, skipped[1].Status)
	assert.Equal(t, "bar.com", skipped[2].Domain)
	assert.Equal(t, model.OutcomeSkippedBlacklist, skipped[2].Status)

	// Inputs untouched.
	assert.Equal(t, 4, set.Len())
	assert.Equal(t, []string{"info@acme.io", "sales@acme.io"}, acme.Emails)
}

func TestFilter_HistoryTakesPrecedence(t *testing.T) {
	t.Parallel()

	lead := model.NewLead("acme.io", "info@acme.io")
	excl := stubExclusions{emails: map[string]bool{"info@acme.io": true}}

	_, skipped := Filter(leadSet(lead), model.NewHistorySet("info@acme.io"), excl)
	require.Len(t, skipped, 1)
	assert.Equal(t, model.OutcomeSkippedHistory, skipped[0].Status)
}

func TestFilter_OnlyPrimaryChecked(t *testing.T) {
	t.Parallel()

	lead := model.NewLead("acme.io", "info@acme.io")
	lead.AddEmail("sales@acme.io")

	eligible, skipped := Filter(leadSet(lead), model.NewHistorySet("sales@acme.io"), nil)
	assert.Len(t, eligible, 1)
	assert.Empty(t, skipped)
}

func TestFilter_PreservesOrder(t *testing.T) {
	t.Parallel()

	set := leadSet(
		model.NewLead("c.com", "c@c.com"),
		model.NewLead("a.com", "a@a.com"),
		model.NewLead("b.com", "b@b.com"),
	)
	eligible, _ := Filter(set, model.NewHistorySet(), stubExclusions{})
	var got []string
	for _, l := range eligible {
		got = append(got, l.Domain)
	}
	assert.Equal(t, []string{"c.com", "a.com", "b.com"}, got)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	h, err := Load(context.Background(), stubSource{addrs: []string{"A@x.com", "b@y.com", "a@x.com"}})
	require.NoError(t, err)
	assert.Len(t, h, 2)
	assert.True(t, h.Contains("a@x.com"))

	_, err = Load(context.Background(), stubSource{err: errors.New("imap down")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "imap down")
}

func TestSources(t *testing.T) {
	t.Parallel()

	srcs := Sources{
		stubSource{addrs: []string{"a@x.com"}},
		nil,
		stubSource{addrs: []string{"b@y.com", "a@x.com"}},
	}
	got, err := srcs.Recipients(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a@x.com", "b@y.com", "a@x.com"}, got)

	hist, err := Load(context.Background(), srcs)
	require.NoError(t, err)
	assert.Len(t, hist, 2)

	failing := Sources{stubSource{addrs: []string{"a@x.com"}}, stubSource{err: errors.New("imap down")}}
	_, err = failing.Recipients(context.Background())
	require.Error(t, err)
}
