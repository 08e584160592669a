// Package history drops leads that were already contacted or excluded.
package history

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/model"
)

// Exclusions answers exclusion lookups.
type Exclusions interface {
	ContainsEmail(email string) bool
	ContainsDomain(domain string) bool
}

// Source lists every recipient previously written to.
type Source interface {
	Recipients(ctx context.Context) ([]string, error)
}

// Load builds a fresh HistorySet from src.
func Load(ctx context.Context, src Source) (model.HistorySet, error) {
	addrs, err := src.Recipients(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "history: load recipients")
	}
	h := model.NewHistorySet(addrs...)
	zap.L().Info("history: loaded", zap.Int("recipients", len(h)))
	return h, nil
}

// Filter splits set into leads still worth contacting and skip outcomes for
// the rest. History is checked before exclusions. Eligible leads keep the
// set's order; no input is modified.
func Filter(set *model.LeadSet, hist model.HistorySet, excl Exclusions) ([]*model.Lead, []model.Outcome) {
	var (
		eligible []*model.Lead
		skipped  []model.Outcome
	)
	for _, lead := range set.Leads() {
		primary := lead.Primary()
		switch {
		case hist.Contains(primary):
			skipped = append(skipped, model.NewOutcome(lead, model.OutcomeSkippedHistory))
		case excl != nil && (excl.ContainsEmail(primary) || excl.ContainsDomain(lead.Domain)):
			skipped = append(skipped, model.NewOutcome(lead, model.OutcomeSkippedBlacklist))
		default:
			eligible = append(eligible, lead)
		}
	}

	zap.L().Info("history: filtered leads",
		zap.Int("eligible", len(eligible)),
		zap.Int("skipped", len(skipped)),
	)
	return eligible, skipped
}

// Sources merges the recipients of several sources. Any failure fails the
// whole load.
type Sources []Source

// Recipients implements Source.
func (s Sources) Recipients(ctx context.Context) ([]string, error) {
	var all []string
	for _, src := range s {
		if src == nil {
			continue
		}
		addrs, err := src.Recipients(ctx)
		if err != nil {
			return nil, err
		}
		all = append(all, addrs...)
	}
	return all, nil
}
