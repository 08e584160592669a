// Package aggregate groups collected addresses into per-domain leads and
// enriches them with a short company summary.
package aggregate

import (
	"github.com/sells-group/outreach-cli/internal/model"
)

// Aggregate groups emails by the text after their last "@". The first
// address seen for a domain creates its lead; later ones are appended unless
// already present ignoring case. Domain case is preserved as found.
// Addresses without a domain are dropped.
func Aggregate(emails []string) *model.LeadSet {
	set := model.NewLeadSet()
	for _, e := range emails {
		domain := model.DomainOf(e)
		if domain == "" {
			continue
		}
		if lead, ok := set.Get(domain); ok {
			lead.AddEmail(e)
			continue
		}
		set.Put(model.NewLead(domain, e))
	}
	return set
}
