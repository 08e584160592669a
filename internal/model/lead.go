package model

import "strings"

// Info keys attached to a lead during enrichment.
const (
	InfoSummary = "summary"
	InfoSite    = "site"
)

// Lead is a prospective employer grouped by email domain.
type Lead struct {
	Domain string            `json:"domain"`
	Emails []string          `json:"emails"`
	Info   map[string]string `json:"info,omitempty"`
}

// NewLead creates a lead for domain with its first discovered address.
func NewLead(domain, email string) *Lead {
	return &Lead{
		Domain: domain,
		Emails: []string{email},
	}
}

// Primary returns the first-discovered address, the sole outreach recipient.
func (l *Lead) Primary() string {
	if l == nil || len(l.Emails) == 0 {
		return ""
	}
	return l.Emails[0]
}

// AddEmail appends email unless an address equal to it (ignoring case) is
// already present. Returns true when the address was appended.
func (l *Lead) AddEmail(email string) bool {
	for _, e := range l.Emails {
		if strings.EqualFold(e, email) {
			return false
		}
	}
	l.Emails = append(l.Emails, email)
	return true
}

// SiteURL returns the canonical site URL for the lead's domain.
func (l *Lead) SiteURL() string {
	return SiteURL(l.Domain)
}

// Summary returns the enrichment summary, if any.
func (l *Lead) Summary() string {
	if l.Info == nil {
		return ""
	}
	return l.Info[InfoSummary]
}

// SiteURL builds the canonical https://www.{domain} URL.
func SiteURL(domain string) string {
	domain = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(domain)), "www.")
	if domain == "" {
		return ""
	}
	return "https://www." + domain
}

// DomainOf returns the part of an address after the last "@", or "" when
// the address has no domain.
func DomainOf(email string) string {
	i := strings.LastIndexByte(email, '@')
	if i < 0 || i == len(email)-1 {
		return ""
	}
	return email[i+1:]
}

// LeadSet is an insertion-ordered mapping of domain to lead.
type LeadSet struct {
	order    []string
	byDomain map[string]*Lead
}

// NewLeadSet returns an empty LeadSet.
func NewLeadSet() *LeadSet {
	return &LeadSet{byDomain: make(map[string]*Lead)}
}

// Get returns the lead for domain, if present.
func (s *LeadSet) Get(domain string) (*Lead, bool) {
	l, ok := s.byDomain[domain]
	return l, ok
}

// Put inserts a lead, keeping the original position when the domain is
// already present.
func (s *LeadSet) Put(l *Lead) {
	if _, ok := s.byDomain[l.Domain]; !ok {
		s.order = append(s.order, l.Domain)
	}
	s.byDomain[l.Domain] = l
}

// Len returns the number of domains.
func (s *LeadSet) Len() int { return len(s.order) }

// Domains returns the domains in first-seen order.
func (s *LeadSet) Domains() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Leads returns the leads in first-seen order.
func (s *LeadSet) Leads() []*Lead {
	out := make([]*Lead, 0, len(s.order))
	for _, d := range s.order {
		out = append(out, s.byDomain[d])
	}
	return out
}

// HistorySet holds lowercased addresses already contacted.
type HistorySet map[string]struct{}

// NewHistorySet builds a HistorySet from raw addresses.
func NewHistorySet(addrs ...string) HistorySet {
	h := make(HistorySet, len(addrs))
	for _, a := range addrs {
		h.Add(a)
	}
	return h
}

// Add records an address.
func (h HistorySet) Add(addr string) {
	addr = strings.ToLower(strings.TrimSpace(addr))
	if addr != "" {
		h[addr] = struct{}{}
	}
}

// Contains reports whether addr was already contacted.
func (h HistorySet) Contains(addr string) bool {
	_, ok := h[strings.ToLower(strings.TrimSpace(addr))]
	return ok
}
