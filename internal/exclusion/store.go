// Package exclusion persists the addresses and domains the operator never
// wants contacted again.
package exclusion

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Record is the on-disk form of the exclusion list.
type Record struct {
	Emails  []string `yaml:"emails"`
	Domains []string `yaml:"domains"`
}

// Store is an exclusion list backed by a YAML file. It has a single writer
// and is not safe for concurrent use.
type Store struct {
	path    string
	emails  map[string]struct{}
	domains map[string]struct{}
}

// Open loads the record at path, creating an empty file when none exists.
func Open(path string) (*Store, error) {
	s := &Store{
		path:    path,
		emails:  make(map[string]struct{}),
		domains: make(map[string]struct{}),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if err := s.Persist(); err != nil {
			return nil, err
		}
		return s, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "exclusion: read %s", path)
	}

	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, eris.Wrapf(err, "exclusion: parse %s", path)
	}
	for _, e := range rec.Emails {
		addTo(s.emails, e)
	}
	for _, d := range rec.Domains {
		addTo(s.domains, d)
	}
	return s, nil
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Add excludes an address and a domain. Either may be empty. Adding an
// existing value is a no-op.
func (s *Store) Add(email, domain string) {
	addTo(s.emails, email)
	addTo(s.domains, domain)
}

// ContainsEmail reports whether email is excluded.
func (s *Store) ContainsEmail(email string) bool {
	_, ok := s.emails[normalize(email)]
	return ok
}

// ContainsDomain reports whether domain is excluded.
func (s *Store) ContainsDomain(domain string) bool {
	_, ok := s.domains[normalize(domain)]
	return ok
}

// Contains reports whether v is excluded as either an address or a domain.
func (s *Store) Contains(v string) bool {
	return s.ContainsEmail(v) || s.ContainsDomain(v)
}

// Remove drops v from both sets and reports whether anything was removed.
func (s *Store) Remove(v string) bool {
	v = normalize(v)
	_, inEmails := s.emails[v]
	_, inDomains := s.domains[v]
	delete(s.emails, v)
	delete(s.domains, v)
	return inEmails || inDomains
}

// Record returns a sorted snapshot.
func (s *Store) Record() Record {
	return Record{
		Emails:  sortedKeys(s.emails),
		Domains: sortedKeys(s.domains),
	}
}

// Persist atomically overwrites the backing file with the current record.
func (s *Store) Persist() error {
	data, err := yaml.Marshal(s.Record())
	if err != nil {
		return eris.Wrap(err, "exclusion: marshal")
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".exclusion-*.yaml")
	if err != nil {
		return eris.Wrap(err, "exclusion: create temp file")
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return eris.Wrap(err, "exclusion: write temp file")
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return eris.Wrap(err, "exclusion: sync temp file")
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrap(err, "exclusion: close temp file")
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return eris.Wrapf(err, "exclusion: replace %s", s.path)
	}
	return nil
}

func normalize(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func addTo(set map[string]struct{}, v string) {
	if v = normalize(v); v != "" {
		set[v] = struct{}{}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
