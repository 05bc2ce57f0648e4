package matcher

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"sheetclean/internal/record"
)

// Key normalizes a name for comparison: NFC, trimmed, upper-cased
func Key(name string) string {
	return strings.ToUpper(strings.TrimSpace(norm.NFC.String(name)))
}

// NameSet is the set of normalized names of a record list, with the first
// record seen for each name
type NameSet struct {
	first map[string]*record.Record
}

// NewNameSet indexes records by the string value of field. Records without the
// field, with a non-string value or a blank name are skipped.
func NewNameSet(records []*record.Record, field string) NameSet {
	s := NameSet{first: make(map[string]*record.Record)}
	for _, rec := range records {
		key, ok := nameKey(rec, field)
		if !ok {
			continue
		}
		if _, seen := s.first[key]; !seen {
			s.first[key] = rec
		}
	}
	return s
}

// Len returns the number of distinct names
func (s NameSet) Len() int {
	return len(s.first)
}

// Contains reports whether the normalized name is present
func (s NameSet) Contains(key string) bool {
	_, ok := s.first[key]
	return ok
}

// Lookup returns the first record carrying the normalized name
func (s NameSet) Lookup(key string) (*record.Record, bool) {
	rec, ok := s.first[key]
	return rec, ok
}

// Names returns the normalized names in sorted order
func (s NameSet) Names() []string {
	names := make([]string, 0, len(s.first))
	for k := range s.first {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Pair holds the representative record of a common name from each list
type Pair struct {
	Name   string
	First  *record.Record
	Second *record.Record
}

// Result is the outcome of comparing two record lists by name
type Result struct {
	FirstCount  int
	SecondCount int
	Common      []string
	OnlyFirst   []string
	OnlySecond  []string
	Pairs       []Pair
}

// Match compares two record lists by name, ignoring case and surrounding whitespace.
// firstField and secondField name the field holding the name in each list.
func Match(first, second []*record.Record, firstField, secondField string) Result {
	a := NewNameSet(first, firstField)
	b := NewNameSet(second, secondField)

	res := Result{
		FirstCount:  a.Len(),
		SecondCount: b.Len(),
	}
	for _, name := range a.Names() {
		if b.Contains(name) {
			res.Common = append(res.Common, name)
			r1, _ := a.Lookup(name)
			r2, _ := b.Lookup(name)
			res.Pairs = append(res.Pairs, Pair{Name: name, First: r1, Second: r2})
		} else {
			res.OnlyFirst = append(res.OnlyFirst, name)
		}
	}
	for _, name := range b.Names() {
		if !a.Contains(name) {
			res.OnlySecond = append(res.OnlySecond, name)
		}
	}
	return res
}

// Filter returns the candidates whose name appears in reference, in candidate order.
// Every matching candidate is kept, including duplicates.
func Filter(reference, candidates []*record.Record, referenceField, candidateField string) []*record.Record {
	ref := NewNameSet(reference, referenceField)
	matched := []*record.Record{}
	for _, rec := range candidates {
		key, ok := nameKey(rec, candidateField)
		if ok && ref.Contains(key) {
			matched = append(matched, rec)
		}
	}
	return matched
}

func nameKey(rec *record.Record, field string) (string, bool) {
	v, ok := rec.Get(field)
	if !ok {
		return "", false
	}
	name, ok := v.(string)
	if !ok {
		return "", false
	}
	key := Key(name)
	return key, key != ""
}
