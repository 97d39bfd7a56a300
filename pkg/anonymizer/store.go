package anonymizer

import (
	"strconv"
	"strings"

	"github.com/geldfluss/geldfluss/pkg/models"
)

// Store keeps the bidirectional original<->pseudonym mapping for one batch.
// It lives in memory only and must be reset before reuse; sharing one store
// across concurrent batches would corrupt pseudonym stability.
type Store struct {
	mappings []models.AnonymizationMapping
	forward  map[string]string
	reverse  map[string]string
	counters map[models.MappingType]int
}

// NewStore returns an empty mapping store.
func NewStore() *Store {
	s := &Store{}
	s.Reset()
	return s
}

// Reset discards every mapping. Lookups after a reset find nothing.
func (s *Store) Reset() {
	s.mappings = nil
	s.forward = make(map[string]string)
	s.reverse = make(map[string]string)
	s.counters = make(map[models.MappingType]int)
}

// Lookup returns the pseudonym already assigned to original, if any.
func (s *Store) Lookup(original string) (string, bool) {
	v, ok := s.forward[original]
	return v, ok
}

// Original reverses a pseudonym back to its source value.
func (s *Store) Original(anonymized string) (string, bool) {
	v, ok := s.reverse[anonymized]
	return v, ok
}

// Put records a mapping. The first pseudonym assigned to an original wins;
// later calls return the existing one so values stay stable within a batch.
// Computed masks can collide (two emails sharing the first letter and
// domain, two phone numbers ending in the same digits); a colliding
// pseudonym gets a sequence suffix so every reverse lookup stays exact.
func (s *Store) Put(original, anonymized string, typ models.MappingType) string {
	if existing, ok := s.forward[original]; ok {
		return existing
	}
	candidate := anonymized
	for n := 2; ; n++ {
		if _, taken := s.reverse[candidate]; !taken {
			break
		}
		candidate = anonymized + "~" + strconv.Itoa(n)
	}
	s.forward[original] = candidate
	s.reverse[candidate] = original
	s.mappings = append(s.mappings, models.AnonymizationMapping{
		Original:   original,
		Anonymized: candidate,
		Type:       typ,
	})
	return candidate
}

// NextCode derives the next sequential short code for a mapping type, e.g.
// Person_001 or Acc_003.
func (s *Store) NextCode(prefix string, typ models.MappingType) string {
	s.counters[typ]++
	n := strconv.FormatInt(int64(s.counters[typ]), 36)
	return prefix + strings.ToUpper(leftPad(n, 3))
}

// Mappings returns every mapping created since the last reset.
func (s *Store) Mappings() []models.AnonymizationMapping {
	out := make([]models.AnonymizationMapping, len(s.mappings))
	copy(out, s.mappings)
	return out
}

func leftPad(s string, width int) string {
	for len(s) < width {
		s = "0" + s
	}
	return s
}
