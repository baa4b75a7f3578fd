// internal/roster/roster.go
//
// The roster package owns the shape of the participant list: parsing raw
// pasted text into participants, removing duplicates, and deriving the
// duplicate-name view the UI badges rows with. It holds no state of its
// own; the coordinator in internal/state owns the canonical list.

package roster

import (
	"strings"

	"github.com/google/uuid"
)

// Participant is one entry in the event roster. The ID is generated when
// the participant is created and is never reused, even after removal.
// Names may legitimately duplicate; duplication is surfaced, not prevented.
type Participant struct {
	ID   string
	Name string
}

// Parse splits free-form text into participants. Entries are separated by
// runs of newlines and/or commas, each entry is trimmed, and empty entries
// are dropped. Surviving entries keep their input order.
func Parse(raw string) []Participant {
	tokens := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '\n' || r == '\r' || r == ','
	})
	var list []Participant
	for _, tok := range tokens {
		name := strings.TrimSpace(tok)
		if name == "" {
			continue
		}
		list = append(list, Participant{ID: uuid.NewString(), Name: name})
	}
	return list
}

// DedupeByName keeps the first occurrence of each distinct trimmed name and
// drops every later occurrence. The result is a subsequence of the input.
func DedupeByName(list []Participant) []Participant {
	seen := make(map[string]struct{}, len(list))
	out := make([]Participant, 0, len(list))
	for _, p := range list {
		name := strings.TrimSpace(p.Name)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Remove returns the list without the participant carrying id, preserving
// the order of everyone else. An unknown id returns the list unchanged.
func Remove(list []Participant, id string) []Participant {
	out := make([]Participant, 0, len(list))
	for _, p := range list {
		if p.ID == id {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Names returns the display names in roster order. The UI uses this to
// refill the input textarea after the list is saved or deduped.
func Names(list []Participant) []string {
	names := make([]string, len(list))
	for i, p := range list {
		names[i] = p.Name
	}
	return names
}

// DuplicateNames reports the set of trimmed names that occur more than once
// in the list. It is recomputed from scratch on every call.
func DuplicateNames(list []Participant) map[string]bool {
	counts := make(map[string]int, len(list))
	for _, p := range list {
		counts[strings.TrimSpace(p.Name)]++
	}
	dups := make(map[string]bool)
	for name, n := range counts {
		if n > 1 {
			dups[name] = true
		}
	}
	return dups
}
