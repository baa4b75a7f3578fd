// internal/split/split.go
//
// The split package partitions the roster into randomly-assigned groups.
// Membership is fixed at creation; a new split replaces the previous groups
// wholesale. Only the name is mutable afterwards.

package split

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/kingrea/drawdeck/internal/roster"
)

// Mode selects how the target group count is derived.
type Mode int

const (
	// ModeGroupCount fixes the number of groups.
	ModeGroupCount Mode = iota
	// ModeGroupSize fixes the number of members per group.
	ModeGroupSize
)

// Policy carries the split mode and its numeric value.
type Policy struct {
	Mode  Mode
	Value int
}

// Group is one team produced by a split. Members keep their assigned order.
type Group struct {
	ID      string
	Name    string
	Members []roster.Participant
}

// ErrNoParticipants is returned when a split is requested over an empty
// roster.
var ErrNoParticipants = errors.New("split: no participants to assign")

// GroupCount resolves the policy into a target group count for n
// participants. Count mode clamps to [1, n]; size mode floors the value at
// 1 and takes the ceiling division. The size mode deliberately has no upper
// clamp.
func GroupCount(policy Policy, n int) int {
	switch policy.Mode {
	case ModeGroupSize:
		size := policy.Value
		if size < 1 {
			size = 1
		}
		return (n + size - 1) / size
	default:
		count := policy.Value
		if count < 1 {
			count = 1
		}
		if count > n {
			count = n
		}
		return count
	}
}

// Split shuffles the participants with an unbiased Fisher–Yates permutation
// and deals them into groups round-robin, so group sizes differ by at most
// one. Groups get ordinal names; callers wanting themed names overlay them
// with ApplyNames afterwards.
func Split(rng *rand.Rand, participants []roster.Participant, policy Policy) ([]Group, error) {
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}
	shuffled := append([]roster.Participant(nil), participants...)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	count := GroupCount(policy, len(participants))
	groups := make([]Group, count)
	for i := range groups {
		groups[i] = Group{ID: uuid.NewString(), Name: OrdinalName(i + 1)}
	}
	for i, p := range shuffled {
		g := i % count
		groups[g].Members = append(groups[g].Members, p)
	}
	return groups, nil
}

// ApplyNames overlays themed names positionally. A missing or blank entry
// leaves that group on its ordinal name, so every group always ends up with
// a non-empty name no matter what the namer returned.
func ApplyNames(groups []Group, names []string) {
	for i := range groups {
		if i >= len(names) || names[i] == "" {
			groups[i].Name = OrdinalName(i + 1)
			continue
		}
		groups[i].Name = names[i]
	}
}

// Rename replaces one group's name by id. Membership and every other group
// are untouched; an unknown id is a no-op.
func Rename(groups []Group, id, newName string) []Group {
	out := make([]Group, len(groups))
	copy(out, groups)
	for i := range out {
		if out[i].ID == id {
			out[i].Name = newName
		}
	}
	return out
}

var ordinalOnes = []string{
	"One", "Two", "Three", "Four", "Five",
	"Six", "Seven", "Eight", "Nine", "Ten",
}

var ordinalTeens = []string{
	"Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen",
	"Sixteen", "Seventeen", "Eighteen", "Nineteen",
}

// OrdinalName renders the default group name for position n (1-based).
// Three tiers: an exact lookup through ten, the teens rule through
// nineteen, and a plain numeric fallback from twenty on.
func OrdinalName(n int) string {
	switch {
	case n >= 1 && n <= 10:
		return "Group " + ordinalOnes[n-1]
	case n >= 11 && n <= 19:
		return "Group " + ordinalTeens[n-11]
	default:
		return fmt.Sprintf("Group %d", n)
	}
}
