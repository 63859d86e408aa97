package workouts

import (
	"errors"
	"fmt"
	"sort"

	"github.com/2beens/liftbook/pkg"
)

// checkDropset: all sets belong to one exercise and their set numbers are
// consecutive. Refs are sorted by set number in place.
func checkDropset(refs []SetRef) error {
	exerciseNumber := refs[0].ExerciseNumber
	for _, ref := range refs[1:] {
		if ref.ExerciseNumber != exerciseNumber {
			return errors.New("dropset sets must belong to the same exercise")
		}
	}

	sort.Slice(refs, func(i, j int) bool {
		return refs[i].SetNumber < refs[j].SetNumber
	})
	for i := 1; i < len(refs); i++ {
		if refs[i].SetNumber != refs[i-1].SetNumber+1 {
			return fmt.Errorf("dropset set numbers must be consecutive, got %d after %d",
				refs[i].SetNumber, refs[i-1].SetNumber)
		}
	}
	return nil
}

// checkSuperset: one set per exercise, exercises adjacent, and set numbers
// non-increasing as the exercise number grows. Refs are sorted by exercise
// number in place.
func checkSuperset(refs []SetRef) error {
	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].ExerciseNumber < refs[j].ExerciseNumber
	})
	for i := 1; i < len(refs); i++ {
		prev, cur := refs[i-1], refs[i]
		if cur.ExerciseNumber == prev.ExerciseNumber {
			return fmt.Errorf("superset lists exercise %d more than once", cur.ExerciseNumber)
		}
		if cur.ExerciseNumber != prev.ExerciseNumber+1 {
			return fmt.Errorf("superset exercises must be adjacent, got %d after %d",
				cur.ExerciseNumber, prev.ExerciseNumber)
		}
		if cur.SetNumber > prev.SetNumber {
			return fmt.Errorf("superset set numbers must not increase, got %d after %d",
				cur.SetNumber, prev.SetNumber)
		}
	}
	return nil
}

// checkSetsGroupedOnce rejects a set that appears in more than one grouping,
// since a set points at a single grouping.
func checkSetsGroupedOnce(groupings []Grouping) error {
	seen := make(map[SetRef]int)
	for i, g := range groupings {
		for _, ref := range g.Sets {
			if first, ok := seen[ref]; ok && first != i {
				return pkg.NewValidationError(
					fmt.Sprintf("setGroupings[%d]", i),
					"set %s is already in setGroupings[%d]", ref, first,
				)
			}
			seen[ref] = i
		}
	}
	return nil
}

func (r SetRef) String() string {
	return fmt.Sprintf("%d-%d", r.ExerciseNumber, r.SetNumber)
}
