package workouts

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/2beens/liftbook/pkg"
)

const (
	maxNameLen     = 100
	maxLocationLen = 100
	maxNotesLen    = 500
	maxTags        = 10
	maxTagLen      = 50
	minGroupSets   = 2
)

type SetRequest struct {
	Weight      *float64 `json:"weight,omitempty"`
	Reps        *int     `json:"reps,omitempty"`
	LowReps     *int     `json:"lowReps,omitempty"`
	HighReps    *int     `json:"highReps,omitempty"`
	RPE         *float64 `json:"rpe,omitempty"`
	RIR         *int     `json:"rir,omitempty"`
	CheatReps   *int     `json:"cheatReps,omitempty"`
	PartialReps *int     `json:"partialReps,omitempty"`
}

type ExerciseRequest struct {
	Name         string       `json:"name"`
	ExerciseSets []SetRequest `json:"exerciseSets"`
}

type SetGroupingRequest struct {
	Type      string   `json:"type"`
	GroupSets []SetRef `json:"groupSets"`
}

// WorkoutRequest is the body of the create and replace routes.
type WorkoutRequest struct {
	UserID       int64                `json:"userId"`
	Date         string               `json:"date"`
	Name         string               `json:"name"`
	Location     string               `json:"location,omitempty"`
	Notes        string               `json:"notes,omitempty"`
	Status       string               `json:"status,omitempty"`
	Tags         []string             `json:"tags,omitempty"`
	Exercises    []ExerciseRequest    `json:"exercises"`
	SetGroupings []SetGroupingRequest `json:"setGroupings,omitempty"`
}

// Validate checks the payload and converts it into a Workout. Set references
// in groupings are only checked for shape here; whether they point at an
// existing set is resolved while writing.
func (req WorkoutRequest) Validate() (*Workout, error) {
	if req.UserID <= 0 {
		return nil, pkg.NewValidationError("userId", "is required")
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkg.NewValidationError("name", "is required")
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return nil, pkg.NewValidationError("name", "must be at most %d characters", maxNameLen)
	}
	location := strings.TrimSpace(req.Location)
	if utf8.RuneCountInString(location) > maxLocationLen {
		return nil, pkg.NewValidationError("location", "must be at most %d characters", maxLocationLen)
	}
	if utf8.RuneCountInString(req.Notes) > maxNotesLen {
		return nil, pkg.NewValidationError("notes", "must be at most %d characters", maxNotesLen)
	}

	status := StatusCompleted
	switch Status(req.Status) {
	case "":
	case StatusCompleted, StatusPlanned:
		status = Status(req.Status)
	default:
		return nil, pkg.NewValidationError("status", "must be %q or %q", StatusCompleted, StatusPlanned)
	}

	tags, err := normalizeTags(req.Tags)
	if err != nil {
		return nil, err
	}

	if len(req.Exercises) == 0 {
		return nil, pkg.NewValidationError("exercises", "at least one exercise is required")
	}
	exercises := make([]Exercise, 0, len(req.Exercises))
	for i, exReq := range req.Exercises {
		exercise, err := exReq.validate(i + 1)
		if err != nil {
			return nil, err
		}
		exercises = append(exercises, *exercise)
	}

	groupings := make([]Grouping, 0, len(req.SetGroupings))
	for i, gReq := range req.SetGroupings {
		grouping, err := gReq.validate(i)
		if err != nil {
			return nil, err
		}
		groupings = append(groupings, *grouping)
	}
	if err := checkSetsGroupedOnce(groupings); err != nil {
		return nil, err
	}

	return &Workout{
		UserID:    req.UserID,
		Date:      date,
		Name:      name,
		Location:  location,
		Notes:     req.Notes,
		Status:    status,
		Tags:      tags,
		Exercises: exercises,
		Groupings: groupings,
	}, nil
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, pkg.NewValidationError("date", "is required")
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, pkg.NewValidationError("date", "%q is not an ISO-8601 date", raw)
}

// normalizeTags trims and deduplicates tags, keeping first-seen order.
func normalizeTags(raw []string) ([]string, error) {
	seen := make(map[string]bool, len(raw))
	tags := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		if utf8.RuneCountInString(t) > maxTagLen {
			return nil, pkg.NewValidationError("tags", "tag %q is longer than %d characters", t, maxTagLen)
		}
		seen[t] = true
		tags = append(tags, t)
	}
	if len(tags) > maxTags {
		return nil, pkg.NewValidationError("tags", "at most %d tags are allowed", maxTags)
	}
	return tags, nil
}

func (exReq ExerciseRequest) validate(number int) (*Exercise, error) {
	field := fmt.Sprintf("exercises[%d]", number-1)
	name := strings.TrimSpace(exReq.Name)
	if name == "" {
		return nil, pkg.NewValidationError(field+".name", "is required")
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return nil, pkg.NewValidationError(field+".name", "must be at most %d characters", maxNameLen)
	}

	sets := make([]Set, 0, len(exReq.ExerciseSets))
	for i, setReq := range exReq.ExerciseSets {
		set, err := setReq.validate(fmt.Sprintf("%s.exerciseSets[%d]", field, i), i+1)
		if err != nil {
			return nil, err
		}
		sets = append(sets, *set)
	}

	return &Exercise{
		Number: number,
		Name:   name,
		Sets:   sets,
	}, nil
}

func (s SetRequest) validate(field string, number int) (*Set, error) {
	set := &Set{Number: number}

	if s.Weight != nil {
		if *s.Weight < 0 {
			return nil, pkg.NewValidationError(field+".weight", "must not be negative")
		}
		w := *s.Weight
		set.Weight = &w
	}

	hasRange := s.LowReps != nil || s.HighReps != nil
	switch {
	case s.Reps != nil && hasRange:
		return nil, pkg.NewValidationError(field+".reps", "reps and lowReps/highReps are mutually exclusive")
	case s.Reps != nil:
		if *s.Reps < 0 {
			return nil, pkg.NewValidationError(field+".reps", "must not be negative")
		}
		set.Reps = FixedReps(*s.Reps)
	case hasRange:
		if s.LowReps == nil || s.HighReps == nil {
			return nil, pkg.NewValidationError(field+".lowReps", "lowReps and highReps must be given together")
		}
		if *s.LowReps < 0 || *s.HighReps < *s.LowReps {
			return nil, pkg.NewValidationError(field+".lowReps", "invalid rep range %d-%d", *s.LowReps, *s.HighReps)
		}
		set.Reps = RepRange{Low: *s.LowReps, High: *s.HighReps}
	}

	switch {
	case s.RPE != nil && s.RIR != nil:
		return nil, pkg.NewValidationError(field+".rpe", "rpe and rir are mutually exclusive")
	case s.RPE != nil:
		if *s.RPE < 0 || *s.RPE > 10 {
			return nil, pkg.NewValidationError(field+".rpe", "must be between 0 and 10")
		}
		set.Intensity = RPE(*s.RPE)
	case s.RIR != nil:
		if *s.RIR < 0 {
			return nil, pkg.NewValidationError(field+".rir", "must not be negative")
		}
		set.Intensity = RIR(*s.RIR)
	}

	switch {
	case s.CheatReps != nil && s.PartialReps != nil:
		return nil, pkg.NewValidationError(field+".cheatReps", "cheatReps and partialReps are mutually exclusive")
	case s.CheatReps != nil:
		if *s.CheatReps < 0 {
			return nil, pkg.NewValidationError(field+".cheatReps", "must not be negative")
		}
		set.Extra = CheatReps(*s.CheatReps)
	case s.PartialReps != nil:
		if *s.PartialReps < 0 {
			return nil, pkg.NewValidationError(field+".partialReps", "must not be negative")
		}
		set.Extra = PartialReps(*s.PartialReps)
	}

	return set, nil
}

func (gReq SetGroupingRequest) validate(index int) (*Grouping, error) {
	field := fmt.Sprintf("setGroupings[%d]", index)

	groupingType := GroupingType(gReq.Type)
	if groupingType != GroupingSuperset && groupingType != GroupingDropset {
		return nil, pkg.NewValidationError(field+".type", "must be %q or %q", GroupingSuperset, GroupingDropset)
	}
	if len(gReq.GroupSets) < minGroupSets {
		return nil, pkg.NewValidationError(field+".groupSets", "a %s needs at least %d sets", groupingType, minGroupSets)
	}
	for _, ref := range gReq.GroupSets {
		if ref.ExerciseNumber < 1 || ref.SetNumber < 1 {
			return nil, pkg.NewValidationError(field+".groupSets", "exerciseNumber and setNumber are 1-based")
		}
	}

	refs := append([]SetRef(nil), gReq.GroupSets...)
	var err error
	switch groupingType {
	case GroupingDropset:
		err = checkDropset(refs)
	case GroupingSuperset:
		err = checkSuperset(refs)
	}
	if err != nil {
		return nil, pkg.NewValidationError(field, "%s", err)
	}

	return &Grouping{Type: groupingType, Sets: refs}, nil
}
