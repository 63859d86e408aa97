package workouts

import (
	"errors"
	"time"
)

var (
	ErrWorkoutNotFound = errors.New("workout not found")
	ErrSetNotFound     = errors.New("set not found")
	ErrUserNotFound    = errors.New("user not found")
)

type Status string

const (
	StatusCompleted Status = "completed"
	StatusPlanned   Status = "planned"
)

type GroupingType string

const (
	GroupingSuperset GroupingType = "superset"
	GroupingDropset  GroupingType = "dropset"
)

// Reps is either FixedReps or RepRange.
type Reps interface {
	isReps()
}

type FixedReps int

type RepRange struct {
	Low  int
	High int
}

func (FixedReps) isReps() {}
func (RepRange) isReps()  {}

// Intensity is either RPE or RIR.
type Intensity interface {
	isIntensity()
}

type RPE float64

type RIR int

func (RPE) isIntensity() {}
func (RIR) isIntensity() {}

// ExtraReps is either CheatReps or PartialReps.
type ExtraReps interface {
	isExtraReps()
}

type CheatReps int

type PartialReps int

func (CheatReps) isExtraReps()   {}
func (PartialReps) isExtraReps() {}

// Set is a validated set. Number is 1-based within its exercise.
type Set struct {
	Number    int
	Weight    *float64
	Reps      Reps
	Intensity Intensity
	Extra     ExtraReps
}

// Exercise is a validated exercise entry. Number is its 1-based position
// within the workout.
type Exercise struct {
	Number int
	Name   string
	Sets   []Set
}

// SetRef addresses a set the way the payload does.
type SetRef struct {
	ExerciseNumber int `json:"exerciseNumber"`
	SetNumber      int `json:"setNumber"`
}

type Grouping struct {
	Type GroupingType
	Sets []SetRef
}

// Workout is a payload that passed validation and is ready to be written.
type Workout struct {
	UserID    int64
	Date      time.Time
	Name      string
	Location  string
	Notes     string
	Status    Status
	Tags      []string
	Exercises []Exercise
	Groupings []Grouping
}

// setColumns flattens the set variants into their nullable storage columns.
type setColumns struct {
	weight      *float64
	reps        *int
	lowReps     *int
	highReps    *int
	rpe         *float64
	rir         *int
	cheatReps   *int
	partialReps *int
}

func (s Set) columns() setColumns {
	cols := setColumns{weight: s.Weight}

	switch r := s.Reps.(type) {
	case FixedReps:
		cols.reps = intPtr(int(r))
	case RepRange:
		cols.lowReps = intPtr(r.Low)
		cols.highReps = intPtr(r.High)
	}

	switch i := s.Intensity.(type) {
	case RPE:
		v := float64(i)
		cols.rpe = &v
	case RIR:
		cols.rir = intPtr(int(i))
	}

	switch e := s.Extra.(type) {
	case CheatReps:
		cols.cheatReps = intPtr(int(e))
	case PartialReps:
		cols.partialReps = intPtr(int(e))
	}

	return cols
}

func intPtr(v int) *int {
	return &v
}
