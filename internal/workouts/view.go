package workouts

import "time"

type SetView struct {
	SetNumber     int      `json:"setNumber"`
	Weight        *float64 `json:"weight,omitempty"`
	Reps          *int     `json:"reps,omitempty"`
	LowReps       *int     `json:"lowReps,omitempty"`
	HighReps      *int     `json:"highReps,omitempty"`
	RPE           *float64 `json:"rpe,omitempty"`
	RIR           *int     `json:"rir,omitempty"`
	CheatReps     *int     `json:"cheatReps,omitempty"`
	PartialReps   *int     `json:"partialReps,omitempty"`
	SetGroupingID *int64   `json:"setGroupingId,omitempty"`
}

type ExerciseView struct {
	Name           string    `json:"name"`
	ExerciseNumber int       `json:"exerciseNumber"`
	Sets           []SetView `json:"sets"`
}

type SetGroupingView struct {
	ID        int64        `json:"id"`
	Type      GroupingType `json:"type"`
	GroupSets []SetRef     `json:"groupSets"`
}

// WorkoutView is the denormalized read model of one workout.
type WorkoutView struct {
	ID           int64             `json:"id"`
	UserID       int64             `json:"userId"`
	Name         string            `json:"name"`
	Date         time.Time         `json:"date"`
	Location     *string           `json:"location,omitempty"`
	Notes        *string           `json:"notes,omitempty"`
	Status       Status            `json:"status"`
	Exercises    []ExerciseView    `json:"exercises"`
	SetGroupings []SetGroupingView `json:"setGroupings"`
	Tags         []string          `json:"tags"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// Summary is one row of a user's workout list.
type Summary struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Date          time.Time `json:"date"`
	Location      *string   `json:"location,omitempty"`
	Status        Status    `json:"status"`
	ExerciseCount int       `json:"exerciseCount"`
}

// exerciseSetRow is one row of the workout_exercise x exercise_set join,
// ordered by exercise number then set number. Set columns are nil for an
// exercise with no sets.
type exerciseSetRow struct {
	exerciseNumber int
	exerciseName   string
	setNumber      *int
	cols           setColumns
	groupingID     *int64
	groupingType   *string
}

// assembleView groups the joined rows into exercises and rebuilds every
// distinct grouping once, in order of first appearance.
func assembleView(base WorkoutView, rows []exerciseSetRow, tags []string) *WorkoutView {
	view := base
	view.Exercises = []ExerciseView{}
	view.SetGroupings = []SetGroupingView{}
	view.Tags = []string{}
	if tags != nil {
		view.Tags = tags
	}

	groupingIdx := make(map[int64]int)
	for _, row := range rows {
		if n := len(view.Exercises); n == 0 || view.Exercises[n-1].ExerciseNumber != row.exerciseNumber {
			view.Exercises = append(view.Exercises, ExerciseView{
				Name:           row.exerciseName,
				ExerciseNumber: row.exerciseNumber,
				Sets:           []SetView{},
			})
		}
		if row.setNumber == nil {
			continue
		}

		exercise := &view.Exercises[len(view.Exercises)-1]
		exercise.Sets = append(exercise.Sets, SetView{
			SetNumber:     *row.setNumber,
			Weight:        row.cols.weight,
			Reps:          row.cols.reps,
			LowReps:       row.cols.lowReps,
			HighReps:      row.cols.highReps,
			RPE:           row.cols.rpe,
			RIR:           row.cols.rir,
			CheatReps:     row.cols.cheatReps,
			PartialReps:   row.cols.partialReps,
			SetGroupingID: row.groupingID,
		})

		if row.groupingID == nil {
			continue
		}
		idx, ok := groupingIdx[*row.groupingID]
		if !ok {
			groupingType := GroupingType("")
			if row.groupingType != nil {
				groupingType = GroupingType(*row.groupingType)
			}
			view.SetGroupings = append(view.SetGroupings, SetGroupingView{
				ID:        *row.groupingID,
				Type:      groupingType,
				GroupSets: []SetRef{},
			})
			idx = len(view.SetGroupings) - 1
			groupingIdx[*row.groupingID] = idx
		}
		view.SetGroupings[idx].GroupSets = append(view.SetGroupings[idx].GroupSets, SetRef{
			ExerciseNumber: row.exerciseNumber,
			SetNumber:      *row.setNumber,
		})
	}

	return &view
}
