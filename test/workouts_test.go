//go:build integration_test || all_tests

package test

import (
	"fmt"
	"net/http"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/2beens/liftbook/internal/weights"
	"github.com/2beens/liftbook/internal/workouts"
)

func ptr[T any](v T) *T {
	return &v
}

func pushDay(userID int64) workouts.WorkoutRequest {
	return workouts.WorkoutRequest{
		UserID:   userID,
		Date:     "2024-03-04",
		Name:     "Push",
		Location: gofakeit.City(),
		Tags:     []string{"push", "heavy"},
		Exercises: []workouts.ExerciseRequest{
			{
				Name: "Bench Press",
				ExerciseSets: []workouts.SetRequest{
					{Reps: ptr(5), Weight: ptr(100.0)},
					{Reps: ptr(8), Weight: ptr(80.0)},
					{Reps: ptr(12), Weight: ptr(60.0), RIR: ptr(0)},
				},
			},
			{
				Name: "Overhead Press",
				ExerciseSets: []workouts.SetRequest{
					{LowReps: ptr(6), HighReps: ptr(8), Weight: ptr(50.0), RPE: ptr(8.0)},
				},
			},
		},
		SetGroupings: []workouts.SetGroupingRequest{
			{
				Type: string(workouts.GroupingDropset),
				GroupSets: []workouts.SetRef{
					{ExerciseNumber: 1, SetNumber: 2},
					{ExerciseNumber: 1, SetNumber: 3},
				},
			},
		},
	}
}

func (s *IntegrationTestSuite) TestWorkoutLifecycle() {
	signup := s.signup()
	token := signup.AccessToken
	req := pushDay(signup.User.ID)

	status, _ := s.do(http.MethodPost, "/api/workouts", "", req)
	s.Equal(http.StatusUnauthorized, status)

	status, body := s.do(http.MethodPost, "/api/workouts", token, req)
	s.Require().Equal(http.StatusCreated, status, string(body))
	created := &workouts.CreateResponse{}
	s.decode(body, created)
	s.Require().NotZero(created.WorkoutID)
	workoutPath := fmt.Sprintf("/api/workouts/%d", created.WorkoutID)

	status, body = s.do(http.MethodGet, workoutPath, token, nil)
	s.Require().Equal(http.StatusOK, status, string(body))
	view := &workouts.WorkoutView{}
	s.decode(body, view)
	s.Equal("Push", view.Name)
	s.ElementsMatch([]string{"push", "heavy"}, view.Tags)
	s.Require().Len(view.Exercises, 2)
	s.Len(view.Exercises[0].Sets, 3)
	s.Len(view.Exercises[1].Sets, 1)
	s.Require().Len(view.SetGroupings, 1)

	// replace keeps the id and swaps every child row
	req.Name = "Push (light)"
	req.Exercises = req.Exercises[1:]
	req.SetGroupings = nil
	req.Tags = []string{"light"}
	status, body = s.do(http.MethodPut, workoutPath, token, req)
	s.Require().Equal(http.StatusOK, status, string(body))

	status, body = s.do(http.MethodGet, workoutPath, token, nil)
	s.Require().Equal(http.StatusOK, status)
	view = &workouts.WorkoutView{}
	s.decode(body, view)
	s.Equal(created.WorkoutID, view.ID)
	s.Equal("Push (light)", view.Name)
	s.Equal([]string{"light"}, view.Tags)
	s.Require().Len(view.Exercises, 1)
	s.Equal("Overhead Press", view.Exercises[0].Name)
	s.Empty(view.SetGroupings)

	status, body = s.do(http.MethodGet, fmt.Sprintf("/api/users/%d/workouts", signup.User.ID), token, nil)
	s.Require().Equal(http.StatusOK, status, string(body))
	list := &workouts.ListResponse{}
	s.decode(body, list)
	s.Equal(1, list.Total)
	s.Require().Len(list.Workouts, 1)
	s.Equal(1, list.Workouts[0].ExerciseCount)

	status, _ = s.do(http.MethodDelete, workoutPath, token, nil)
	s.Require().Equal(http.StatusOK, status)
	status, _ = s.do(http.MethodGet, workoutPath, token, nil)
	s.Equal(http.StatusNotFound, status)
}

func (s *IntegrationTestSuite) TestWorkoutRejectedAtomically() {
	signup := s.signup()
	token := signup.AccessToken

	req := pushDay(signup.User.ID)
	req.SetGroupings[0].GroupSets[1].SetNumber = 4
	status, _ := s.do(http.MethodPost, "/api/workouts", token, req)
	s.Equal(http.StatusBadRequest, status)

	// well formed, but the grouping points at a set that does not exist
	req = pushDay(signup.User.ID)
	req.SetGroupings = []workouts.SetGroupingRequest{{
		Type: string(workouts.GroupingDropset),
		GroupSets: []workouts.SetRef{
			{ExerciseNumber: 2, SetNumber: 1},
			{ExerciseNumber: 2, SetNumber: 2},
		},
	}}
	status, _ = s.do(http.MethodPost, "/api/workouts", token, req)
	s.Equal(http.StatusNotFound, status)

	status, body := s.do(http.MethodGet, fmt.Sprintf("/api/users/%d/workouts", signup.User.ID), token, nil)
	s.Require().Equal(http.StatusOK, status)
	list := &workouts.ListResponse{}
	s.decode(body, list)
	s.Zero(list.Total)
	s.Empty(list.Workouts)

	other := s.signup()
	status, _ = s.do(http.MethodPost, "/api/workouts", token, pushDay(other.User.ID))
	s.Equal(http.StatusForbidden, status)
}

func (s *IntegrationTestSuite) TestWeights() {
	signup := s.signup()
	token := signup.AccessToken
	listPath := fmt.Sprintf("/api/users/%d/weights", signup.User.ID)

	entryReq := weights.EntryRequest{UserID: signup.User.ID, Date: "2024-03-04", Weight: 82.4}
	status, body := s.do(http.MethodPost, "/api/weights", token, entryReq)
	s.Require().Equal(http.StatusCreated, status, string(body))
	added := &weights.Entry{}
	s.decode(body, added)
	s.Equal(weights.UnitKg, added.Unit)

	status, _ = s.do(http.MethodPost, "/api/weights", token, entryReq)
	s.Equal(http.StatusConflict, status)

	status, body = s.do(http.MethodGet, listPath, token, nil)
	s.Require().Equal(http.StatusOK, status)
	var entries []weights.Entry
	s.decode(body, &entries)
	s.Require().Len(entries, 1)
	s.Equal(82.4, entries[0].Weight)

	status, _ = s.do(http.MethodDelete, fmt.Sprintf("/api/weights/%d", added.ID), token, nil)
	s.Require().Equal(http.StatusOK, status)

	status, body = s.do(http.MethodGet, listPath, token, nil)
	s.Require().Equal(http.StatusOK, status)
	s.JSONEq(`[]`, string(body))
}
