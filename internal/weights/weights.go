package weights

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/2beens/liftbook/pkg"
)

var (
	ErrEntryNotFound = errors.New("weight entry not found")
	ErrDuplicateDate = errors.New("weight entry for this date already exists")
	ErrUserNotFound  = errors.New("user not found")
)

const (
	UnitKg = "kg"
	UnitLb = "lb"

	maxNotesLen = 500
)

type Entry struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Date      time.Time `json:"date"`
	Weight    float64   `json:"weight"`
	Unit      string    `json:"unit"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type EntryRequest struct {
	UserID int64   `json:"userId"`
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
	Unit   string  `json:"unit,omitempty"`
	Notes  string  `json:"notes,omitempty"`
}

func (req EntryRequest) Validate() (*Entry, error) {
	if req.UserID <= 0 {
		return nil, pkg.NewValidationError("userId", "is required")
	}
	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		return nil, pkg.NewValidationError("date", "%q is not a YYYY-MM-DD date", req.Date)
	}
	if req.Weight <= 0 {
		return nil, pkg.NewValidationError("weight", "must be positive")
	}

	unit := strings.ToLower(strings.TrimSpace(req.Unit))
	switch unit {
	case "":
		unit = UnitKg
	case UnitKg, UnitLb:
	default:
		return nil, pkg.NewValidationError("unit", "must be %q or %q", UnitKg, UnitLb)
	}

	entry := &Entry{
		UserID: req.UserID,
		Date:   date,
		Weight: req.Weight,
		Unit:   unit,
	}
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		if utf8.RuneCountInString(notes) > maxNotesLen {
			return nil, pkg.NewValidationError("notes", "must be at most %d characters", maxNotesLen)
		}
		entry.Notes = &notes
	}
	return entry, nil
}
