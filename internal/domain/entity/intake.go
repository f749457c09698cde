package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	dateLayout = "2006-01-02"

	minDaysNeeded     = 1
	maxDaysNeeded     = 7
	minCookingMinutes = 10
	maxCookingMinutes = 180
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// Intake is the household's preference data for one week, collected upstream and
// stored in the gist as intake_YYYY_MM_DD.json.
type Intake struct {
	WeekStart time.Time `json:"week_start"`
	Timestamp time.Time `json:"timestamp"`

	DaysNeeded       int      `json:"days_needed"`
	AwayDays         []int    `json:"away_days"`
	AvoidIngredients []string `json:"avoid_ingredients"`
	MaxCookingTime   int      `json:"max_cooking_time"`

	PriorityRecipeSites []string `json:"priority_recipe_sites"`
	CuisinePreferences  []string `json:"cuisine_preferences"`
	DietaryRestrictions []string `json:"dietary_restrictions"`

	Memo             string   `json:"memo,omitempty"`
	GuestsExpected   int      `json:"guests_expected"`
	SpecialOccasions []string `json:"special_occasions"`

	UserID         string `json:"user_id,omitempty"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// DefaultIntake returns an intake with every optional field at its default.
func DefaultIntake() Intake {
	return Intake{
		DaysNeeded:          maxDaysNeeded,
		AwayDays:            []int{},
		AvoidIngredients:    []string{},
		MaxCookingTime:      60,
		PriorityRecipeSites: []string{"cookpad.com", "kurashiru.com", "recipe.rakuten.co.jp"},
		CuisinePreferences:  []string{"和食", "洋食", "中華"},
		DietaryRestrictions: []string{},
		SpecialOccasions:    []string{},
	}
}

// ParseIntake decodes data on top of DefaultIntake and validates the result.
// Decode failures wrap ErrInvalidInput; rule violations are returned as ValidationErrors.
func ParseIntake(data []byte) (*Intake, error) {
	in := DefaultIntake()
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("%w: decode intake: %v", ErrInvalidInput, err)
	}
	if in.Timestamp.IsZero() {
		in.Timestamp = time.Now()
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return &in, nil
}

// Validate checks the intake against its field bounds.
func (in Intake) Validate() error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.WeekStart, validation.Required),
		validation.Field(&in.DaysNeeded, validation.Required, validation.Min(minDaysNeeded), validation.Max(maxDaysNeeded)),
		validation.Field(&in.AwayDays, validation.Each(validation.Min(0), validation.Max(6))),
		validation.Field(&in.MaxCookingTime, validation.Required, validation.Min(minCookingMinutes), validation.Max(maxCookingMinutes)),
		validation.Field(&in.GuestsExpected, validation.Min(0)),
	)
	if err == nil {
		return nil
	}

	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate intake: %w", err)
	}
	return toValidationErrors(fieldErrs)
}

func toValidationErrors(fieldErrs validation.Errors) ValidationErrors {
	fields := make([]string, 0, len(fieldErrs))
	for field := range fieldErrs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	out := make(ValidationErrors, 0, len(fields))
	for _, field := range fields {
		out = append(out, &ValidationError{Field: field, Message: fieldErrs[field].Error()})
	}
	return out
}

type intakeAlias Intake

// UnmarshalJSON accepts week_start as a plain date and timestamp with or without offset.
// Fields absent from data keep their current values.
func (in *Intake) UnmarshalJSON(data []byte) error {
	aux := struct {
		WeekStart *string `json:"week_start"`
		Timestamp *string `json:"timestamp"`
		*intakeAlias
	}{intakeAlias: (*intakeAlias)(in)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if aux.WeekStart != nil && *aux.WeekStart != "" {
		ws, err := ParseDate(*aux.WeekStart)
		if err != nil {
			return fmt.Errorf("week_start: %w", err)
		}
		in.WeekStart = ws
	}
	if aux.Timestamp != nil && *aux.Timestamp != "" {
		ts, err := parseTimestamp(*aux.Timestamp)
		if err != nil {
			return fmt.Errorf("timestamp: %w", err)
		}
		in.Timestamp = ts
	}
	return nil
}

// MarshalJSON writes week_start as YYYY-MM-DD.
func (in Intake) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		WeekStart string `json:"week_start"`
		Timestamp string `json:"timestamp"`
		intakeAlias
	}{
		WeekStart:   in.WeekStart.Format(dateLayout),
		Timestamp:   in.Timestamp.Format(time.RFC3339),
		intakeAlias: intakeAlias(in),
	})
}

// ParseDate parses YYYY-MM-DD, also accepting a full RFC 3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}
