package entity

import (
	"encoding/json"
	"fmt"
	"time"
)

// PageStatus is the lifecycle state recorded on a published menu page.
type PageStatus string

const (
	PageStatusCurrent  PageStatus = "Current"
	PageStatusArchived PageStatus = "Archived"
)

var dayNames = [7]string{"月曜日", "火曜日", "水曜日", "木曜日", "金曜日", "土曜日", "日曜日"}

// WeekStart returns midnight of the Monday of t's week, in t's location.
func WeekStart(t time.Time) time.Time {
	daysBack := (int(t.Weekday()) + 6) % 7
	y, m, d := t.Date()
	return time.Date(y, m, d-daysBack, 0, 0, 0, 0, t.Location())
}

// IntakeFilename returns the gist file name holding intake for the given week.
func IntakeFilename(weekStart time.Time) string {
	return "intake_" + weekStart.Format("2006_01_02") + ".json"
}

// DayName returns the Japanese weekday name for a Monday-based index (0 = 月曜日).
func DayName(index int) string {
	if index < 0 || index >= len(dayNames) {
		return fmt.Sprintf("day %d", index)
	}
	return dayNames[index]
}

// FormatJapaneseDate renders t as YYYY年MM月DD日.
func FormatJapaneseDate(t time.Time) string {
	return t.Format("2006年01月02日")
}

// MenuTitle is the page title for a week's menu.
func MenuTitle(weekStart time.Time) string {
	return FormatJapaneseDate(weekStart) + "週の献立"
}

// MenuHeading is the heading placed at the top of a menu page body.
func MenuHeading(weekStart time.Time) string {
	return FormatJapaneseDate(weekStart) + "週の夕食献立"
}

// GeneratedMenu is the hand-off between generation and publishing.
type GeneratedMenu struct {
	WeekStart           time.Time    `json:"week_start"`
	GeneratedAt         time.Time    `json:"generated_at"`
	MenuContent         string       `json:"menu_content"`
	SettingsUsed        MenuSettings `json:"settings_used"`
	IntakeDataAvailable bool         `json:"intake_data_available"`
	Provider            string       `json:"provider,omitempty"`
	Model               string       `json:"model,omitempty"`
}

type generatedMenuAlias GeneratedMenu

// MarshalJSON writes week_start as YYYY-MM-DD.
func (m GeneratedMenu) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		WeekStart string `json:"week_start"`
		generatedMenuAlias
	}{
		WeekStart:          m.WeekStart.Format(dateLayout),
		generatedMenuAlias: generatedMenuAlias(m),
	})
}

// UnmarshalJSON reads week_start as YYYY-MM-DD.
func (m *GeneratedMenu) UnmarshalJSON(data []byte) error {
	aux := struct {
		WeekStart string `json:"week_start"`
		*generatedMenuAlias
	}{generatedMenuAlias: (*generatedMenuAlias)(m)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.WeekStart == "" {
		return fmt.Errorf("%w: week_start is required", ErrInvalidInput)
	}
	ws, err := ParseDate(aux.WeekStart)
	if err != nil {
		return fmt.Errorf("week_start: %w", err)
	}
	m.WeekStart = ws
	return nil
}

// MenuPage is a published menu as recorded in the document store.
type MenuPage struct {
	ID          string
	URL         string
	Title       string
	WeekStart   time.Time
	GeneratedAt time.Time
	Status      PageStatus
	IntakeUsed  bool
}

// NewMenuPage builds the page record for a freshly generated menu.
func NewMenuPage(m *GeneratedMenu) *MenuPage {
	return &MenuPage{
		Title:       MenuTitle(m.WeekStart),
		WeekStart:   m.WeekStart,
		GeneratedAt: m.GeneratedAt,
		Status:      PageStatusCurrent,
		IntakeUsed:  m.IntakeDataAvailable,
	}
}
