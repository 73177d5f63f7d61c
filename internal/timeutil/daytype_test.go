package timeutil

import (
	"testing"
	"time"

	"backend/internal/models"
)

func TestClassifyDay_Weekday(t *testing.T) {
	date := time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC) // Tuesday
	if got := ClassifyDay(date); got != models.DayWeekday {
		t.Errorf("expected Weekday, got %v", got)
	}
}

func TestClassifyDay_Saturday(t *testing.T) {
	date := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC) // Saturday
	if got := ClassifyDay(date); got != models.DaySaturday {
		t.Errorf("expected Saturday, got %v", got)
	}
}

func TestClassifyDay_Sunday(t *testing.T) {
	date := time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC) // Sunday
	if got := ClassifyDay(date); got != models.DaySunday {
		t.Errorf("expected Sunday, got %v", got)
	}
}

func TestDanishDayName(t *testing.T) {
	date := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC) // Monday
	if got := DanishDayName(date); got != "Mandag" {
		t.Errorf("expected Mandag, got %v", got)
	}
}
