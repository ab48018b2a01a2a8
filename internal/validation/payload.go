package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/iudanet/dashsync/internal/models"
)

// CurrencyPattern - код валюты ISO 4217
var CurrencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

const (
	// MaxTitleLen максимальная длина заголовков и названий
	MaxTitleLen = 200
	// MaxNotesLen максимальная длина описаний и заметок
	MaxNotesLen = 4000
)

// ErrInvalidPayload is wrapped by every payload validation error
var ErrInvalidPayload = errors.New("invalid payload")

// ValidatePayload проверяет доменные поля записи любой коллекции
func ValidatePayload(p models.Payload) error {
	var err error
	switch v := p.(type) {
	case *models.Transaction:
		err = validateTransaction(v)
	case *models.Meal:
		err = validateMeal(v)
	case *models.Workout:
		err = validateWorkout(v)
	case *models.Task:
		err = validateTask(v)
	case *models.Event:
		err = validateEvent(v)
	default:
		err = fmt.Errorf("unsupported payload type %T", p)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidPayload, p.Collection(), err)
	}
	return nil
}

func validateTransaction(t *models.Transaction) error {
	if t.AmountCents <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	if !CurrencyPattern.MatchString(t.Currency) {
		return fmt.Errorf("currency must be a 3-letter ISO 4217 code, got %q", t.Currency)
	}
	if t.Kind != models.TransactionIncome && t.Kind != models.TransactionExpense {
		return fmt.Errorf("kind must be %q or %q", models.TransactionIncome, models.TransactionExpense)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	if err := checkText("category", t.Category, MaxTitleLen, false); err != nil {
		return err
	}
	return checkText("description", t.Description, MaxNotesLen, false)
}

func validateMeal(m *models.Meal) error {
	if err := checkText("name", m.Name, MaxTitleLen, true); err != nil {
		return err
	}
	switch m.MealType {
	case models.MealBreakfast, models.MealLunch, models.MealDinner, models.MealSnack:
	default:
		return fmt.Errorf("unknown meal type %q", m.MealType)
	}
	if m.Calories < 0 || m.ProteinGrams < 0 || m.CarbsGrams < 0 || m.FatGrams < 0 {
		return fmt.Errorf("nutrition values cannot be negative")
	}
	if m.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	return nil
}

func validateWorkout(w *models.Workout) error {
	if err := checkText("kind", w.Kind, MaxTitleLen, true); err != nil {
		return err
	}
	if w.DurationMinutes <= 0 {
		return fmt.Errorf("duration must be positive")
	}
	if w.CaloriesBurned < 0 || w.DistanceKm < 0 {
		return fmt.Errorf("calories and distance cannot be negative")
	}
	if w.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	return nil
}

func validateTask(t *models.Task) error {
	if err := checkText("title", t.Title, MaxTitleLen, true); err != nil {
		return err
	}
	if err := checkText("notes", t.Notes, MaxNotesLen, false); err != nil {
		return err
	}
	switch t.Priority {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
	default:
		return fmt.Errorf("unknown priority %q", t.Priority)
	}
	if t.CreatedAt.IsZero() {
		return fmt.Errorf("creation time is required")
	}
	return nil
}

func validateEvent(e *models.Event) error {
	if err := checkText("title", e.Title, MaxTitleLen, true); err != nil {
		return err
	}
	if err := checkText("location", e.Location, MaxTitleLen, false); err != nil {
		return err
	}
	if e.StartTime.IsZero() {
		return fmt.Errorf("start time is required")
	}
	if !e.EndTime.IsZero() && e.EndTime.Before(e.StartTime) {
		return fmt.Errorf("end time is before start time")
	}
	return nil
}

func checkText(field, value string, maxLen int, required bool) error {
	if required && strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s cannot be empty", field)
	}
	if len(value) > maxLen {
		return fmt.Errorf("%s must not exceed %d characters", field, maxLen)
	}
	return nil
}
