package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Payload описывает доменные данные одной коллекции.
type Payload interface {
	// Collection возвращает коллекцию, к которой относится payload
	Collection() Collection
	// IndexTime возвращает дату, по которой запись попадает в индекс по дате
	IndexTime() time.Time
}

// TransactionKind тип финансовой операции.
type TransactionKind string

const (
	TransactionIncome  TransactionKind = "income"
	TransactionExpense TransactionKind = "expense"
)

// Transaction представляет финансовую операцию.
type Transaction struct {
	Date        time.Time       `json:"date"`        // Date дата операции
	Currency    string          `json:"currency"`    // Currency код валюты ISO 4217 (например, "EUR")
	Kind        TransactionKind `json:"kind"`        // Kind доход или расход
	Category    string          `json:"category"`    // Category категория ("groceries", "salary")
	Description string          `json:"description"` // Description описание операции
	AmountCents int64           `json:"amountCents"` // AmountCents сумма в минимальных единицах валюты
}

func (t *Transaction) Collection() Collection { return CollectionTransactions }
func (t *Transaction) IndexTime() time.Time  { return t.Date }

// MealType приём пищи.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// Meal представляет запись о приёме пищи.
type Meal struct {
	Date         time.Time `json:"date"`         // Date время приёма пищи
	Name         string    `json:"name"`         // Name название блюда
	MealType     MealType  `json:"mealType"`     // MealType завтрак, обед, ужин или перекус
	Calories     int       `json:"calories"`     // Calories калорийность (ккал)
	ProteinGrams float64   `json:"proteinGrams"` // ProteinGrams белки (г)
	CarbsGrams   float64   `json:"carbsGrams"`   // CarbsGrams углеводы (г)
	FatGrams     float64   `json:"fatGrams"`     // FatGrams жиры (г)
}

func (m *Meal) Collection() Collection { return CollectionMeals }
func (m *Meal) IndexTime() time.Time  { return m.Date }

// Workout представляет тренировку.
type Workout struct {
	Date            time.Time `json:"date"`            // Date время начала тренировки
	Kind            string    `json:"kind"`            // Kind вид тренировки ("running", "strength")
	DurationMinutes int       `json:"durationMinutes"` // DurationMinutes продолжительность в минутах
	CaloriesBurned  int       `json:"caloriesBurned"`  // CaloriesBurned потраченные калории
	DistanceKm      float64   `json:"distanceKm"`      // DistanceKm дистанция (для кардио)
}

func (w *Workout) Collection() Collection { return CollectionWorkouts }
func (w *Workout) IndexTime() time.Time  { return w.Date }

// TaskPriority приоритет задачи.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// Task представляет задачу из расписания.
type Task struct {
	DueDate   *time.Time   `json:"dueDate,omitempty"` // DueDate срок выполнения (опционально)
	CreatedAt time.Time    `json:"createdAt"`         // CreatedAt время создания задачи
	Title     string       `json:"title"`             // Title заголовок задачи
	Notes     string       `json:"notes"`             // Notes заметки
	Priority  TaskPriority `json:"priority"`          // Priority приоритет
	Completed bool         `json:"completed"`         // Completed признак выполнения
}

func (t *Task) Collection() Collection { return CollectionTasks }

// IndexTime для задачи без срока используется время создания.
func (t *Task) IndexTime() time.Time {
	if t.DueDate != nil {
		return *t.DueDate
	}
	return t.CreatedAt
}

// Event представляет событие календаря.
type Event struct {
	StartTime time.Time `json:"startTime"` // StartTime начало события
	EndTime   time.Time `json:"endTime"`   // EndTime окончание события
	Title     string    `json:"title"`     // Title название события
	Location  string    `json:"location"`  // Location место проведения
	AllDay    bool      `json:"allDay"`    // AllDay событие на весь день
}

func (e *Event) Collection() Collection { return CollectionEvents }
func (e *Event) IndexTime() time.Time  { return e.StartTime }

// NewPayload возвращает пустой payload для коллекции.
func NewPayload(c Collection) (Payload, error) {
	switch c {
	case CollectionTransactions:
		return &Transaction{}, nil
	case CollectionMeals:
		return &Meal{}, nil
	case CollectionWorkouts:
		return &Workout{}, nil
	case CollectionTasks:
		return &Task{}, nil
	case CollectionEvents:
		return &Event{}, nil
	default:
		return nil, fmt.Errorf("unknown collection %q", c)
	}
}

// DecodePayloadJSON разбирает JSON доменных полей для указанной коллекции.
func DecodePayloadJSON(c Collection, data []byte) (Payload, error) {
	payload, err := NewPayload(c)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, payload); err != nil {
		return nil, fmt.Errorf("failed to decode %s payload: %w", c, err)
	}
	return payload, nil
}
