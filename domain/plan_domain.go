package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	MessageSuccessGetPlan   = "meal plan retrieved successfully"
	MessageSuccessSetSlot   = "meal plan slot saved successfully"
	MessageSuccessClearSlot = "meal plan slot cleared successfully"

	MessageFailedGetPlan   = "failed to retrieve meal plan"
	MessageFailedSetSlot   = "failed to save meal plan slot"
	MessageFailedClearSlot = "failed to clear meal plan slot"

	ErrInvalidWeek  = errors.New("week must be between 1 and 53")
	ErrInvalidDay   = errors.New("invalid day of week")
	ErrInvalidSlot  = errors.New("slot must be breakfast, lunch or dinner")
	ErrSlotNotFound = errors.New("meal plan slot is empty")
)

type Day string

const (
	Monday    Day = "monday"
	Tuesday   Day = "tuesday"
	Wednesday Day = "wednesday"
	Thursday  Day = "thursday"
	Friday    Day = "friday"
	Saturday  Day = "saturday"
	Sunday    Day = "sunday"
)

// Days lists the week in plan order.
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Offset returns the day's distance from Monday, or -1 for an unknown day.
func (d Day) Offset() int {
	for i, day := range Days {
		if day == d {
			return i
		}
	}
	return -1
}

func ParseDay(raw string) (Day, error) {
	d := Day(strings.ToLower(strings.TrimSpace(raw)))
	if d.Offset() < 0 {
		return "", ErrInvalidDay
	}
	return d, nil
}

type Slot string

const (
	Breakfast Slot = "breakfast"
	Lunch     Slot = "lunch"
	Dinner    Slot = "dinner"
)

var Slots = []Slot{Breakfast, Lunch, Dinner}

func ParseSlot(raw string) (Slot, error) {
	s := Slot(strings.ToLower(strings.TrimSpace(raw)))
	for _, slot := range Slots {
		if slot == s {
			return s, nil
		}
	}
	return "", ErrInvalidSlot
}

// DaySlots maps a meal slot to a recipe name. A missing or empty entry is the
// empty marker.
type DaySlots map[Slot]string

// WeekPlan is the plan for one ISO week. Dates are never stored; use PlanDate.
type WeekPlan struct {
	Year int              `json:"year"`
	Week int              `json:"week"`
	Days map[Day]DaySlots `json:"days"`
}

func NewWeekPlan(year, week int) WeekPlan {
	return WeekPlan{Year: year, Week: week, Days: make(map[Day]DaySlots)}
}

// Set stores recipe in the given slot, creating the day on first use.
func (p *WeekPlan) Set(day Day, slot Slot, recipe string) {
	if p.Days == nil {
		p.Days = make(map[Day]DaySlots)
	}
	slots, ok := p.Days[day]
	if !ok {
		slots = make(DaySlots)
		p.Days[day] = slots
	}
	slots[slot] = recipe
}

func ValidateWeek(year, week int) error {
	if week < 1 || week > 53 {
		return ErrInvalidWeek
	}
	if week == 53 {
		if _, last := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek(); last != 53 {
			return ErrInvalidWeek
		}
	}
	return nil
}

// PlanDate returns the calendar date of day in ISO week (year, week), at
// midnight UTC. It is a pure function of its arguments.
func PlanDate(year, week int, day Day) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	sinceMonday := (int(jan4.Weekday()) + 6) % 7
	firstMonday := jan4.AddDate(0, 0, -sinceMonday)
	offset := day.Offset()
	if offset < 0 {
		offset = 0
	}
	return firstMonday.AddDate(0, 0, (week-1)*7+offset)
}

type (
	SetSlotRequest struct {
		Recipe string `json:"recipe" validate:"required"`
	}

	DayPlanResponse struct {
		Day   Day      `json:"day"`
		Date  string   `json:"date"`
		Slots DaySlots `json:"slots"`
	}

	WeekPlanResponse struct {
		Year int               `json:"year"`
		Week int               `json:"week"`
		Days []DayPlanResponse `json:"days"`
	}
)
