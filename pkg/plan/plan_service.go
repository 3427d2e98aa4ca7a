package plan

import (
	"Pantry-Planner/domain"
	"Pantry-Planner/entities"
	"context"
	"strings"
)

type (
	PlanService interface {
		GetWeek(ctx context.Context, year, week int) (domain.WeekPlan, error)
		GetWeekResponse(ctx context.Context, year, week int) (domain.WeekPlanResponse, error)
		SetSlot(ctx context.Context, year, week int, day, slot, recipe string) (domain.WeekPlan, error)
		ClearSlot(ctx context.Context, year, week int, day, slot string) error
	}

	planService struct {
		planRepository PlanRepository
	}
)

func NewPlanService(planRepository PlanRepository) PlanService {
	return &planService{planRepository: planRepository}
}

// GetWeek loads the persisted slots of one ISO week. Rows with an unknown day
// or slot are ignored.
func (s *planService) GetWeek(ctx context.Context, year, week int) (domain.WeekPlan, error) {
	if err := domain.ValidateWeek(year, week); err != nil {
		return domain.WeekPlan{}, err
	}

	rows, err := s.planRepository.GetWeek(ctx, year, week)
	if err != nil {
		return domain.WeekPlan{}, err
	}

	plan := domain.NewWeekPlan(year, week)
	for _, row := range rows {
		day, err := domain.ParseDay(row.Day)
		if err != nil {
			continue
		}
		slot, err := domain.ParseSlot(row.Slot)
		if err != nil {
			continue
		}
		plan.Set(day, slot, row.RecipeName)
	}
	return plan, nil
}

// GetWeekResponse renders every day of the week with its derived date.
func (s *planService) GetWeekResponse(ctx context.Context, year, week int) (domain.WeekPlanResponse, error) {
	plan, err := s.GetWeek(ctx, year, week)
	if err != nil {
		return domain.WeekPlanResponse{}, err
	}

	response := domain.WeekPlanResponse{Year: year, Week: week}
	for _, day := range domain.Days {
		slots := plan.Days[day]
		if slots == nil {
			slots = domain.DaySlots{}
		}
		response.Days = append(response.Days, domain.DayPlanResponse{
			Day:   day,
			Date:  domain.PlanDate(year, week, day).Format(domain.DateLayout),
			Slots: slots,
		})
	}
	return response, nil
}

func (s *planService) SetSlot(ctx context.Context, year, week int, day, slot, recipe string) (domain.WeekPlan, error) {
	if err := domain.ValidateWeek(year, week); err != nil {
		return domain.WeekPlan{}, err
	}
	d, err := domain.ParseDay(day)
	if err != nil {
		return domain.WeekPlan{}, err
	}
	sl, err := domain.ParseSlot(slot)
	if err != nil {
		return domain.WeekPlan{}, err
	}

	row := &entities.PlanSlot{
		Year:       year,
		Week:       week,
		Day:        string(d),
		Slot:       string(sl),
		RecipeName: strings.TrimSpace(recipe),
	}
	if err := s.planRepository.UpsertSlot(ctx, row); err != nil {
		return domain.WeekPlan{}, err
	}
	return s.GetWeek(ctx, year, week)
}

func (s *planService) ClearSlot(ctx context.Context, year, week int, day, slot string) error {
	if err := domain.ValidateWeek(year, week); err != nil {
		return err
	}
	d, err := domain.ParseDay(day)
	if err != nil {
		return err
	}
	sl, err := domain.ParseSlot(slot)
	if err != nil {
		return err
	}

	deleted, err := s.planRepository.DeleteSlot(ctx, year, week, string(d), string(sl))
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrSlotNotFound
	}
	return nil
}
