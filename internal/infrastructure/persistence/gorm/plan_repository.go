package gorm

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platewise/v1/internal/domain/planner"
	"github.com/platewise/v1/internal/ports/outbound"
)

// PlanRepository implements outbound.PlanRepository using GORM.
type PlanRepository struct {
	db *gorm.DB
}

// NewPlanRepository creates a new plan repository.
func NewPlanRepository(db *gorm.DB) outbound.PlanRepository {
	return &PlanRepository{db: db}
}

// Save persists a plan, assigning an id and timestamp when absent.
func (r *PlanRepository) Save(ctx context.Context, plan *outbound.SavedPlan) error {
	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = time.Now().UTC()
	}

	model := planToModel(plan)
	if result := r.db.WithContext(ctx).Create(model); result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByID returns a saved plan.
func (r *PlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*outbound.SavedPlan, error) {
	var model PlanModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, planner.ErrPlanNotFound
		}
		return nil, result.Error
	}
	return modelToPlan(&model), nil
}

// ListByOwner returns the owner's plans, newest first.
func (r *PlanRepository) ListByOwner(ctx context.Context, owner string, limit int) ([]*outbound.SavedPlan, error) {
	if limit <= 0 {
		limit = 20
	}

	var models []PlanModel
	result := r.db.WithContext(ctx).
		Where("owner = ?", owner).
		Order("created_at DESC").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	plans := make([]*outbound.SavedPlan, len(models))
	for i := range models {
		plans[i] = modelToPlan(&models[i])
	}
	return plans, nil
}

// Delete removes a saved plan.
func (r *PlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&PlanModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return planner.ErrPlanNotFound
	}
	return nil
}

func planToModel(plan *outbound.SavedPlan) *PlanModel {
	return &PlanModel{
		ID:        plan.ID,
		Owner:     plan.Owner,
		Title:     plan.Title,
		Schedule:  ScheduleJSON(plan.Schedule),
		CreatedAt: plan.CreatedAt,
	}
}

func modelToPlan(model *PlanModel) *outbound.SavedPlan {
	return &outbound.SavedPlan{
		ID:        model.ID,
		Owner:     model.Owner,
		Title:     model.Title,
		Schedule:  planner.WeeklySchedule(model.Schedule),
		CreatedAt: model.CreatedAt,
	}
}
