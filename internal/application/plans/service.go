// Package plans manages persistence of generated weekly plans.
package plans

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/platewise/v1/internal/domain/planner"
	"github.com/platewise/v1/internal/ports/outbound"
)

// Service stores and retrieves saved weekly plans.
type Service struct {
	repo   outbound.PlanRepository
	logger *zap.Logger
}

// NewService creates the plan service.
func NewService(repo outbound.PlanRepository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger.Named("plans")}
}

// Save persists a schedule under the owner and returns the stored record.
func (s *Service) Save(ctx context.Context, owner, title string, schedule planner.WeeklySchedule) (*outbound.SavedPlan, error) {
	if title == "" {
		title = fmt.Sprintf("Weekly plan %s", time.Now().UTC().Format("2006-01-02"))
	}

	plan := &outbound.SavedPlan{
		Owner:    owner,
		Title:    title,
		Schedule: schedule,
	}
	if err := s.repo.Save(ctx, plan); err != nil {
		return nil, err
	}

	s.logger.Info("plan saved",
		zap.String("plan_id", plan.ID.String()),
		zap.String("owner", owner),
	)
	return plan, nil
}

// Get returns one saved plan.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*outbound.SavedPlan, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns the owner's plans, newest first.
func (s *Service) List(ctx context.Context, owner string, limit int) ([]*outbound.SavedPlan, error) {
	return s.repo.ListByOwner(ctx, owner, limit)
}

// Delete removes a saved plan.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
