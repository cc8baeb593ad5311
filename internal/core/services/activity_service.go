package services

import (
	"context"

	"github.com/SscSPs/business_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/business_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/business_management_app/internal/core/ports/services"
	"github.com/SscSPs/business_management_app/internal/dto"
)

type activityService struct {
	BaseService
	historyRepo portsrepo.HistoryRepositoryFacade
}

// NewActivityService creates the activity feed service.
func NewActivityService(base BaseService, repos portsrepo.RepositoryProvider) portssvc.ActivitySvcFacade {
	return &activityService{BaseService: base, historyRepo: repos.HistoryRepo}
}

var _ portssvc.ActivitySvcFacade = (*activityService)(nil)

func (s *activityService) ListActivities(ctx context.Context, params dto.ListActivitiesParams) ([]domain.Activity, error) {
	filter := domain.ActivityFilter{
		Source: domain.EntityType(params.Source),
		From:   params.From,
		Limit:  clampLimit(params.Limit, 50, 200),
	}
	if params.To != nil {
		// Whole end day is included.
		end := params.To.AddDate(0, 0, 1)
		filter.To = &end
	}
	activities, err := s.historyRepo.ListActivity(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list activities")
		return nil, err
	}
	if activities == nil {
		activities = []domain.Activity{}
	}
	return activities, nil
}
