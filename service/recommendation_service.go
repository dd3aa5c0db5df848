package application

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/SCN0mad/scuba-app-backend/domain"
)

type RecommendationService struct {
	store  domain.RecommendationStore
	tracer trace.Tracer
}

func NewRecommendationService(store domain.RecommendationStore, tracer trace.Tracer) *RecommendationService {
	return &RecommendationService{
		store:  store,
		tracer: tracer,
	}
}

func (service *RecommendationService) Recommend(ctx context.Context, diverID string) ([]string, error) {
	ctx, span := service.tracer.Start(ctx, "RecommendationService.Recommend")
	defer span.End()

	centreIDs, err := service.store.Recommend(ctx, diverID)
	if err != nil {
		return nil, err
	}
	if centreIDs == nil {
		centreIDs = []string{}
	}
	return centreIDs, nil
}
