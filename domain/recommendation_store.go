package domain

import "context"

type RecommendationStore interface {
	RecordBooking(ctx context.Context, diverID string, centreID string) error
	RecordReview(ctx context.Context, diverID string, centreID string, rating int) error
	Recommend(ctx context.Context, diverID string) ([]string, error)
}
