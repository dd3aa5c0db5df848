package application

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"github.com/SCN0mad/scuba-app-backend/domain"
)

type DiveCentreService struct {
	store           domain.DiveCentreStore
	recommendations domain.RecommendationStore
	logger          *logrus.Logger
	tracer          trace.Tracer
}

func NewDiveCentreService(store domain.DiveCentreStore, recommendations domain.RecommendationStore, logger *logrus.Logger, tracer trace.Tracer) *DiveCentreService {
	return &DiveCentreService{
		store:           store,
		recommendations: recommendations,
		logger:          logger,
		tracer:          tracer,
	}
}

func (service *DiveCentreService) Register(ctx context.Context, subjectID string, request *domain.RegisterDiveCentre) (*domain.DiveCentre, error) {
	ctx, span := service.tracer.Start(ctx, "DiveCentreService.Register")
	defer span.End()

	centre := domain.DiveCentre{
		SubjectID:    subjectID,
		Name:         request.Name,
		Email:        request.Email,
		Address:      request.Address,
		DiveTypes:    request.DiveTypes,
		Availability: request.Availability,
	}

	return service.store.Register(ctx, &centre)
}

func (service *DiveCentreService) Get(ctx context.Context, subjectID string) (*domain.DiveCentre, error) {
	ctx, span := service.tracer.Start(ctx, "DiveCentreService.Get")
	defer span.End()

	return service.store.GetBySubjectID(ctx, subjectID)
}

func (service *DiveCentreService) UpdateOffer(ctx context.Context, subjectID string, services []domain.Offer, availability []domain.Availability) (*domain.DiveCentre, error) {
	ctx, span := service.tracer.Start(ctx, "DiveCentreService.UpdateOffer")
	defer span.End()

	return service.store.UpdateOffer(ctx, subjectID, services, availability)
}

func (service *DiveCentreService) Search(ctx context.Context, filters domain.DiveCentreFilters) ([]*domain.DiveCentre, error) {
	ctx, span := service.tracer.Start(ctx, "DiveCentreService.Search")
	defer span.End()

	centres, err := service.store.Search(ctx, filters)
	if err != nil {
		return nil, err
	}
	if centres == nil {
		centres = []*domain.DiveCentre{}
	}
	return centres, nil
}

// AddReview appends the review to the centre aggregate and mirrors it into
// the recommendation graph. The mirror is best-effort.
func (service *DiveCentreService) AddReview(ctx context.Context, centreID string, review domain.Review) error {
	ctx, span := service.tracer.Start(ctx, "DiveCentreService.AddReview")
	defer span.End()

	if err := service.store.AppendReview(ctx, centreID, review); err != nil {
		return err
	}

	if err := service.recommendations.RecordReview(ctx, review.ReviewerID, centreID, review.Rating); err != nil {
		service.logger.Println("Failed to mirror review into recommendation graph:", err)
	}
	return nil
}

func (service *DiveCentreService) SetLogoPhoto(ctx context.Context, subjectID string, photo string) error {
	return service.store.SetLogoPhoto(ctx, subjectID, photo)
}

func (service *DiveCentreService) SetProfilePhoto(ctx context.Context, subjectID string, photo string) error {
	return service.store.SetProfilePhoto(ctx, subjectID, photo)
}

func (service *DiveCentreService) AppendGalleryPhoto(ctx context.Context, subjectID string, photo string) error {
	return service.store.AppendGalleryPhoto(ctx, subjectID, photo)
}
