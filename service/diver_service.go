package application

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/SCN0mad/scuba-app-backend/domain"
)

const defaultSearchLimit = 10

type DiverService struct {
	store  domain.DiverStore
	tracer trace.Tracer
}

func NewDiverService(store domain.DiverStore, tracer trace.Tracer) *DiverService {
	return &DiverService{
		store:  store,
		tracer: tracer,
	}
}

func (service *DiverService) Register(ctx context.Context, subjectID string, request *domain.RegisterDiver) (*domain.Diver, error) {
	ctx, span := service.tracer.Start(ctx, "DiverService.Register")
	defer span.End()

	subscription := request.Subscription
	if subscription == "" {
		subscription = domain.Free
	}

	diver := domain.Diver{
		SubjectID:    subjectID,
		Name:         request.Name,
		Email:        request.Email,
		Subscription: domain.Subscription(subscription),
		CertBody:     request.CertBody,
		CertLevel:    request.CertLevel,
		CertDate:     request.CertDate,
	}

	return service.store.Register(ctx, &diver)
}

func (service *DiverService) Get(ctx context.Context, subjectID string) (*domain.Diver, error) {
	ctx, span := service.tracer.Start(ctx, "DiverService.Get")
	defer span.End()

	return service.store.GetBySubjectID(ctx, subjectID)
}

func (service *DiverService) UpdateBio(ctx context.Context, subjectID string, bio string) (*domain.Diver, error) {
	ctx, span := service.tracer.Start(ctx, "DiverService.UpdateBio")
	defer span.End()

	return service.store.UpdateBio(ctx, subjectID, bio)
}

// Search matches diver names case-insensitively. An empty term returns an
// empty set straight away, without touching storage.
func (service *DiverService) Search(ctx context.Context, name string, limit int64) ([]*domain.Diver, error) {
	ctx, span := service.tracer.Start(ctx, "DiverService.Search")
	defer span.End()

	if name == "" {
		return []*domain.Diver{}, nil
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	divers, err := service.store.Search(ctx, name, limit)
	if err != nil {
		return nil, err
	}
	if divers == nil {
		divers = []*domain.Diver{}
	}
	return divers, nil
}

// GetDetails returns the booking-facing summary a centre is allowed to see.
func (service *DiverService) GetDetails(ctx context.Context, subjectID string) (*domain.DiverDetails, error) {
	ctx, span := service.tracer.Start(ctx, "DiverService.GetDetails")
	defer span.End()

	diver, err := service.store.GetBySubjectID(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	return &domain.DiverDetails{
		Name:  diver.Name,
		Email: diver.Email,
		Qualifications: domain.Qualifications{
			CertBody:  diver.CertBody,
			CertLevel: diver.CertLevel,
			CertDate:  diver.CertDate,
		},
		DiveLogs: diver.DiveLogs,
	}, nil
}

func (service *DiverService) SetProfilePhoto(ctx context.Context, subjectID string, photo string) error {
	return service.store.SetProfilePhoto(ctx, subjectID, photo)
}

func (service *DiverService) AppendGalleryPhoto(ctx context.Context, subjectID string, photo string) error {
	return service.store.AppendGalleryPhoto(ctx, subjectID, photo)
}
