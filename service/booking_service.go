package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/SCN0mad/scuba-app-backend/domain"
	errs "github.com/SCN0mad/scuba-app-backend/errors"
)

// Notifier is told about successfully coordinated bookings. Failures are
// the notifier's problem, never the booking's.
type Notifier interface {
	BookingRequested(ctx context.Context, diver *domain.Diver, centre *domain.DiveCentre, booking *domain.Booking)
}

// BookingService coordinates one logical booking fact across the
// authoritative log and the two aggregate projections.
//
// Write order: log first, then diver projection, then centre projection.
// Every failure compensates what was already written, the log insert's
// own partial writes included, so from
// the caller's perspective the operation is all-or-nothing. The one case
// that cannot be rolled back - the centre write failed AND the diver-side
// pull failed too - is reported as a distinct reconciliation error; the log
// record is kept as the source for repair.
type BookingService struct {
	divers          domain.DiverStore
	centres         domain.DiveCentreStore
	bookings        domain.BookingStore
	recommendations domain.RecommendationStore
	notifier        Notifier
	logger          *logrus.Logger
	tracer          trace.Tracer
}

func NewBookingService(divers domain.DiverStore, centres domain.DiveCentreStore, bookings domain.BookingStore,
	recommendations domain.RecommendationStore, notifier Notifier, logger *logrus.Logger, tracer trace.Tracer) *BookingService {
	return &BookingService{
		divers:          divers,
		centres:         centres,
		bookings:        bookings,
		recommendations: recommendations,
		notifier:        notifier,
		logger:          logger,
		tracer:          tracer,
	}
}

func (service *BookingService) RequestBooking(ctx context.Context, diverSubjectID string, request *domain.BookingRequest) (*domain.Booking, error) {
	ctx, span := service.tracer.Start(ctx, "BookingService.RequestBooking")
	defer span.End()

	diver, err := service.divers.GetBySubjectID(ctx, diverSubjectID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	centre, err := service.centres.GetBySubjectID(ctx, request.DiveCentreID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	booking := &domain.Booking{
		ID:           uuid.NewString(),
		DiverID:      diverSubjectID,
		DiveCentreID: request.DiveCentreID,
		Date:         request.Date,
		Service:      request.Service,
		Status:       domain.StatusPending,
		Message:      request.Message,
		CreatedAt:    time.Now().UTC(),
	}

	if err := service.bookings.Insert(ctx, booking); err != nil {
		span.SetStatus(codes.Error, err.Error())
		// The log insert spans two lookup tables and can fail between
		// them. Deleting both rows is idempotent, so a failed insert is
		// cleaned up the same way as a rolled-back one.
		service.deleteLogRecord(ctx, booking)
		return nil, errors.New(errs.ServiceUnavailableError)
	}

	diverBooking := domain.DiverBooking{
		BookingID:    booking.ID,
		DiveCentreID: booking.DiveCentreID,
		Date:         booking.Date,
		Service:      booking.Service,
		Status:       booking.Status,
	}
	if err := service.divers.AppendBooking(ctx, diverSubjectID, diverBooking); err != nil {
		span.SetStatus(codes.Error, err.Error())
		service.deleteLogRecord(ctx, booking)
		return nil, err
	}

	centreBooking := domain.CentreBooking{
		BookingID: booking.ID,
		DiverID:   booking.DiverID,
		Date:      booking.Date,
		Service:   booking.Service,
		Status:    booking.Status,
		Message:   booking.Message,
	}
	if err := service.centres.AppendBooking(ctx, request.DiveCentreID, centreBooking); err != nil {
		span.SetStatus(codes.Error, err.Error())

		if pullErr := service.divers.RemoveBooking(ctx, diverSubjectID, booking.ID); pullErr != nil {
			// Diver shows a booking the centre never saw. Keep the log
			// record around so the state can be repaired; this must not
			// look like an ordinary failed request.
			service.logger.Errorf("booking %s needs reconciliation: centre write failed (%v), diver-side rollback failed (%v)",
				booking.ID, err, pullErr)
			return nil, errors.New(errs.BookingReconcileError)
		}
		service.deleteLogRecord(ctx, booking)
		return nil, err
	}

	if err := service.recommendations.RecordBooking(ctx, booking.DiverID, booking.DiveCentreID); err != nil {
		service.logger.Println("Failed to mirror booking into recommendation graph:", err)
	}

	service.notifier.BookingRequested(ctx, diver, centre, booking)

	return booking, nil
}

func (service *BookingService) GetByDiver(ctx context.Context, diverID string) ([]*domain.Booking, error) {
	ctx, span := service.tracer.Start(ctx, "BookingService.GetByDiver")
	defer span.End()

	return service.bookings.GetByDiver(ctx, diverID)
}

func (service *BookingService) GetByDiveCentre(ctx context.Context, centreID string) ([]*domain.Booking, error) {
	ctx, span := service.tracer.Start(ctx, "BookingService.GetByDiveCentre")
	defer span.End()

	return service.bookings.GetByDiveCentre(ctx, centreID)
}

func (service *BookingService) deleteLogRecord(ctx context.Context, booking *domain.Booking) {
	if err := service.bookings.Delete(ctx, booking); err != nil {
		service.logger.Errorf("booking %s: failed to delete log record during rollback: %v", booking.ID, err)
	}
}
