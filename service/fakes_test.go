package application

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"github.com/SCN0mad/scuba-app-backend/domain"
	errs "github.com/SCN0mad/scuba-app-backend/errors"
	"github.com/SCN0mad/scuba-app-backend/realtime"
)

func testTracer() trace.Tracer {
	return trace.NewNoopTracerProvider().Tracer("test")
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type fakeDiverStore struct {
	divers       map[string]*domain.Diver
	appended     []domain.DiverBooking
	removed      []string
	searchCalls  int
	searchResult []*domain.Diver
	searchLimit  int64
	appendErr    error
	removeErr    error
}

func newFakeDiverStore(divers ...*domain.Diver) *fakeDiverStore {
	store := &fakeDiverStore{divers: map[string]*domain.Diver{}}
	for _, diver := range divers {
		store.divers[diver.SubjectID] = diver
	}
	return store
}

func (s *fakeDiverStore) Register(ctx context.Context, diver *domain.Diver) (*domain.Diver, error) {
	s.divers[diver.SubjectID] = diver
	return diver, nil
}

func (s *fakeDiverStore) GetBySubjectID(ctx context.Context, subjectID string) (*domain.Diver, error) {
	diver, ok := s.divers[subjectID]
	if !ok {
		return nil, errors.New(errs.DiverNotFound)
	}
	return diver, nil
}

func (s *fakeDiverStore) UpdateBio(ctx context.Context, subjectID string, bio string) (*domain.Diver, error) {
	diver, err := s.GetBySubjectID(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	diver.Bio = bio
	return diver, nil
}

func (s *fakeDiverStore) SetProfilePhoto(ctx context.Context, subjectID string, photo string) error {
	return nil
}

func (s *fakeDiverStore) AppendGalleryPhoto(ctx context.Context, subjectID string, photo string) error {
	return nil
}

func (s *fakeDiverStore) Search(ctx context.Context, name string, limit int64) ([]*domain.Diver, error) {
	s.searchCalls++
	s.searchLimit = limit
	return s.searchResult, nil
}

func (s *fakeDiverStore) AppendBooking(ctx context.Context, subjectID string, booking domain.DiverBooking) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.appended = append(s.appended, booking)
	return nil
}

func (s *fakeDiverStore) RemoveBooking(ctx context.Context, subjectID string, bookingID string) error {
	if s.removeErr != nil {
		return s.removeErr
	}
	s.removed = append(s.removed, bookingID)
	return nil
}

type fakeCentreStore struct {
	centres   map[string]*domain.DiveCentre
	appended  []domain.CentreBooking
	reviews   []domain.Review
	appendErr error
}

func newFakeCentreStore(centres ...*domain.DiveCentre) *fakeCentreStore {
	store := &fakeCentreStore{centres: map[string]*domain.DiveCentre{}}
	for _, centre := range centres {
		store.centres[centre.SubjectID] = centre
	}
	return store
}

func (s *fakeCentreStore) Register(ctx context.Context, centre *domain.DiveCentre) (*domain.DiveCentre, error) {
	s.centres[centre.SubjectID] = centre
	return centre, nil
}

func (s *fakeCentreStore) GetBySubjectID(ctx context.Context, subjectID string) (*domain.DiveCentre, error) {
	centre, ok := s.centres[subjectID]
	if !ok {
		return nil, errors.New(errs.DiveCentreNotFound)
	}
	return centre, nil
}

func (s *fakeCentreStore) UpdateOffer(ctx context.Context, subjectID string, services []domain.Offer, availability []domain.Availability) (*domain.DiveCentre, error) {
	centre, err := s.GetBySubjectID(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	centre.Services = services
	centre.Availability = availability
	return centre, nil
}

func (s *fakeCentreStore) SetLogoPhoto(ctx context.Context, subjectID string, photo string) error {
	return nil
}

func (s *fakeCentreStore) SetProfilePhoto(ctx context.Context, subjectID string, photo string) error {
	return nil
}

func (s *fakeCentreStore) AppendGalleryPhoto(ctx context.Context, subjectID string, photo string) error {
	return nil
}

func (s *fakeCentreStore) Search(ctx context.Context, filters domain.DiveCentreFilters) ([]*domain.DiveCentre, error) {
	return nil, nil
}

func (s *fakeCentreStore) AppendBooking(ctx context.Context, subjectID string, booking domain.CentreBooking) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.appended = append(s.appended, booking)
	return nil
}

func (s *fakeCentreStore) RemoveBooking(ctx context.Context, subjectID string, bookingID string) error {
	return nil
}

func (s *fakeCentreStore) AppendReview(ctx context.Context, subjectID string, review domain.Review) error {
	if _, err := s.GetBySubjectID(ctx, subjectID); err != nil {
		return err
	}
	s.reviews = append(s.reviews, review)
	return nil
}

type fakeBookingStore struct {
	inserted  []*domain.Booking
	deleted   []*domain.Booking
	insertErr error
}

func (s *fakeBookingStore) Insert(ctx context.Context, booking *domain.Booking) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.inserted = append(s.inserted, booking)
	return nil
}

func (s *fakeBookingStore) Delete(ctx context.Context, booking *domain.Booking) error {
	s.deleted = append(s.deleted, booking)
	return nil
}

func (s *fakeBookingStore) GetByDiver(ctx context.Context, diverID string) ([]*domain.Booking, error) {
	var bookings []*domain.Booking
	for _, booking := range s.inserted {
		if booking.DiverID == diverID {
			bookings = append(bookings, booking)
		}
	}
	return bookings, nil
}

func (s *fakeBookingStore) GetByDiveCentre(ctx context.Context, centreID string) ([]*domain.Booking, error) {
	var bookings []*domain.Booking
	for _, booking := range s.inserted {
		if booking.DiveCentreID == centreID {
			bookings = append(bookings, booking)
		}
	}
	return bookings, nil
}

type fakeRecommendationStore struct {
	bookings  int
	reviews   int
	recommend []string
}

func (s *fakeRecommendationStore) RecordBooking(ctx context.Context, diverID string, centreID string) error {
	s.bookings++
	return nil
}

func (s *fakeRecommendationStore) RecordReview(ctx context.Context, diverID string, centreID string, rating int) error {
	s.reviews++
	return nil
}

func (s *fakeRecommendationStore) Recommend(ctx context.Context, diverID string) ([]string, error) {
	return s.recommend, nil
}

type fakeNotifier struct {
	notified []*domain.Booking
}

func (n *fakeNotifier) BookingRequested(ctx context.Context, diver *domain.Diver, centre *domain.DiveCentre, booking *domain.Booking) {
	n.notified = append(n.notified, booking)
}

type fakeMessageStore struct {
	messages  []*domain.Message
	insertErr error
}

func (s *fakeMessageStore) Insert(ctx context.Context, message *domain.Message) (*domain.Message, error) {
	if s.insertErr != nil {
		return nil, s.insertErr
	}
	message.Timestamp = time.Now().UTC()
	s.messages = append(s.messages, message)
	return message, nil
}

func (s *fakeMessageStore) GetConversation(ctx context.Context, subjectA string, subjectB string) ([]*domain.Message, error) {
	var conversation []*domain.Message
	for _, message := range s.messages {
		sameDirection := message.SenderID == subjectA && message.ReceiverID == subjectB
		otherDirection := message.SenderID == subjectB && message.ReceiverID == subjectA
		if sameDirection || otherDirection {
			conversation = append(conversation, message)
		}
	}
	return conversation, nil
}

type publishedEvent struct {
	subjectID string
	event     realtime.Event
}

type fakePublisher struct {
	published []publishedEvent
}

func (p *fakePublisher) Publish(subjectID string, event realtime.Event) {
	p.published = append(p.published, publishedEvent{subjectID: subjectID, event: event})
}
