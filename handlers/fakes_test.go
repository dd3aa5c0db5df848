package handlers

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"github.com/SCN0mad/scuba-app-backend/domain"
	errs "github.com/SCN0mad/scuba-app-backend/errors"
)

func testTracer() trace.Tracer {
	return trace.NewNoopTracerProvider().Tracer("test")
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type stubDiverStore struct {
	divers      map[string]*domain.Diver
	appended    []domain.DiverBooking
	removed     []string
	registerErr error
	appendErr   error
	removeErr   error
}

func newStubDiverStore(divers ...*domain.Diver) *stubDiverStore {
	store := &stubDiverStore{divers: map[string]*domain.Diver{}}
	for _, diver := range divers {
		store.divers[diver.SubjectID] = diver
	}
	return store
}

func (s *stubDiverStore) Register(ctx context.Context, diver *domain.Diver) (*domain.Diver, error) {
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	s.divers[diver.SubjectID] = diver
	return diver, nil
}

func (s *stubDiverStore) GetBySubjectID(ctx context.Context, subjectID string) (*domain.Diver, error) {
	diver, ok := s.divers[subjectID]
	if !ok {
		return nil, errors.New(errs.DiverNotFound)
	}
	return diver, nil
}

func (s *stubDiverStore) UpdateBio(ctx context.Context, subjectID string, bio string) (*domain.Diver, error) {
	return s.GetBySubjectID(ctx, subjectID)
}

func (s *stubDiverStore) SetProfilePhoto(ctx context.Context, subjectID string, photo string) error {
	return nil
}

func (s *stubDiverStore) AppendGalleryPhoto(ctx context.Context, subjectID string, photo string) error {
	return nil
}

func (s *stubDiverStore) Search(ctx context.Context, name string, limit int64) ([]*domain.Diver, error) {
	return nil, nil
}

func (s *stubDiverStore) AppendBooking(ctx context.Context, subjectID string, booking domain.DiverBooking) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.appended = append(s.appended, booking)
	if diver, ok := s.divers[subjectID]; ok {
		diver.Bookings = append(diver.Bookings, booking)
	}
	return nil
}

func (s *stubDiverStore) RemoveBooking(ctx context.Context, subjectID string, bookingID string) error {
	if s.removeErr != nil {
		return s.removeErr
	}
	s.removed = append(s.removed, bookingID)
	return nil
}

type stubCentreStore struct {
	centres      map[string]*domain.DiveCentre
	appended     []domain.CentreBooking
	reviews      []domain.Review
	lastFilters  domain.DiveCentreFilters
	searchCalls  int
	searchResult []*domain.DiveCentre
	registerErr  error
	appendErr    error
}

func newStubCentreStore(centres ...*domain.DiveCentre) *stubCentreStore {
	store := &stubCentreStore{centres: map[string]*domain.DiveCentre{}}
	for _, centre := range centres {
		store.centres[centre.SubjectID] = centre
	}
	return store
}

func (s *stubCentreStore) Register(ctx context.Context, centre *domain.DiveCentre) (*domain.DiveCentre, error) {
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	s.centres[centre.SubjectID] = centre
	return centre, nil
}

func (s *stubCentreStore) GetBySubjectID(ctx context.Context, subjectID string) (*domain.DiveCentre, error) {
	centre, ok := s.centres[subjectID]
	if !ok {
		return nil, errors.New(errs.DiveCentreNotFound)
	}
	return centre, nil
}

func (s *stubCentreStore) UpdateOffer(ctx context.Context, subjectID string, services []domain.Offer, availability []domain.Availability) (*domain.DiveCentre, error) {
	return s.GetBySubjectID(ctx, subjectID)
}

func (s *stubCentreStore) SetLogoPhoto(ctx context.Context, subjectID string, photo string) error {
	return nil
}

func (s *stubCentreStore) SetProfilePhoto(ctx context.Context, subjectID string, photo string) error {
	return nil
}

func (s *stubCentreStore) AppendGalleryPhoto(ctx context.Context, subjectID string, photo string) error {
	return nil
}

func (s *stubCentreStore) Search(ctx context.Context, filters domain.DiveCentreFilters) ([]*domain.DiveCentre, error) {
	s.searchCalls++
	s.lastFilters = filters
	return s.searchResult, nil
}

func (s *stubCentreStore) AppendBooking(ctx context.Context, subjectID string, booking domain.CentreBooking) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.appended = append(s.appended, booking)
	if centre, ok := s.centres[subjectID]; ok {
		centre.Bookings = append(centre.Bookings, booking)
	}
	return nil
}

func (s *stubCentreStore) RemoveBooking(ctx context.Context, subjectID string, bookingID string) error {
	return nil
}

func (s *stubCentreStore) AppendReview(ctx context.Context, subjectID string, review domain.Review) error {
	if _, err := s.GetBySubjectID(ctx, subjectID); err != nil {
		return err
	}
	s.reviews = append(s.reviews, review)
	return nil
}

type stubBookingStore struct {
	inserted  []*domain.Booking
	deleted   []*domain.Booking
	insertErr error
}

func (s *stubBookingStore) Insert(ctx context.Context, booking *domain.Booking) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.inserted = append(s.inserted, booking)
	return nil
}

func (s *stubBookingStore) Delete(ctx context.Context, booking *domain.Booking) error {
	s.deleted = append(s.deleted, booking)
	return nil
}

func (s *stubBookingStore) GetByDiver(ctx context.Context, diverID string) ([]*domain.Booking, error) {
	return s.inserted, nil
}

func (s *stubBookingStore) GetByDiveCentre(ctx context.Context, centreID string) ([]*domain.Booking, error) {
	return s.inserted, nil
}

type stubRecommendationStore struct{}

func (s *stubRecommendationStore) RecordBooking(ctx context.Context, diverID string, centreID string) error {
	return nil
}

func (s *stubRecommendationStore) RecordReview(ctx context.Context, diverID string, centreID string, rating int) error {
	return nil
}

func (s *stubRecommendationStore) Recommend(ctx context.Context, diverID string) ([]string, error) {
	return nil, nil
}

type stubNotifier struct {
	notified []*domain.Booking
}

func (n *stubNotifier) BookingRequested(ctx context.Context, diver *domain.Diver, centre *domain.DiveCentre, booking *domain.Booking) {
	n.notified = append(n.notified, booking)
}

type stubMessageStore struct {
	messages []*domain.Message
}

func (s *stubMessageStore) Insert(ctx context.Context, message *domain.Message) (*domain.Message, error) {
	message.Timestamp = time.Now().UTC()
	s.messages = append(s.messages, message)
	return message, nil
}

func (s *stubMessageStore) GetConversation(ctx context.Context, subjectA string, subjectB string) ([]*domain.Message, error) {
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
