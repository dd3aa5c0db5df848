package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SCN0mad/scuba-app-backend/domain"
	errs "github.com/SCN0mad/scuba-app-backend/errors"
	application "github.com/SCN0mad/scuba-app-backend/service"
)

type bookingHandlerFixture struct {
	divers   *stubDiverStore
	centres  *stubCentreStore
	bookings *stubBookingStore
	notifier *stubNotifier
	handler  *BookingHandler
}

func newBookingHandlerFixture() *bookingHandlerFixture {
	divers := newStubDiverStore(&domain.Diver{SubjectID: "diver-1", Name: "Ana", Email: "ana@example.com"})
	centres := newStubCentreStore(&domain.DiveCentre{SubjectID: "centre-1", Name: "Blue Hole", Email: "info@bluehole.example"})
	bookings := &stubBookingStore{}
	notifier := &stubNotifier{}

	service := application.NewBookingService(divers, centres, bookings, &stubRecommendationStore{},
		notifier, testLogger(), testTracer())
	handler := NewBookingHandler(service, testLogger(), testTracer())

	return &bookingHandlerFixture{
		divers:   divers,
		centres:  centres,
		bookings: bookings,
		notifier: notifier,
		handler:  handler,
	}
}

func bookingRequest(t *testing.T, subjectID string, body string) *http.Request {
	t.Helper()

	request := httptest.NewRequest(http.MethodPost, "/api/divers/book", strings.NewReader(body))
	ctx := context.WithValue(request.Context(), KeySubject{}, subjectID)
	ctx = context.WithValue(ctx, KeyClaims{}, map[string]string{"sub": subjectID, "userType": "Diver"})
	return request.WithContext(ctx)
}

func TestRequestBookingHappyPath(t *testing.T) {
	fixture := newBookingHandlerFixture()

	body := `{"diveCentreId":"centre-1","date":"2026-09-15","service":"Wreck dive","message":"hi"}`
	recorder := httptest.NewRecorder()
	fixture.handler.RequestBooking(recorder, bookingRequest(t, "diver-1", body))

	assert.Equal(t, http.StatusCreated, recorder.Code)

	var response map[string]string
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Equal(t, "Booking request sent", response["message"])

	require.Len(t, fixture.bookings.inserted, 1)
	require.Len(t, fixture.divers.appended, 1)
	require.Len(t, fixture.centres.appended, 1)
	assert.Len(t, fixture.notifier.notified, 1)
}

func TestRequestBookingRejectsMalformedBody(t *testing.T) {
	fixture := newBookingHandlerFixture()

	recorder := httptest.NewRecorder()
	fixture.handler.RequestBooking(recorder, bookingRequest(t, "diver-1", "{not json"))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Empty(t, fixture.bookings.inserted)
}

func TestRequestBookingRejectsMissingFields(t *testing.T) {
	fixture := newBookingHandlerFixture()

	recorder := httptest.NewRecorder()
	fixture.handler.RequestBooking(recorder, bookingRequest(t, "diver-1", `{"diveCentreId":"centre-1"}`))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Empty(t, fixture.bookings.inserted)
}

func TestRequestBookingUnknownCentreIs404(t *testing.T) {
	fixture := newBookingHandlerFixture()

	body := `{"diveCentreId":"ghost","date":"2026-09-15","service":"Wreck dive"}`
	recorder := httptest.NewRecorder()
	fixture.handler.RequestBooking(recorder, bookingRequest(t, "diver-1", body))

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, errs.DiveCentreNotFound, strings.TrimSpace(recorder.Body.String()))
}

func TestRequestBookingLogDownIs503(t *testing.T) {
	fixture := newBookingHandlerFixture()
	fixture.bookings.insertErr = errors.New("no hosts available")

	body := `{"diveCentreId":"centre-1","date":"2026-09-15","service":"Wreck dive"}`
	recorder := httptest.NewRecorder()
	fixture.handler.RequestBooking(recorder, bookingRequest(t, "diver-1", body))

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
}

func TestRequestBookingReconcileFailureIsDistinct(t *testing.T) {
	fixture := newBookingHandlerFixture()
	fixture.centres.appendErr = errors.New("write conflict")
	fixture.divers.removeErr = errors.New("connection reset")

	body := `{"diveCentreId":"centre-1","date":"2026-09-15","service":"Wreck dive"}`
	recorder := httptest.NewRecorder()
	fixture.handler.RequestBooking(recorder, bookingRequest(t, "diver-1", body))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Equal(t, errs.BookingReconcileError, strings.TrimSpace(recorder.Body.String()))
}

func TestGetOwnPicksSideByRole(t *testing.T) {
	fixture := newBookingHandlerFixture()
	fixture.bookings.inserted = []*domain.Booking{{ID: "b1", DiverID: "diver-1", DiveCentreID: "centre-1"}}

	request := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	ctx := context.WithValue(request.Context(), KeySubject{}, "centre-1")
	ctx = context.WithValue(ctx, KeyClaims{}, map[string]string{"sub": "centre-1", "userType": "DiveCentre"})
	recorder := httptest.NewRecorder()
	fixture.handler.GetOwn(recorder, request.WithContext(ctx))

	assert.Equal(t, http.StatusOK, recorder.Code)

	var bookings []*domain.Booking
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&bookings))
	require.Len(t, bookings, 1)
	assert.Equal(t, "b1", bookings[0].ID)
}

func TestGetOwnEmptyLogIsEmptyArray(t *testing.T) {
	fixture := newBookingHandlerFixture()

	request := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	ctx := context.WithValue(request.Context(), KeySubject{}, "diver-1")
	ctx = context.WithValue(ctx, KeyClaims{}, map[string]string{"sub": "diver-1", "userType": "Diver"})
	recorder := httptest.NewRecorder()
	fixture.handler.GetOwn(recorder, request.WithContext(ctx))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "[]", strings.TrimSpace(recorder.Body.String()))
}
