package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SCN0mad/scuba-app-backend/domain"
	application "github.com/SCN0mad/scuba-app-backend/service"
)

// Exercises the whole flow through the handlers: register both parties,
// book, then read both profiles back and check the projections agree.
func TestBookingFlowEndToEnd(t *testing.T) {
	diverStore := newStubDiverStore()
	centreStore := newStubCentreStore()
	bookingStore := &stubBookingStore{}

	diverService := application.NewDiverService(diverStore, testTracer())
	centreService := application.NewDiveCentreService(centreStore, &stubRecommendationStore{}, testLogger(), testTracer())
	bookingService := application.NewBookingService(diverStore, centreStore, bookingStore,
		&stubRecommendationStore{}, &stubNotifier{}, testLogger(), testTracer())

	diverHandler := NewDiverHandler(diverService, nil, nil, testLogger(), testTracer())
	centreHandler := NewDiveCentreHandler(centreService, diverService, nil, nil, testLogger(), testTracer())
	bookingHandler := NewBookingHandler(bookingService, testLogger(), testTracer())

	// Register the diver.
	request := httptest.NewRequest(http.MethodPost, "/api/divers/register",
		strings.NewReader(`{"name":"Ana","email":"ana@example.com"}`))
	recorder := httptest.NewRecorder()
	diverHandler.Register(recorder, asSubject(request, "diver-1", "Diver"))
	require.Equal(t, http.StatusCreated, recorder.Code)

	// Register the centre.
	request = httptest.NewRequest(http.MethodPost, "/api/dive-centres/register",
		strings.NewReader(`{"name":"Blue Hole","email":"info@bluehole.example"}`))
	recorder = httptest.NewRecorder()
	centreHandler.Register(recorder, asSubject(request, "centre-1", "DiveCentre"))
	require.Equal(t, http.StatusCreated, recorder.Code)

	// Book.
	request = httptest.NewRequest(http.MethodPost, "/api/divers/book",
		strings.NewReader(`{"diveCentreId":"centre-1","date":"2024-06-01","service":"intro-dive"}`))
	recorder = httptest.NewRecorder()
	bookingHandler.RequestBooking(recorder, asSubject(request, "diver-1", "Diver"))
	require.Equal(t, http.StatusCreated, recorder.Code)

	// Diver profile shows one pending booking referencing the centre.
	request = httptest.NewRequest(http.MethodGet, "/api/divers/diver-1", nil)
	request = mux.SetURLVars(request, map[string]string{"uid": "diver-1"})
	recorder = httptest.NewRecorder()
	diverHandler.Get(recorder, asSubject(request, "diver-1", "Diver"))
	require.Equal(t, http.StatusOK, recorder.Code)

	var diver domain.Diver
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&diver))
	require.Len(t, diver.Bookings, 1)
	assert.Equal(t, "centre-1", diver.Bookings[0].DiveCentreID)
	assert.Equal(t, "2024-06-01", diver.Bookings[0].Date)
	assert.Equal(t, "intro-dive", diver.Bookings[0].Service)
	assert.Equal(t, domain.StatusPending, diver.Bookings[0].Status)

	// Centre profile shows the matching record referencing the diver.
	request = httptest.NewRequest(http.MethodGet, "/api/dive-centres/centre-1", nil)
	request = mux.SetURLVars(request, map[string]string{"uid": "centre-1"})
	recorder = httptest.NewRecorder()
	centreHandler.Get(recorder, asSubject(request, "centre-1", "DiveCentre"))
	require.Equal(t, http.StatusOK, recorder.Code)

	var centre domain.DiveCentre
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&centre))
	require.Len(t, centre.Bookings, 1)
	assert.Equal(t, "diver-1", centre.Bookings[0].DiverID)
	assert.Equal(t, "2024-06-01", centre.Bookings[0].Date)
	assert.Equal(t, "intro-dive", centre.Bookings[0].Service)
	assert.Equal(t, domain.StatusPending, centre.Bookings[0].Status)

	// Both projections carry the same booking id as the log record.
	require.Len(t, bookingStore.inserted, 1)
	assert.Equal(t, bookingStore.inserted[0].ID, diver.Bookings[0].BookingID)
	assert.Equal(t, bookingStore.inserted[0].ID, centre.Bookings[0].BookingID)
}
