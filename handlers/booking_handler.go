package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/SCN0mad/scuba-app-backend/domain"
	errs "github.com/SCN0mad/scuba-app-backend/errors"
	application "github.com/SCN0mad/scuba-app-backend/service"
)

type BookingHandler struct {
	service *application.BookingService
	logger  *logrus.Logger
	tracer  trace.Tracer
}

func NewBookingHandler(service *application.BookingService, logger *logrus.Logger, tracer trace.Tracer) *BookingHandler {
	return &BookingHandler{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

func (handler *BookingHandler) InitDiverRoutes(router *mux.Router) {
	router.HandleFunc("/book", handler.RequestBooking).Methods("POST")
}

func (handler *BookingHandler) InitBookingRoutes(router *mux.Router) {
	router.HandleFunc("", handler.GetOwn).Methods("GET")
	router.HandleFunc("/", handler.GetOwn).Methods("GET")
}

func (handler *BookingHandler) RequestBooking(rw http.ResponseWriter, h *http.Request) {
	ctx, span := handler.tracer.Start(h.Context(), "BookingHandler.RequestBooking")
	defer span.End()

	var request domain.BookingRequest
	if err := request.FromJSON(h.Body); err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(rw, errs.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}
	if err := request.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(rw, err.Error(), http.StatusBadRequest)
		return
	}

	_, err := handler.service.RequestBooking(ctx, GetSubjectID(h), &request)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		switch err.Error() {
		case errs.DiverNotFound:
			http.Error(rw, errs.DiverNotFound, http.StatusNotFound)
		case errs.DiveCentreNotFound:
			http.Error(rw, errs.DiveCentreNotFound, http.StatusNotFound)
		case errs.BookingReconcileError:
			// Not an ordinary failure: the diver side may still show the
			// booking. Reported distinctly so it can be repaired.
			handler.logger.Println("Booking left in partial state:", err)
			http.Error(rw, errs.BookingReconcileError, http.StatusInternalServerError)
		case errs.ServiceUnavailableError:
			http.Error(rw, errs.ServiceUnavailableError, http.StatusServiceUnavailable)
		default:
			handler.logger.Println("Error booking dive:", err)
			http.Error(rw, "Error booking dive", http.StatusInternalServerError)
		}
		return
	}

	rw.WriteHeader(http.StatusCreated)
	json.NewEncoder(rw).Encode(map[string]string{"message": "Booking request sent"})
}

// GetOwn returns the caller's side of the authoritative booking log,
// picked by the role in the credential.
func (handler *BookingHandler) GetOwn(rw http.ResponseWriter, h *http.Request) {
	ctx, span := handler.tracer.Start(h.Context(), "BookingHandler.GetOwn")
	defer span.End()

	subjectID := GetSubjectID(h)
	claims := GetClaims(h)

	var (
		bookings []*domain.Booking
		err      error
	)
	if claims["userType"] == "DiveCentre" {
		bookings, err = handler.service.GetByDiveCentre(ctx, subjectID)
	} else {
		bookings, err = handler.service.GetByDiver(ctx, subjectID)
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handler.logger.Println("Error fetching bookings:", err)
		http.Error(rw, errs.ServiceUnavailableError, http.StatusServiceUnavailable)
		return
	}
	if bookings == nil {
		bookings = []*domain.Booking{}
	}

	json.NewEncoder(rw).Encode(bookings)
}
