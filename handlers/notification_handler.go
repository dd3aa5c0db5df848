package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	errs "github.com/SCN0mad/scuba-app-backend/errors"
	application "github.com/SCN0mad/scuba-app-backend/service"
)

type NotificationHandler struct {
	service *application.NotificationService
	logger  *logrus.Logger
	tracer  trace.Tracer
}

func NewNotificationHandler(service *application.NotificationService, logger *logrus.Logger, tracer trace.Tracer) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

func (handler *NotificationHandler) Init(router *mux.Router) {
	router.HandleFunc("", handler.GetOwn).Methods("GET")
	router.HandleFunc("/", handler.GetOwn).Methods("GET")
}

func (handler *NotificationHandler) GetOwn(rw http.ResponseWriter, h *http.Request) {
	ctx, span := handler.tracer.Start(h.Context(), "NotificationHandler.GetOwn")
	defer span.End()

	notifications, err := handler.service.GetByCentreID(ctx, GetSubjectID(h))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handler.logger.Println("Error fetching notifications:", err)
		http.Error(rw, errs.ServiceUnavailableError, http.StatusServiceUnavailable)
		return
	}

	json.NewEncoder(rw).Encode(notifications)
}
