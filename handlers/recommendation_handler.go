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

type RecommendationHandler struct {
	service *application.RecommendationService
	logger  *logrus.Logger
	tracer  trace.Tracer
}

func NewRecommendationHandler(service *application.RecommendationService, logger *logrus.Logger, tracer trace.Tracer) *RecommendationHandler {
	return &RecommendationHandler{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

func (handler *RecommendationHandler) Init(router *mux.Router) {
	router.HandleFunc("", handler.GetOwn).Methods("GET")
	router.HandleFunc("/", handler.GetOwn).Methods("GET")
}

func (handler *RecommendationHandler) GetOwn(rw http.ResponseWriter, h *http.Request) {
	ctx, span := handler.tracer.Start(h.Context(), "RecommendationHandler.GetOwn")
	defer span.End()

	centreIDs, err := handler.service.Recommend(ctx, GetSubjectID(h))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handler.logger.Println("Error fetching recommendations:", err)
		http.Error(rw, errs.ServiceUnavailableError, http.StatusServiceUnavailable)
		return
	}

	json.NewEncoder(rw).Encode(map[string]interface{}{"results": centreIDs})
}
