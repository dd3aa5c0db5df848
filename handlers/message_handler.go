package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	errs "github.com/SCN0mad/scuba-app-backend/errors"
	"github.com/SCN0mad/scuba-app-backend/realtime"
	application "github.com/SCN0mad/scuba-app-backend/service"
)

type MessageHandler struct {
	service *application.MessageService
	hub     *realtime.Hub
	logger  *logrus.Logger
	tracer  trace.Tracer
}

func NewMessageHandler(service *application.MessageService, hub *realtime.Hub, logger *logrus.Logger, tracer trace.Tracer) *MessageHandler {
	return &MessageHandler{
		service: service,
		hub:     hub,
		logger:  logger,
		tracer:  tracer,
	}
}

func (handler *MessageHandler) Init(router *mux.Router) {
	router.HandleFunc("/send", handler.Send).Methods("POST")
	router.HandleFunc("/stream", handler.Stream).Methods("GET")
	router.HandleFunc("/{userId}", handler.History).Methods("GET")
}

func (handler *MessageHandler) Send(rw http.ResponseWriter, h *http.Request) {
	ctx, span := handler.tracer.Start(h.Context(), "MessageHandler.Send")
	defer span.End()

	var payload struct {
		ReceiverID string `json:"receiverId"`
		Content    string `json:"content"`
	}
	if err := json.NewDecoder(h.Body).Decode(&payload); err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(rw, errs.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}

	message, err := handler.service.Send(ctx, GetSubjectID(h), payload.ReceiverID, payload.Content)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if err.Error() == errs.MissingMessageFields {
			http.Error(rw, errs.MissingMessageFields, http.StatusBadRequest)
			return
		}
		handler.logger.Println("Error sending message:", err)
		http.Error(rw, "Error sending message", http.StatusInternalServerError)
		return
	}

	rw.WriteHeader(http.StatusCreated)
	json.NewEncoder(rw).Encode(message)
}

// History is restricted to the pair (authenticated caller, {userId}).
func (handler *MessageHandler) History(rw http.ResponseWriter, h *http.Request) {
	ctx, span := handler.tracer.Start(h.Context(), "MessageHandler.History")
	defer span.End()

	vars := mux.Vars(h)
	messages, err := handler.service.History(ctx, GetSubjectID(h), vars["userId"])
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handler.logger.Println("Error fetching messages:", err)
		http.Error(rw, "Error fetching messages", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(rw).Encode(messages)
}

// Stream attaches the caller as a realtime subscriber for the lifetime of
// the connection. No replay of missed messages on reconnect.
func (handler *MessageHandler) Stream(rw http.ResponseWriter, h *http.Request) {
	subscriber := handler.hub.Attach(GetSubjectID(h))
	defer handler.hub.Detach(subscriber)

	handler.hub.Serve(rw, h, subscriber)
}
