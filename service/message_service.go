package application

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/SCN0mad/scuba-app-backend/domain"
	errs "github.com/SCN0mad/scuba-app-backend/errors"
	"github.com/SCN0mad/scuba-app-backend/realtime"
)

// MessagePublisher delivers an event to every live connection of one
// subject. Satisfied by realtime.Hub.
type MessagePublisher interface {
	Publish(subjectID string, event realtime.Event)
}

type MessageService struct {
	store     domain.MessageStore
	publisher MessagePublisher
	tracer    trace.Tracer
}

func NewMessageService(store domain.MessageStore, publisher MessagePublisher, tracer trace.Tracer) *MessageService {
	return &MessageService{
		store:     store,
		publisher: publisher,
		tracer:    tracer,
	}
}

// Send persists the message first, then pushes it to the receiver's live
// connections and the sender's other connections. Persistence
// happens-before delivery; delivery itself is fire-and-forget.
func (service *MessageService) Send(ctx context.Context, senderID, receiverID, content string) (*domain.Message, error) {
	ctx, span := service.tracer.Start(ctx, "MessageService.Send")
	defer span.End()

	if receiverID == "" || content == "" {
		return nil, errors.New(errs.MissingMessageFields)
	}

	message := &domain.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	}
	saved, err := service.store.Insert(ctx, message)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	event := realtime.Event{Name: "message", Data: saved}
	service.publisher.Publish(receiverID, event)
	if senderID != receiverID {
		service.publisher.Publish(senderID, event)
	}

	return saved, nil
}

// History returns the conversation between the two subjects in both
// directions, ordered ascending by timestamp.
func (service *MessageService) History(ctx context.Context, subjectA, subjectB string) ([]*domain.Message, error) {
	ctx, span := service.tracer.Start(ctx, "MessageService.History")
	defer span.End()

	messages, err := service.store.GetConversation(ctx, subjectA, subjectB)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if messages == nil {
		messages = []*domain.Message{}
	}
	return messages, nil
}
