package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/SCN0mad/scuba-app-backend/domain"
)

const (
	MESSAGE_COLLECTION = "messages"
)

type MessageMongoDBStore struct {
	messages *mongo.Collection
	tracer   trace.Tracer
}

func NewMessageMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.MessageStore {
	messages := client.Database(DATABASE).Collection(MESSAGE_COLLECTION)
	return &MessageMongoDBStore{
		messages: messages,
		tracer:   tracer,
	}
}

func (store *MessageMongoDBStore) Insert(ctx context.Context, message *domain.Message) (*domain.Message, error) {
	ctx, span := store.tracer.Start(ctx, "MessageStore.Insert")
	defer span.End()

	message.ID = primitive.NewObjectID()
	message.Timestamp = time.Now().UTC()

	result, err := store.messages.InsertOne(ctx, message)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	message.ID = result.InsertedID.(primitive.ObjectID)
	return message, nil
}

func (store *MessageMongoDBStore) GetConversation(ctx context.Context, subjectA string, subjectB string) ([]*domain.Message, error) {
	ctx, span := store.tracer.Start(ctx, "MessageStore.GetConversation")
	defer span.End()

	filter := bson.M{
		"$or": []bson.M{
			{"senderId": subjectA, "receiverId": subjectB},
			{"senderId": subjectB, "receiverId": subjectA},
		},
	}
	// _id breaks timestamp ties in insertion order, ObjectIDs being
	// monotonically assigned at insert time.
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := store.messages.Find(ctx, filter, opts)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer cursor.Close(ctx)
	return decodeMessages(ctx, cursor)
}

func decodeMessages(ctx context.Context, cursor *mongo.Cursor) (messages []*domain.Message, err error) {
	for cursor.Next(ctx) {
		var message domain.Message
		err = cursor.Decode(&message)
		if err != nil {
			return
		}
		messages = append(messages, &message)
	}
	err = cursor.Err()
	return
}
