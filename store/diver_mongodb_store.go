package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/SCN0mad/scuba-app-backend/domain"
	errs "github.com/SCN0mad/scuba-app-backend/errors"
)

const (
	DATABASE         = "scuba"
	DIVER_COLLECTION = "divers"
)

type DiverMongoDBStore struct {
	divers *mongo.Collection
	tracer trace.Tracer
}

func NewDiverMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.DiverStore {
	divers := client.Database(DATABASE).Collection(DIVER_COLLECTION)
	return &DiverMongoDBStore{
		divers: divers,
		tracer: tracer,
	}
}

// EnsureIndexes creates the unique constraints the application relies on.
// Email uniqueness is enforced here, not by application logic racing on it.
func (store *DiverMongoDBStore) EnsureIndexes(ctx context.Context) error {
	_, err := store.divers.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "subjectId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	return err
}

func (store *DiverMongoDBStore) Register(ctx context.Context, diver *domain.Diver) (*domain.Diver, error) {
	ctx, span := store.tracer.Start(ctx, "DiverStore.Register")
	defer span.End()

	diver.ID = primitive.NewObjectID()
	result, err := store.divers.InsertOne(ctx, diver)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if mongo.IsDuplicateKeyError(err) {
			return nil, registerConflict(err, errs.DiverAlreadyRegistered, errs.EmailAlreadyExist)
		}
		return nil, err
	}
	diver.ID = result.InsertedID.(primitive.ObjectID)
	return diver, nil
}

func (store *DiverMongoDBStore) GetBySubjectID(ctx context.Context, subjectID string) (*domain.Diver, error) {
	ctx, span := store.tracer.Start(ctx, "DiverStore.GetBySubjectID")
	defer span.End()

	filter := bson.M{"subjectId": subjectID}
	diver, err := store.filterOne(ctx, filter)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.New(errs.DiverNotFound)
		}
		return nil, err
	}
	return diver, nil
}

func (store *DiverMongoDBStore) UpdateBio(ctx context.Context, subjectID string, bio string) (*domain.Diver, error) {
	ctx, span := store.tracer.Start(ctx, "DiverStore.UpdateBio")
	defer span.End()

	filter := bson.M{"subjectId": subjectID}
	update := bson.M{"$set": bson.M{"bio": bio}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var diver domain.Diver
	err := store.divers.FindOneAndUpdate(ctx, filter, update, opts).Decode(&diver)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.New(errs.DiverNotFound)
		}
		return nil, err
	}
	return &diver, nil
}

func (store *DiverMongoDBStore) SetProfilePhoto(ctx context.Context, subjectID string, photo string) error {
	ctx, span := store.tracer.Start(ctx, "DiverStore.SetProfilePhoto")
	defer span.End()

	return store.updateOne(ctx, subjectID, bson.M{"$set": bson.M{"profilePhoto": photo}})
}

func (store *DiverMongoDBStore) AppendGalleryPhoto(ctx context.Context, subjectID string, photo string) error {
	ctx, span := store.tracer.Start(ctx, "DiverStore.AppendGalleryPhoto")
	defer span.End()

	return store.updateOne(ctx, subjectID, bson.M{"$push": bson.M{"gallery": photo}})
}

func (store *DiverMongoDBStore) Search(ctx context.Context, name string, limit int64) ([]*domain.Diver, error) {
	ctx, span := store.tracer.Start(ctx, "DiverStore.Search")
	defer span.End()

	filter := bson.M{"name": primitive.Regex{Pattern: name, Options: "i"}}
	opts := options.Find().
		SetLimit(limit).
		SetProjection(bson.M{"name": 1, "subjectId": 1, "profilePhoto": 1, "email": 1})

	cursor, err := store.divers.Find(ctx, filter, opts)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer cursor.Close(ctx)
	return decodeDivers(ctx, cursor)
}

// AppendBooking pushes the diver-side projection atomically so that two
// concurrent bookings against the same diver cannot clobber each other.
func (store *DiverMongoDBStore) AppendBooking(ctx context.Context, subjectID string, booking domain.DiverBooking) error {
	ctx, span := store.tracer.Start(ctx, "DiverStore.AppendBooking")
	defer span.End()

	return store.updateOne(ctx, subjectID, bson.M{"$push": bson.M{"bookings": booking}})
}

// RemoveBooking pulls a projection by its booking id. Used as the
// compensation step when the centre-side write fails.
func (store *DiverMongoDBStore) RemoveBooking(ctx context.Context, subjectID string, bookingID string) error {
	ctx, span := store.tracer.Start(ctx, "DiverStore.RemoveBooking")
	defer span.End()

	return store.updateOne(ctx, subjectID, bson.M{"$pull": bson.M{"bookings": bson.M{"bookingId": bookingID}}})
}

func (store *DiverMongoDBStore) updateOne(ctx context.Context, subjectID string, update bson.M) error {
	result, err := store.divers.UpdateOne(ctx, bson.M{"subjectId": subjectID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return errors.New(errs.DiverNotFound)
	}
	return nil
}

func (store *DiverMongoDBStore) filterOne(ctx context.Context, filter interface{}) (diver *domain.Diver, err error) {
	result := store.divers.FindOne(ctx, filter)
	err = result.Decode(&diver)
	return
}

func decodeDivers(ctx context.Context, cursor *mongo.Cursor) (divers []*domain.Diver, err error) {
	for cursor.Next(ctx) {
		var diver domain.Diver
		err = cursor.Decode(&diver)
		if err != nil {
			return
		}
		divers = append(divers, &diver)
	}
	err = cursor.Err()
	return
}
