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
	CENTRE_COLLECTION = "divecentres"
)

type DiveCentreMongoDBStore struct {
	centres *mongo.Collection
	tracer  trace.Tracer
}

func NewDiveCentreMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.DiveCentreStore {
	centres := client.Database(DATABASE).Collection(CENTRE_COLLECTION)
	return &DiveCentreMongoDBStore{
		centres: centres,
		tracer:  tracer,
	}
}

func (store *DiveCentreMongoDBStore) EnsureIndexes(ctx context.Context) error {
	_, err := store.centres.Indexes().CreateMany(ctx, []mongo.IndexModel{
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

func (store *DiveCentreMongoDBStore) Register(ctx context.Context, centre *domain.DiveCentre) (*domain.DiveCentre, error) {
	ctx, span := store.tracer.Start(ctx, "DiveCentreStore.Register")
	defer span.End()

	centre.ID = primitive.NewObjectID()
	result, err := store.centres.InsertOne(ctx, centre)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if mongo.IsDuplicateKeyError(err) {
			return nil, registerConflict(err, errs.CentreAlreadyRegistered, errs.EmailAlreadyExist)
		}
		return nil, err
	}
	centre.ID = result.InsertedID.(primitive.ObjectID)
	return centre, nil
}

func (store *DiveCentreMongoDBStore) GetBySubjectID(ctx context.Context, subjectID string) (*domain.DiveCentre, error) {
	ctx, span := store.tracer.Start(ctx, "DiveCentreStore.GetBySubjectID")
	defer span.End()

	filter := bson.M{"subjectId": subjectID}
	centre, err := store.filterOne(ctx, filter)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.New(errs.DiveCentreNotFound)
		}
		return nil, err
	}
	return centre, nil
}

func (store *DiveCentreMongoDBStore) UpdateOffer(ctx context.Context, subjectID string, services []domain.Offer, availability []domain.Availability) (*domain.DiveCentre, error) {
	ctx, span := store.tracer.Start(ctx, "DiveCentreStore.UpdateOffer")
	defer span.End()

	filter := bson.M{"subjectId": subjectID}
	update := bson.M{"$set": bson.M{"services": services, "availability": availability}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var centre domain.DiveCentre
	err := store.centres.FindOneAndUpdate(ctx, filter, update, opts).Decode(&centre)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.New(errs.DiveCentreNotFound)
		}
		return nil, err
	}
	return &centre, nil
}

func (store *DiveCentreMongoDBStore) SetLogoPhoto(ctx context.Context, subjectID string, photo string) error {
	ctx, span := store.tracer.Start(ctx, "DiveCentreStore.SetLogoPhoto")
	defer span.End()

	return store.updateOne(ctx, subjectID, bson.M{"$set": bson.M{"logoPhoto": photo}})
}

func (store *DiveCentreMongoDBStore) SetProfilePhoto(ctx context.Context, subjectID string, photo string) error {
	ctx, span := store.tracer.Start(ctx, "DiveCentreStore.SetProfilePhoto")
	defer span.End()

	return store.updateOne(ctx, subjectID, bson.M{"$set": bson.M{"profilePhoto": photo}})
}

func (store *DiveCentreMongoDBStore) AppendGalleryPhoto(ctx context.Context, subjectID string, photo string) error {
	ctx, span := store.tracer.Start(ctx, "DiveCentreStore.AppendGalleryPhoto")
	defer span.End()

	return store.updateOne(ctx, subjectID, bson.M{"$push": bson.M{"gallery": photo}})
}

func (store *DiveCentreMongoDBStore) Search(ctx context.Context, filters domain.DiveCentreFilters) ([]*domain.DiveCentre, error) {
	ctx, span := store.tracer.Start(ctx, "DiveCentreStore.Search")
	defer span.End()

	query := BuildDiveCentreQuery(filters)
	cursor, err := store.centres.Find(ctx, query)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer cursor.Close(ctx)
	return decodeDiveCentres(ctx, cursor)
}

func (store *DiveCentreMongoDBStore) AppendBooking(ctx context.Context, subjectID string, booking domain.CentreBooking) error {
	ctx, span := store.tracer.Start(ctx, "DiveCentreStore.AppendBooking")
	defer span.End()

	return store.updateOne(ctx, subjectID, bson.M{"$push": bson.M{"bookings": booking}})
}

func (store *DiveCentreMongoDBStore) RemoveBooking(ctx context.Context, subjectID string, bookingID string) error {
	ctx, span := store.tracer.Start(ctx, "DiveCentreStore.RemoveBooking")
	defer span.End()

	return store.updateOne(ctx, subjectID, bson.M{"$pull": bson.M{"bookings": bson.M{"bookingId": bookingID}}})
}

func (store *DiveCentreMongoDBStore) AppendReview(ctx context.Context, subjectID string, review domain.Review) error {
	ctx, span := store.tracer.Start(ctx, "DiveCentreStore.AppendReview")
	defer span.End()

	return store.updateOne(ctx, subjectID, bson.M{"$push": bson.M{"reviews": review}})
}

func (store *DiveCentreMongoDBStore) updateOne(ctx context.Context, subjectID string, update bson.M) error {
	result, err := store.centres.UpdateOne(ctx, bson.M{"subjectId": subjectID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return errors.New(errs.DiveCentreNotFound)
	}
	return nil
}

func (store *DiveCentreMongoDBStore) filterOne(ctx context.Context, filter interface{}) (centre *domain.DiveCentre, err error) {
	result := store.centres.FindOne(ctx, filter)
	err = result.Decode(&centre)
	return
}

func decodeDiveCentres(ctx context.Context, cursor *mongo.Cursor) (centres []*domain.DiveCentre, err error) {
	for cursor.Next(ctx) {
		var centre domain.DiveCentre
		err = cursor.Decode(&centre)
		if err != nil {
			return
		}
		centres = append(centres, &centre)
	}
	err = cursor.Err()
	return
}
