package store

import (
	"context"
	"log"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.opentelemetry.io/otel/trace"

	"github.com/SCN0mad/scuba-app-backend/domain"
)

const (
	RECOMMENDATION_DATABASE = "recommendation"
)

type RecommendationNeo4JStore struct {
	driver neo4j.DriverWithContext
	logger *log.Logger
	tracer trace.Tracer
}

func NewRecommendationNeo4JStore(driver *neo4j.DriverWithContext, tracer trace.Tracer) domain.RecommendationStore {
	return &RecommendationNeo4JStore{
		driver: *driver,
		logger: log.Default(),
		tracer: tracer,
	}
}

func (store *RecommendationNeo4JStore) RecordBooking(ctx context.Context, diverID string, centreID string) error {
	ctx, span := store.tracer.Start(ctx, "RecommendationStore.RecordBooking")
	defer span.End()

	session := store.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: RECOMMENDATION_DATABASE})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx,
		func(transaction neo4j.ManagedTransaction) (any, error) {
			_, err := transaction.Run(ctx,
				"MERGE (d:Diver {id: $diverId}) "+
					"MERGE (c:DiveCentre {id: $centreId}) "+
					"MERGE (d)-[:BOOKED]->(c)",
				map[string]any{"diverId": diverID, "centreId": centreID})
			if err != nil {
				log.Printf("RecommendationStore.RecordBooking.Run() : %s", err)
				return nil, err
			}
			return nil, nil
		})
	if err != nil {
		log.Printf("RecommendationStore.RecordBooking.ExecuteWrite() : %s", err)
		return err
	}

	return nil
}

func (store *RecommendationNeo4JStore) RecordReview(ctx context.Context, diverID string, centreID string, rating int) error {
	ctx, span := store.tracer.Start(ctx, "RecommendationStore.RecordReview")
	defer span.End()

	session := store.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: RECOMMENDATION_DATABASE})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx,
		func(transaction neo4j.ManagedTransaction) (any, error) {
			_, err := transaction.Run(ctx,
				"MERGE (d:Diver {id: $diverId}) "+
					"MERGE (c:DiveCentre {id: $centreId}) "+
					"CREATE (d)-[:REVIEWED {rating: $rating}]->(c)",
				map[string]any{"diverId": diverID, "centreId": centreID, "rating": rating})
			if err != nil {
				log.Printf("RecommendationStore.RecordReview.Run() : %s", err)
				return nil, err
			}
			return nil, nil
		})
	if err != nil {
		log.Printf("RecommendationStore.RecordReview.ExecuteWrite() : %s", err)
		return err
	}

	return nil
}

// Recommend returns centres booked by divers who share a booked centre with
// the caller, skipping centres the caller already booked and centres whose
// average review rating is under 3.
func (store *RecommendationNeo4JStore) Recommend(ctx context.Context, diverID string) ([]string, error) {
	ctx, span := store.tracer.Start(ctx, "RecommendationStore.Recommend")
	defer span.End()

	session := store.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: RECOMMENDATION_DATABASE})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx,
		func(transaction neo4j.ManagedTransaction) (any, error) {
			records, err := transaction.Run(ctx,
				"MATCH (me:Diver {id: $diverId})-[:BOOKED]->(:DiveCentre)<-[:BOOKED]-(other:Diver)-[:BOOKED]->(rec:DiveCentre) "+
					"WHERE other.id <> $diverId AND NOT (me)-[:BOOKED]->(rec) "+
					"OPTIONAL MATCH (rec)<-[r:REVIEWED]-() "+
					"WITH rec, avg(r.rating) AS avgRating, count(DISTINCT other) AS freq "+
					"WHERE avgRating IS NULL OR avgRating >= 3 "+
					"RETURN rec.id ORDER BY freq DESC LIMIT 10",
				map[string]any{"diverId": diverID})
			if err != nil {
				log.Printf("RecommendationStore.Recommend.Run() : %s", err)
				return nil, err
			}

			var centreIDs []string
			for records.Next(ctx) {
				value, ok := records.Record().Values[0].(string)
				if ok {
					centreIDs = append(centreIDs, value)
				}
			}
			return centreIDs, records.Err()
		})
	if err != nil {
		log.Printf("RecommendationStore.Recommend.ExecuteRead() : %s", err)
		return nil, err
	}

	centreIDs, _ := result.([]string)
	return centreIDs, nil
}
