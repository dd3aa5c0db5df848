package store

import (
	"context"
	"fmt"
	"log"

	// NoSQL: module containing Cassandra api client
	"github.com/gocql/gocql"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/SCN0mad/scuba-app-backend/domain"
)

// BookingCassandraStore holds the authoritative booking log. Every booking
// is written under two partition keys so that both sides can read their own
// history without a full scan.
type BookingCassandraStore struct {
	session *gocql.Session
	logger  *log.Logger
	tracer  trace.Tracer
}

func NewBookingCassandraStore(host string, logger *log.Logger, tracer trace.Tracer) (*BookingCassandraStore, error) {

	// Connect to default keyspace
	cluster := gocql.NewCluster(host)
	cluster.Keyspace = "system"
	session, err := cluster.CreateSession()
	if err != nil {
		logger.Println(err)
		return nil, err
	}

	// Create 'booking' keyspace
	err = session.Query(
		fmt.Sprintf(`CREATE KEYSPACE IF NOT EXISTS %s
					WITH replication = {
						'class' : 'SimpleStrategy',
						'replication_factor' : %d
					}`, "booking", 1)).Exec()
	if err != nil {
		logger.Println(err)
	}
	session.Close()

	// Connect to booking keyspace
	cluster.Keyspace = "booking"
	cluster.Consistency = gocql.One
	session, err = cluster.CreateSession()
	if err != nil {
		logger.Println(err)
		return nil, err
	}

	return &BookingCassandraStore{
		session: session,
		logger:  logger,
		tracer:  tracer,
	}, nil
}

// Disconnect from database
func (sr *BookingCassandraStore) CloseSession() {
	sr.session.Close()
}

// Create tables
func (sr *BookingCassandraStore) CreateTables() {

	err := sr.session.Query(
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s
					(diver_id text, booking_id text, centre_id text, datee text, service text, status text, message text, created_at timestamp,
					PRIMARY KEY ((diver_id), booking_id))
					WITH CLUSTERING ORDER BY (booking_id ASC)`, "bookings_by_diver")).Exec()
	if err != nil {
		sr.logger.Println(err)
	}

	err = sr.session.Query(
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s
					(diver_id text, booking_id text, centre_id text, datee text, service text, status text, message text, created_at timestamp,
					PRIMARY KEY ((centre_id), booking_id))
					WITH CLUSTERING ORDER BY (booking_id ASC)`, "bookings_by_centre")).Exec()
	if err != nil {
		sr.logger.Println(err)
	}

}

func (sr *BookingCassandraStore) Insert(ctx context.Context, booking *domain.Booking) error {
	ctx, span := sr.tracer.Start(ctx, "BookingStore.Insert")
	defer span.End()

	err := sr.session.Query(
		`INSERT INTO bookings_by_diver (diver_id, booking_id, centre_id, datee, service, status, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		booking.DiverID, booking.ID, booking.DiveCentreID, booking.Date, booking.Service,
		string(booking.Status), booking.Message, booking.CreatedAt).WithContext(ctx).Exec()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		sr.logger.Println(err)
		return err
	}

	err = sr.session.Query(
		`INSERT INTO bookings_by_centre (diver_id, booking_id, centre_id, datee, service, status, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		booking.DiverID, booking.ID, booking.DiveCentreID, booking.Date, booking.Service,
		string(booking.Status), booking.Message, booking.CreatedAt).WithContext(ctx).Exec()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		sr.logger.Println(err)
		return err
	}

	return nil
}

func (sr *BookingCassandraStore) Delete(ctx context.Context, booking *domain.Booking) error {
	ctx, span := sr.tracer.Start(ctx, "BookingStore.Delete")
	defer span.End()

	err := sr.session.Query(
		`DELETE FROM bookings_by_diver WHERE diver_id = ? AND booking_id = ?`,
		booking.DiverID, booking.ID).WithContext(ctx).Exec()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		sr.logger.Println(err)
		return err
	}

	err = sr.session.Query(
		`DELETE FROM bookings_by_centre WHERE centre_id = ? AND booking_id = ?`,
		booking.DiveCentreID, booking.ID).WithContext(ctx).Exec()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		sr.logger.Println(err)
		return err
	}

	return nil
}

func (sr *BookingCassandraStore) GetByDiver(ctx context.Context, diverID string) ([]*domain.Booking, error) {
	ctx, span := sr.tracer.Start(ctx, "BookingStore.GetByDiver")
	defer span.End()

	scanner := sr.session.Query(
		`SELECT diver_id, booking_id, centre_id, datee, service, status, message, created_at
		FROM bookings_by_diver WHERE diver_id = ?`, diverID).WithContext(ctx).Iter().Scanner()

	return sr.scanBookings(scanner, span)
}

func (sr *BookingCassandraStore) GetByDiveCentre(ctx context.Context, centreID string) ([]*domain.Booking, error) {
	ctx, span := sr.tracer.Start(ctx, "BookingStore.GetByDiveCentre")
	defer span.End()

	scanner := sr.session.Query(
		`SELECT diver_id, booking_id, centre_id, datee, service, status, message, created_at
		FROM bookings_by_centre WHERE centre_id = ?`, centreID).WithContext(ctx).Iter().Scanner()

	return sr.scanBookings(scanner, span)
}

func (sr *BookingCassandraStore) scanBookings(scanner gocql.Scanner, span trace.Span) ([]*domain.Booking, error) {
	var bookings []*domain.Booking
	for scanner.Next() {
		var booking domain.Booking
		var status string
		err := scanner.Scan(&booking.DiverID, &booking.ID, &booking.DiveCentreID, &booking.Date,
			&booking.Service, &status, &booking.Message, &booking.CreatedAt)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			sr.logger.Println(err)
			return nil, err
		}
		booking.Status = domain.BookingStatus(status)
		bookings = append(bookings, &booking)
	}
	if err := scanner.Err(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		sr.logger.Println(err)
		return nil, err
	}
	return bookings, nil
}
