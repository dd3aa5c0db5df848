package domain

import "context"

// BookingStore is the authoritative booking log. The Mongo aggregates only
// hold projections of these records; when a projection write fails mid-way
// the log is what reconciliation works from.
type BookingStore interface {
	Insert(ctx context.Context, booking *Booking) error
	Delete(ctx context.Context, booking *Booking) error
	GetByDiver(ctx context.Context, diverID string) ([]*Booking, error)
	GetByDiveCentre(ctx context.Context, centreID string) ([]*Booking, error)
}
