package domain

import "context"

// DiveCentreFilters carries the optional search clauses. Zero values impose
// no constraint; StartDate and EndDate are only applied together.
type DiveCentreFilters struct {
	Address   string
	City      string
	Country   string
	DiveTypes string
	MaxPrice  *float64
	StartDate string
	EndDate   string
}

type DiveCentreStore interface {
	Register(ctx context.Context, centre *DiveCentre) (*DiveCentre, error)
	GetBySubjectID(ctx context.Context, subjectID string) (*DiveCentre, error)
	UpdateOffer(ctx context.Context, subjectID string, services []Offer, availability []Availability) (*DiveCentre, error)
	SetLogoPhoto(ctx context.Context, subjectID string, photo string) error
	SetProfilePhoto(ctx context.Context, subjectID string, photo string) error
	AppendGalleryPhoto(ctx context.Context, subjectID string, photo string) error
	Search(ctx context.Context, filters DiveCentreFilters) ([]*DiveCentre, error)
	AppendBooking(ctx context.Context, subjectID string, booking CentreBooking) error
	RemoveBooking(ctx context.Context, subjectID string, bookingID string) error
	AppendReview(ctx context.Context, subjectID string, review Review) error
}
