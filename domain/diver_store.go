package domain

import "context"

type DiverStore interface {
	Register(ctx context.Context, diver *Diver) (*Diver, error)
	GetBySubjectID(ctx context.Context, subjectID string) (*Diver, error)
	UpdateBio(ctx context.Context, subjectID string, bio string) (*Diver, error)
	SetProfilePhoto(ctx context.Context, subjectID string, photo string) error
	AppendGalleryPhoto(ctx context.Context, subjectID string, photo string) error
	Search(ctx context.Context, name string, limit int64) ([]*Diver, error)
	AppendBooking(ctx context.Context, subjectID string, booking DiverBooking) error
	RemoveBooking(ctx context.Context, subjectID string, bookingID string) error
}
