package domain

import "context"

type NotificationStore interface {
	Create(ctx context.Context, notification *Notification) (*Notification, error)
	GetByCentreID(ctx context.Context, centreID string) ([]*Notification, error)
}
