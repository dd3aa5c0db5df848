package application

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/gomail.v2"

	"github.com/SCN0mad/scuba-app-backend/domain"
)

type MailConfig struct {
	Server   string
	Port     int
	Email    string
	Password string
}

type NotificationService struct {
	store  domain.NotificationStore
	mail   MailConfig
	cb     *gobreaker.CircuitBreaker
	logger *logrus.Logger
	tracer trace.Tracer
}

func NewNotificationService(store domain.NotificationStore, mail MailConfig, logger *logrus.Logger, tracer trace.Tracer) *NotificationService {
	return &NotificationService{
		store:  store,
		mail:   mail,
		cb:     CircuitBreaker("notificationMail"),
		logger: logger,
		tracer: tracer,
	}
}

// BookingRequested records a notification for the centre and mails it.
// Both steps are best-effort: a booking never fails because its
// notification did.
func (service *NotificationService) BookingRequested(ctx context.Context, diver *domain.Diver, centre *domain.DiveCentre, booking *domain.Booking) {
	ctx, span := service.tracer.Start(ctx, "NotificationService.BookingRequested")
	defer span.End()

	description := fmt.Sprintf("Diver %s requested %s on %s", diver.Name, booking.Service, booking.Date)
	notification := &domain.Notification{
		ByDiverId:   booking.DiverID,
		ForCentreId: booking.DiveCentreID,
		Description: description,
	}
	if _, err := service.store.Create(ctx, notification); err != nil {
		service.logger.Println("Failed to store booking notification:", err)
	}

	// SMTP is the flakiest dependency here, keep it behind the breaker.
	_, breakerErr := service.cb.Execute(func() (interface{}, error) {
		return nil, service.sendBookingMail(centre.Email, diver.Name, booking)
	})
	if breakerErr != nil {
		service.logger.Println("Failed to send booking mail:", breakerErr)
	}
}

func (service *NotificationService) GetByCentreID(ctx context.Context, centreID string) ([]*domain.Notification, error) {
	ctx, span := service.tracer.Start(ctx, "NotificationService.GetByCentreID")
	defer span.End()

	notifications, err := service.store.GetByCentreID(ctx, centreID)
	if err != nil {
		return nil, err
	}
	if notifications == nil {
		notifications = []*domain.Notification{}
	}
	return notifications, nil
}

func (service *NotificationService) sendBookingMail(centreEmail, diverName string, booking *domain.Booking) error {
	message := gomail.NewMessage()
	message.SetHeader("From", service.mail.Email)
	message.SetHeader("To", centreEmail)
	message.SetHeader("Subject", "New booking request")

	bodyString := fmt.Sprintf("Diver %s requested %s on %s.\nBooking id: %s\nMessage: %s",
		diverName, booking.Service, booking.Date, booking.ID, booking.Message)
	message.SetBody("text", bodyString)

	client := gomail.NewDialer(service.mail.Server, service.mail.Port, service.mail.Email, service.mail.Password)

	if err := client.DialAndSend(message); err != nil {
		return err
	}

	return nil
}

func CircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(
		gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Timeout:     10 * time.Second,
			Interval:    0,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 2
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				log.Printf("Circuit Breaker '%s' changed from '%s' to '%s'\n", name, from, to)
			},
		},
	)
}
