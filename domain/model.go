package domain

import (
	"encoding/json"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Subscription string

const (
	Free     = "free"
	Basic    = "basic"
	Advanced = "advanced"
)

type BookingStatus string

const (
	// StatusPending is the only status ever assigned by this service.
	// A centre-side accept/reject flow does not exist yet.
	StatusPending BookingStatus = "pending"
)

type Diver struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	SubjectID    string             `bson:"subjectId" json:"subjectId"`
	Name         string             `bson:"name,omitempty" json:"name,omitempty"`
	Email        string             `bson:"email" json:"email"`
	Subscription Subscription       `bson:"subscription,omitempty" json:"subscription,omitempty"`
	CertBody     string             `bson:"certBody,omitempty" json:"certBody,omitempty"`
	CertLevel    string             `bson:"certLevel,omitempty" json:"certLevel,omitempty"`
	CertDate     string             `bson:"certDate,omitempty" json:"certDate,omitempty"`
	Bio          string             `bson:"bio,omitempty" json:"bio,omitempty"`
	ProfilePhoto string             `bson:"profilePhoto,omitempty" json:"profilePhoto,omitempty"`
	Gallery      []string           `bson:"gallery,omitempty" json:"gallery,omitempty"`
	DiveLogs     []DiveLog          `bson:"diveLogs,omitempty" json:"diveLogs,omitempty"`
	Bookings     []DiverBooking     `bson:"bookings,omitempty" json:"bookings,omitempty"`
}

type DiveLog struct {
	Date     string  `bson:"date,omitempty" json:"date,omitempty"`
	Location string  `bson:"location,omitempty" json:"location,omitempty"`
	Depth    float64 `bson:"depth,omitempty" json:"depth,omitempty"`
	Notes    string  `bson:"notes,omitempty" json:"notes,omitempty"`
}

// DiverBooking is the diver-side projection of one booking fact.
type DiverBooking struct {
	BookingID    string        `bson:"bookingId" json:"bookingId"`
	DiveCentreID string        `bson:"diveCentreId" json:"diveCentreId"`
	Date         string        `bson:"date" json:"date"`
	Service      string        `bson:"service" json:"service"`
	Status       BookingStatus `bson:"status" json:"status"`
}

type Address struct {
	AddressLine1 string `bson:"addressLine1,omitempty" json:"addressLine1,omitempty"`
	City         string `bson:"city,omitempty" json:"city,omitempty"`
	Country      string `bson:"country,omitempty" json:"country,omitempty"`
}

type DiveCentre struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	SubjectID    string             `bson:"subjectId" json:"subjectId"`
	Name         string             `bson:"name,omitempty" json:"name,omitempty"`
	Email        string             `bson:"email" json:"email"`
	Address      Address            `bson:"address,omitempty" json:"address,omitempty"`
	DiveTypes    []string           `bson:"diveTypes,omitempty" json:"diveTypes,omitempty"`
	LogoPhoto    string             `bson:"logoPhoto,omitempty" json:"logoPhoto,omitempty"`
	ProfilePhoto string             `bson:"profilePhoto,omitempty" json:"profilePhoto,omitempty"`
	Gallery      []string           `bson:"gallery,omitempty" json:"gallery,omitempty"`
	Services     []Offer            `bson:"services,omitempty" json:"services,omitempty"`
	Availability []Availability     `bson:"availability,omitempty" json:"availability,omitempty"`
	Bookings     []CentreBooking    `bson:"bookings,omitempty" json:"bookings,omitempty"`
	Reviews      []Review           `bson:"reviews,omitempty" json:"reviews,omitempty"`
}

type Offer struct {
	Name  string  `bson:"name" json:"name"`
	Price float64 `bson:"price" json:"price"`
}

type Availability struct {
	Date      string `bson:"date" json:"date"`
	Available bool   `bson:"available" json:"available"`
}

// CentreBooking is the centre-side projection of one booking fact.
type CentreBooking struct {
	BookingID string        `bson:"bookingId" json:"bookingId"`
	DiverID   string        `bson:"diverId" json:"diverId"`
	Date      string        `bson:"date" json:"date"`
	Service   string        `bson:"service" json:"service"`
	Status    BookingStatus `bson:"status" json:"status"`
	Message   string        `bson:"message,omitempty" json:"message,omitempty"`
}

type Review struct {
	ReviewerID string `bson:"reviewerId" json:"reviewerId"`
	Rating     int    `bson:"rating" json:"rating"`
	Comment    string `bson:"comment,omitempty" json:"comment,omitempty"`
}

// Booking is the authoritative record of one booking fact. The per-aggregate
// projections above are derived from it and carry the same BookingID.
type Booking struct {
	ID           string        `json:"id"`
	DiverID      string        `json:"diverId"`
	DiveCentreID string        `json:"diveCentreId"`
	Date         string        `json:"date"`
	Service      string        `json:"service"`
	Status       BookingStatus `json:"status"`
	Message      string        `json:"message,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
}

type Message struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	SenderID   string             `bson:"senderId" json:"senderId"`
	ReceiverID string             `bson:"receiverId" json:"receiverId"`
	Content    string             `bson:"content" json:"content"`
	Timestamp  time.Time          `bson:"timestamp" json:"timestamp"`
}

type Notification struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	ByDiverId   string             `bson:"byDiverId,omitempty" json:"byDiverId"`
	ForCentreId string             `bson:"forCentreId,omitempty" json:"forCentreId"`
	Description string             `bson:"description,omitempty" json:"description"`
	CreatedAt   time.Time          `bson:"createdAt,omitempty" json:"createdAt"`
}

// DiverDetails is the booking-facing summary a centre sees about a diver.
type DiverDetails struct {
	Name           string         `json:"name"`
	Email          string         `json:"email"`
	Qualifications Qualifications `json:"qualifications"`
	DiveLogs       []DiveLog      `json:"diveLogs"`
}

type Qualifications struct {
	CertBody  string `json:"certBody"`
	CertLevel string `json:"certLevel"`
	CertDate  string `json:"certDate"`
}

type RegisterDiver struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Subscription string `json:"subscription" validate:"omitempty,oneof=free basic advanced"`
	CertBody     string `json:"certBody"`
	CertLevel    string `json:"certLevel"`
	CertDate     string `json:"certDate"`
}

type RegisterDiveCentre struct {
	Name         string         `json:"name" validate:"required"`
	Email        string         `json:"email" validate:"required,email"`
	Address      Address        `json:"address"`
	DiveTypes    []string       `json:"diveTypes"`
	Availability []Availability `json:"availability"`
}

type BookingRequest struct {
	DiveCentreID string `json:"diveCentreId" validate:"required"`
	Date         string `json:"date" validate:"required"`
	Service      string `json:"service" validate:"required"`
	Message      string `json:"message"`
}

var validate = validator.New()

func (r *RegisterDiver) Validate() error {
	return validate.Struct(r)
}

func (r *RegisterDiveCentre) Validate() error {
	return validate.Struct(r)
}

func (r *BookingRequest) Validate() error {
	return validate.Struct(r)
}

func (r *RegisterDiver) FromJSON(reader io.Reader) error {
	return json.NewDecoder(reader).Decode(r)
}

func (r *RegisterDiveCentre) FromJSON(reader io.Reader) error {
	return json.NewDecoder(reader).Decode(r)
}

func (r *BookingRequest) FromJSON(reader io.Reader) error {
	return json.NewDecoder(reader).Decode(r)
}
