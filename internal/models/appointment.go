package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Appointment types.
const (
	AppointmentCheckUp     = "check-up"
	AppointmentVaccination = "vaccination"
	AppointmentGrooming    = "grooming"
	AppointmentSurgery     = "surgery"
	AppointmentOther       = "other"
)

// Appointment statuses. pending is the initial state. Any authorized party may
// set any value; there is no enforced transition graph.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// Appointment links a pet, its owner and an optionally assigned veterinarian.
type Appointment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`

	Pet          primitive.ObjectID  `bson:"pet" json:"pet"`
	Owner        primitive.ObjectID  `bson:"owner" json:"owner"`
	Veterinarian *primitive.ObjectID `bson:"veterinarian,omitempty" json:"veterinarian,omitempty"`
	Type         string              `bson:"type" json:"type"`
	Date         time.Time           `bson:"date" json:"date"`
	Time         string              `bson:"time" json:"time"`
	Status       string              `bson:"status" json:"status"`
	Notes        string              `bson:"notes,omitempty" json:"notes,omitempty"`
}

// ValidAppointmentType reports whether t is a member of the type enum.
func ValidAppointmentType(t string) bool {
	switch t {
	case AppointmentCheckUp, AppointmentVaccination, AppointmentGrooming, AppointmentSurgery, AppointmentOther:
		return true
	}
	return false
}

// ValidAppointmentStatus reports whether s is a member of the status enum.
func ValidAppointmentStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// AppointmentPatch carries a partial appointment update; only non-nil fields
// are applied. Owner is immutable and therefore absent.
type AppointmentPatch struct {
	Pet          *string    `json:"pet"`
	Veterinarian *string    `json:"veterinarian"`
	Type         *string    `json:"type"`
	Date         *time.Time `json:"date"`
	Time         *string    `json:"time"`
	Status       *string    `json:"status"`
	Notes        *string    `json:"notes"`
}

// SetUpdates converts the patch into a MongoDB $set document. Reference fields
// must be resolved to ObjectIDs by the caller.
func (p *AppointmentPatch) SetUpdates(petID, vetID *primitive.ObjectID) bson.M {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if petID != nil {
		set["pet"] = *petID
	}
	if vetID != nil {
		set["veterinarian"] = *vetID
	}
	if p.Type != nil {
		set["type"] = *p.Type
	}
	if p.Date != nil {
		set["date"] = p.Date.UTC()
	}
	if p.Time != nil {
		set["time"] = *p.Time
	}
	if p.Status != nil {
		set["status"] = *p.Status
	}
	if p.Notes != nil {
		set["notes"] = *p.Notes
	}
	return set
}

// AppointmentView is an appointment with its references populated for
// responses (pet display fields plus owner/veterinarian names).
type AppointmentView struct {
	ID        primitive.ObjectID `json:"_id"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`

	Pet          *PetRef   `json:"pet"`
	Owner        *UserRef  `json:"owner,omitempty"`
	Veterinarian *UserRef  `json:"veterinarian,omitempty"`
	Type         string    `json:"type"`
	Date         time.Time `json:"date"`
	Time         string    `json:"time"`
	Status       string    `json:"status"`
	Notes        string    `json:"notes,omitempty"`
}
