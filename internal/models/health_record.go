package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Health record types.
const (
	RecordWeight      = "weight"
	RecordVaccination = "vaccination"
	RecordMedication  = "medication"
	RecordAllergy     = "allergy"
	RecordCondition   = "condition"
	RecordOther       = "other"
)

// HealthRecord is a clinical entry for a pet. recordedBy is the authoring
// user, either the pet's owner or a veterinarian.
type HealthRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`

	Pet        primitive.ObjectID `bson:"pet" json:"pet"`
	RecordType string             `bson:"recordType" json:"recordType"`
	Date       time.Time          `bson:"date" json:"date"`
	Value      string             `bson:"value,omitempty" json:"value,omitempty"`
	Notes      string             `bson:"notes,omitempty" json:"notes,omitempty"`
	RecordedBy primitive.ObjectID `bson:"recordedBy" json:"recordedBy"`
}

// ValidRecordType reports whether t is a member of the record type enum.
func ValidRecordType(t string) bool {
	switch t {
	case RecordWeight, RecordVaccination, RecordMedication, RecordAllergy, RecordCondition, RecordOther:
		return true
	}
	return false
}

// HealthRecordPatch carries a partial record update; only non-nil fields are
// applied. pet and recordedBy are immutable.
type HealthRecordPatch struct {
	RecordType *string    `json:"recordType"`
	Date       *time.Time `json:"date"`
	Value      *string    `json:"value"`
	Notes      *string    `json:"notes"`
}

// SetUpdates converts the patch into a MongoDB $set document.
func (p *HealthRecordPatch) SetUpdates() bson.M {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if p.RecordType != nil {
		set["recordType"] = *p.RecordType
	}
	if p.Date != nil {
		set["date"] = p.Date.UTC()
	}
	if p.Value != nil {
		set["value"] = *p.Value
	}
	if p.Notes != nil {
		set["notes"] = *p.Notes
	}
	return set
}

// HealthRecordView is a record with the recording user populated.
type HealthRecordView struct {
	ID        primitive.ObjectID `json:"_id"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`

	Pet        primitive.ObjectID `json:"pet"`
	RecordType string             `json:"recordType"`
	Date       time.Time          `json:"date"`
	Value      string             `json:"value,omitempty"`
	Notes      string             `json:"notes,omitempty"`
	RecordedBy *UserRef           `json:"recordedBy"`
}
