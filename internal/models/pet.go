package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Gender values. Input is case-normalized on write.
const (
	GenderMale    = "male"
	GenderFemale  = "female"
	GenderUnknown = "unknown"
)

// Pet is stored in the "pets" collection. The owner reference is set at
// creation and never changes.
type Pet struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`

	Owner       primitive.ObjectID `bson:"owner" json:"owner"`
	Name        string             `bson:"name" json:"name"`
	Species     string             `bson:"species" json:"species"`
	Breed       string             `bson:"breed,omitempty" json:"breed,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Gender      string             `bson:"gender" json:"gender"`
	Size        string             `bson:"size,omitempty" json:"size,omitempty"`
	Health      string             `bson:"health,omitempty" json:"health,omitempty"`
	Age         string             `bson:"age,omitempty" json:"age,omitempty"`
	Temperament string             `bson:"temperament,omitempty" json:"temperament,omitempty"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
}

// NormalizeGender lowercases the input and defaults empty to "unknown".
// Returns the normalized value and whether it is a member of the enum.
func NormalizeGender(gender string) (string, bool) {
	g := strings.ToLower(strings.TrimSpace(gender))
	if g == "" {
		return GenderUnknown, true
	}
	switch g {
	case GenderMale, GenderFemale, GenderUnknown:
		return g, true
	}
	return g, false
}

// PetRef is the populated form of a pet reference embedded in responses.
type PetRef struct {
	ID      primitive.ObjectID `bson:"_id" json:"_id"`
	Name    string             `bson:"name" json:"name"`
	Species string             `bson:"species" json:"species"`
	Breed   string             `bson:"breed,omitempty" json:"breed,omitempty"`
	Image   string             `bson:"image,omitempty" json:"image,omitempty"`
}

// PetPatch carries a partial pet update; only non-nil fields are applied.
// Owner is deliberately absent: ownership is immutable.
type PetPatch struct {
	Name        *string `json:"name"`
	Species     *string `json:"species"`
	Breed       *string `json:"breed"`
	Description *string `json:"description"`
	Gender      *string `json:"gender"`
	Size        *string `json:"size"`
	Health      *string `json:"health"`
	Age         *string `json:"age"`
	Temperament *string `json:"temperament"`
	Image       *string `json:"image"`
}

// SetUpdates converts the patch into a MongoDB $set document. Gender must
// already be normalized and validated by the caller.
func (p *PetPatch) SetUpdates(gender string) bson.M {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Species != nil {
		set["species"] = *p.Species
	}
	if p.Breed != nil {
		set["breed"] = *p.Breed
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Gender != nil {
		set["gender"] = gender
	}
	if p.Size != nil {
		set["size"] = *p.Size
	}
	if p.Health != nil {
		set["health"] = *p.Health
	}
	if p.Age != nil {
		set["age"] = *p.Age
	}
	if p.Temperament != nil {
		set["temperament"] = *p.Temperament
	}
	if p.Image != nil {
		set["image"] = *p.Image
	}
	return set
}
