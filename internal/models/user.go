package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role values. Every account is one or the other; pet_owner is the default.
const (
	RolePetOwner     = "pet_owner"
	RoleVeterinarian = "veterinarian"
)

// User is stored in the "users" collection. The password hash is never
// serialized to clients.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`

	FirstName      string `bson:"firstName" json:"firstName"`
	LastName       string `bson:"lastName" json:"lastName"`
	Email          string `bson:"email" json:"email"`
	Password       string `bson:"password" json:"-"`
	Role           string `bson:"role" json:"role"`
	PhoneNumber    string `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	Location       string `bson:"location,omitempty" json:"location,omitempty"`
	ProfileImage   string `bson:"profileImage,omitempty" json:"profileImage,omitempty"`
	OnboardingStep int    `bson:"onboardingStep" json:"onboardingStep"`
}

// ValidRole reports whether role is one of the two supported roles.
func ValidRole(role string) bool {
	return role == RolePetOwner || role == RoleVeterinarian
}

// UserPatch carries a partial profile update. Only non-nil fields are applied,
// so an absent field never overwrites a stored value.
type UserPatch struct {
	FirstName      *string `json:"firstName"`
	LastName       *string `json:"lastName"`
	Email          *string `json:"email"`
	Password       *string `json:"password"`
	PhoneNumber    *string `json:"phoneNumber"`
	Location       *string `json:"location"`
	ProfileImage   *string `json:"profileImage"`
	OnboardingStep *int    `json:"onboardingStep"`
}

// SetUpdates converts the patch into a MongoDB $set document. The password is
// expected to be hashed by the caller before this is applied.
func (p *UserPatch) SetUpdates(hashedPassword string) bson.M {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if p.FirstName != nil {
		set["firstName"] = *p.FirstName
	}
	if p.LastName != nil {
		set["lastName"] = *p.LastName
	}
	if p.Email != nil {
		set["email"] = *p.Email
	}
	if hashedPassword != "" {
		set["password"] = hashedPassword
	}
	if p.PhoneNumber != nil {
		set["phoneNumber"] = *p.PhoneNumber
	}
	if p.Location != nil {
		set["location"] = *p.Location
	}
	if p.ProfileImage != nil {
		set["profileImage"] = *p.ProfileImage
	}
	if p.OnboardingStep != nil {
		set["onboardingStep"] = *p.OnboardingStep
	}
	return set
}

// UserRef is the populated form of a user reference embedded in responses.
type UserRef struct {
	ID           primitive.ObjectID `bson:"_id" json:"_id"`
	FirstName    string             `bson:"firstName" json:"firstName"`
	LastName     string             `bson:"lastName" json:"lastName"`
	ProfileImage string             `bson:"profileImage,omitempty" json:"profileImage,omitempty"`
	Role         string             `bson:"role,omitempty" json:"role,omitempty"`
}
