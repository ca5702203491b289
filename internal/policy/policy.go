// Package policy holds the resource-ownership rules evaluated by every entity
// handler after authentication. Rules are pure functions over the caller's
// identity and the resource's references, so every handler applies exactly the
// same table and none of them can drift.
//
// Handlers must check existence first: a missing resource is a 404 regardless
// of who asks; these rules only decide access to resources that exist.
package policy

import (
	"github.com/petvetapp/petvet-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Identity is the minimal caller identity resolved by the auth guard.
type Identity struct {
	ID   primitive.ObjectID
	Role string
}

// IsVeterinarian reports whether the caller holds the veterinarian role.
func (id Identity) IsVeterinarian() bool {
	return id.Role == models.RoleVeterinarian
}

// CanReadPet: the owner, or any veterinarian.
func CanReadPet(caller Identity, owner primitive.ObjectID) bool {
	return caller.ID == owner || caller.IsVeterinarian()
}

// CanWritePet: the owner only. Veterinarians may read any pet but never
// mutate or delete one.
func CanWritePet(caller Identity, owner primitive.ObjectID) bool {
	return caller.ID == owner
}

// CanReadAppointment: the owning pet-owner, or the assigned veterinarian.
// Unassigned appointments are visible to the owner only.
func CanReadAppointment(caller Identity, owner primitive.ObjectID, veterinarian *primitive.ObjectID) bool {
	if caller.ID == owner {
		return true
	}
	return veterinarian != nil && caller.ID == *veterinarian
}

// CanUpdateAppointment: same parties as read. The assigned veterinarian has
// write rights equivalent to the owner for that record.
func CanUpdateAppointment(caller Identity, owner primitive.ObjectID, veterinarian *primitive.ObjectID) bool {
	return CanReadAppointment(caller, owner, veterinarian)
}

// CanDeleteAppointment: the owner only.
func CanDeleteAppointment(caller Identity, owner primitive.ObjectID) bool {
	return caller.ID == owner
}

// CanReadHealthRecord: the pet's owner, or any veterinarian.
func CanReadHealthRecord(caller Identity, petOwner primitive.ObjectID) bool {
	return caller.ID == petOwner || caller.IsVeterinarian()
}

// CanUpdateHealthRecord: the recording user, or any veterinarian.
func CanUpdateHealthRecord(caller Identity, recordedBy primitive.ObjectID) bool {
	return caller.ID == recordedBy || caller.IsVeterinarian()
}

// CanDeleteHealthRecord: the recording user only.
func CanDeleteHealthRecord(caller Identity, recordedBy primitive.ObjectID) bool {
	return caller.ID == recordedBy
}

// Messages carry no rule here: they are never fetched by id, so participant
// access is enforced structurally by the query filters in the message
// handlers (caller pinned as sender/receiver, mark-as-read pinned to the
// receiving side).
