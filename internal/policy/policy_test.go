package policy

import (
	"testing"

	"github.com/petvetapp/petvet-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ownerID    = primitive.NewObjectID()
	vetID      = primitive.NewObjectID()
	strangerID = primitive.NewObjectID()

	owner    = Identity{ID: ownerID, Role: models.RolePetOwner}
	vet      = Identity{ID: vetID, Role: models.RoleVeterinarian}
	stranger = Identity{ID: strangerID, Role: models.RolePetOwner}
)

func TestPetRules(t *testing.T) {
	assert.True(t, CanReadPet(owner, ownerID), "owner reads own pet")
	assert.True(t, CanReadPet(vet, ownerID), "any veterinarian reads any pet")
	assert.False(t, CanReadPet(stranger, ownerID), "second pet-owner cannot read")

	assert.True(t, CanWritePet(owner, ownerID))
	assert.False(t, CanWritePet(vet, ownerID), "veterinarians never write pets")
	assert.False(t, CanWritePet(stranger, ownerID))
}

func TestAppointmentRules(t *testing.T) {
	assigned := &vetID

	assert.True(t, CanReadAppointment(owner, ownerID, assigned))
	assert.True(t, CanReadAppointment(vet, ownerID, assigned), "assigned veterinarian reads")
	assert.False(t, CanReadAppointment(stranger, ownerID, assigned))

	// Unassigned appointment: owner only, even for veterinarians.
	assert.True(t, CanReadAppointment(owner, ownerID, nil))
	assert.False(t, CanReadAppointment(vet, ownerID, nil), "unassigned vet has no access")

	otherVet := Identity{ID: primitive.NewObjectID(), Role: models.RoleVeterinarian}
	assert.False(t, CanReadAppointment(otherVet, ownerID, assigned), "assignment is per-record, not per-role")

	assert.True(t, CanUpdateAppointment(vet, ownerID, assigned))
	assert.False(t, CanDeleteAppointment(vet, ownerID), "delete is owner-only")
	assert.True(t, CanDeleteAppointment(owner, ownerID))
}

func TestHealthRecordRules(t *testing.T) {
	assert.True(t, CanReadHealthRecord(owner, ownerID))
	assert.True(t, CanReadHealthRecord(vet, ownerID))
	assert.False(t, CanReadHealthRecord(stranger, ownerID))

	recordedBy := ownerID
	assert.True(t, CanUpdateHealthRecord(owner, recordedBy), "recording user updates")
	assert.True(t, CanUpdateHealthRecord(vet, recordedBy), "any veterinarian updates")
	assert.False(t, CanUpdateHealthRecord(stranger, recordedBy))

	assert.True(t, CanDeleteHealthRecord(owner, recordedBy))
	assert.False(t, CanDeleteHealthRecord(vet, recordedBy), "delete restricted to recording user")
}
