package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeGender(t *testing.T) {
	cases := []struct {
		in    string
		want  string
		valid bool
	}{
		{"male", "male", true},
		{"FEMALE", "female", true},
		{" Unknown ", "unknown", true},
		{"", "unknown", true},
		{"dragon", "dragon", false},
	}
	for _, c := range cases {
		got, ok := NormalizeGender(c.in)
		assert.Equal(t, c.want, got, "input %q", c.in)
		assert.Equal(t, c.valid, ok, "input %q", c.in)
	}
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RolePetOwner))
	assert.True(t, ValidRole(RoleVeterinarian))
	assert.False(t, ValidRole("admin"))
	assert.False(t, ValidRole(""))
}

func TestValidAppointmentEnums(t *testing.T) {
	for _, typ := range []string{"check-up", "vaccination", "grooming", "surgery", "other"} {
		assert.True(t, ValidAppointmentType(typ), typ)
	}
	assert.False(t, ValidAppointmentType("checkup"))
	assert.False(t, ValidAppointmentType("Check-up"), "enum membership is case sensitive")

	for _, status := range []string{"pending", "confirmed", "cancelled", "completed"} {
		assert.True(t, ValidAppointmentStatus(status), status)
	}
	assert.False(t, ValidAppointmentStatus("canceled"))
}

func TestValidRecordType(t *testing.T) {
	for _, typ := range []string{"weight", "vaccination", "medication", "allergy", "condition", "other"} {
		assert.True(t, ValidRecordType(typ), typ)
	}
	assert.False(t, ValidRecordType("surgery"))
}

func TestPetPatchSetUpdatesLeavesAbsentFieldsOut(t *testing.T) {
	name := "Rex"
	patch := PetPatch{Name: &name}

	set := patch.SetUpdates("")

	assert.Equal(t, "Rex", set["name"])
	assert.Contains(t, set, "updatedAt")
	assert.NotContains(t, set, "species")
	assert.NotContains(t, set, "gender", "gender only set when present in the patch")
}

func TestPetPatchSetUpdatesUsesNormalizedGender(t *testing.T) {
	raw := "FEMALE"
	patch := PetPatch{Gender: &raw}

	normalized, ok := NormalizeGender(raw)
	assert.True(t, ok)
	set := patch.SetUpdates(normalized)

	assert.Equal(t, "female", set["gender"])
}

func TestAppointmentPatchSetUpdates(t *testing.T) {
	status := StatusConfirmed
	notes := "bring vaccination card"
	patch := AppointmentPatch{Status: &status, Notes: &notes}

	set := patch.SetUpdates(nil, nil)

	assert.Equal(t, StatusConfirmed, set["status"])
	assert.Equal(t, notes, set["notes"])
	assert.NotContains(t, set, "pet")
	assert.NotContains(t, set, "veterinarian")
	assert.NotContains(t, set, "date")
}

func TestHealthRecordPatchSetUpdates(t *testing.T) {
	value := "12.5kg"
	patch := HealthRecordPatch{Value: &value}

	set := patch.SetUpdates()

	assert.Equal(t, value, set["value"])
	assert.NotContains(t, set, "recordType")
	assert.NotContains(t, set, "notes")
}
