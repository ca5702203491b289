package handlers

import (
	"testing"
	"time"

	"github.com/petvetapp/petvet-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseDate(t *testing.T) {
	got, err := parseDate("2026-03-14")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), got)

	got, err = parseDate("2026-03-14T09:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC), got)

	_, err = parseDate("14/03/2026")
	assert.Error(t, err)
	_, err = parseDate("")
	assert.Error(t, err)
}

func TestParseIDRejectsMalformedHex(t *testing.T) {
	_, ok := parseID("not-a-hex-id")
	assert.False(t, ok)

	id := primitive.NewObjectID()
	parsed, ok := parseID(id.Hex())
	assert.True(t, ok)
	assert.Equal(t, id, parsed)
}

func TestLatestMessagePerPeer(t *testing.T) {
	caller := primitive.NewObjectID()
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()

	newest := time.Now().UTC()
	// Input arrives newest first, as the conversations query sorts it.
	messages := []models.Message{
		{Sender: alice, Receiver: caller, Content: "alice newest", CreatedAt: newest, IsRead: false},
		{Sender: caller, Receiver: bob, Content: "bob newest", CreatedAt: newest.Add(-time.Minute)},
		{Sender: caller, Receiver: alice, Content: "alice older", CreatedAt: newest.Add(-2 * time.Minute)},
		{Sender: bob, Receiver: caller, Content: "bob older", CreatedAt: newest.Add(-3 * time.Minute)},
	}

	peers, latest := latestMessagePerPeer(caller, messages)

	require.Len(t, peers, 2)
	assert.Equal(t, alice, peers[0], "most recent conversation first")
	assert.Equal(t, bob, peers[1])
	assert.Equal(t, "alice newest", latest[alice].Content)
	assert.Equal(t, "bob newest", latest[bob].Content)
	assert.False(t, latest[alice].IsRead)
}

func TestLatestMessagePerPeerEmpty(t *testing.T) {
	peers, latest := latestMessagePerPeer(primitive.NewObjectID(), nil)
	assert.Empty(t, peers)
	assert.Empty(t, latest)
}

func TestAppointmentTypeLabel(t *testing.T) {
	assert.Equal(t, "Check-up", appointmentTypeLabel("check-up"))
	assert.Equal(t, "Surgery", appointmentTypeLabel("surgery"))
	assert.Equal(t, "", appointmentTypeLabel(""))
}

func TestAppointmentDisplay(t *testing.T) {
	date := time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "Sep 3, 2026 · 14:30", appointmentDisplay(date, "14:30"))
	assert.Equal(t, "Sep 3, 2026", appointmentDisplay(date, ""))
}

func TestMonthlySeries(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	dates := []time.Time{
		time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 9, 2, 0, 0, 0, 0, time.UTC),
	}

	points := monthlySeries(dates, now)

	require.Len(t, points, 12)
	assert.Equal(t, "Sep", points[0].Month, "window starts eleven months back")
	assert.Equal(t, 1, points[0].Value)
	assert.Equal(t, "Aug", points[11].Month)
	assert.Equal(t, 2, points[11].Value)

	total := 0
	for _, p := range points {
		total += p.Value
	}
	assert.Equal(t, 3, total)
}

func TestMonthlySeriesNoRecords(t *testing.T) {
	points := monthlySeries(nil, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC))
	require.Len(t, points, 12)
	for _, p := range points {
		assert.Zero(t, p.Value)
	}
	assert.Equal(t, "Feb", points[0].Month)
	assert.Equal(t, "Jan", points[11].Month)
}

func TestHealthStatsPayloadIsFlat(t *testing.T) {
	records := []models.HealthRecord{{RecordType: models.RecordWeight, Value: "12.5kg"}}

	payload := healthStatsPayload(records)

	// Summary percentages sit beside the records, not under a nested object.
	assert.Equal(t, "25%", payload["weight"])
	assert.Equal(t, "70%", payload["nutrition"])
	assert.Equal(t, "52%", payload["activity"])
	assert.Equal(t, records, payload["records"])
	assert.NotContains(t, payload, "summary")
}

func TestMergeFilter(t *testing.T) {
	merged := mergeFilter(
		bson.M{"owner": "a"},
		bson.M{"status": models.StatusPending},
	)
	assert.Equal(t, "a", merged["owner"])
	assert.Equal(t, models.StatusPending, merged["status"])
}
