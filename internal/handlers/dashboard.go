package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/petvetapp/petvet-backend/internal/database"
	"github.com/petvetapp/petvet-backend/internal/middleware"
	"github.com/petvetapp/petvet-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const dashboardAppointmentLimit = 5

// DashboardAppointment is an appointment shaped for the dashboard cards.
type DashboardAppointment struct {
	models.AppointmentView
	TypeLabel string `json:"typeLabel"`
	Display   string `json:"display"`
}

// HealthDataPoint is one month of health record activity.
type HealthDataPoint struct {
	Month string `json:"month"`
	Value int    `json:"value"`
}

// GetDashboardData handles GET /api/dashboard: a single aggregate read for
// the landing screen. Pets and health records are always scoped to the
// caller's own pets; the appointment list follows the caller's role.
func GetDashboardData(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)
	ctx := r.Context()

	petsCur, err := database.DB.Collection(database.PetsCollection).
		Find(ctx, bson.M{"owner": user.ID})
	if err != nil {
		serverError(w, err)
		return
	}
	pets := []models.Pet{}
	if err := petsCur.All(ctx, &pets); err != nil {
		serverError(w, err)
		return
	}

	apptFilter := bson.M{"owner": user.ID}
	if user.Role == models.RoleVeterinarian {
		apptFilter = bson.M{"veterinarian": user.ID}
	}
	apptCur, err := database.DB.Collection(database.AppointmentsCollection).
		Find(ctx, apptFilter, options.Find().
			SetSort(bson.D{{Key: "date", Value: 1}}).
			SetLimit(dashboardAppointmentLimit))
	if err != nil {
		serverError(w, err)
		return
	}
	var appointments []models.Appointment
	if err := apptCur.All(ctx, &appointments); err != nil {
		serverError(w, err)
		return
	}

	views, err := appointmentViews(ctx, appointments)
	if err != nil {
		serverError(w, err)
		return
	}
	formatted := make([]DashboardAppointment, 0, len(views))
	for _, v := range views {
		formatted = append(formatted, DashboardAppointment{
			AppointmentView: v,
			TypeLabel:       appointmentTypeLabel(v.Type),
			Display:         appointmentDisplay(v.Date, v.Time),
		})
	}

	pendingCount, err := database.DB.Collection(database.AppointmentsCollection).
		CountDocuments(ctx, mergeFilter(apptFilter, bson.M{"status": models.StatusPending}))
	if err != nil {
		serverError(w, err)
		return
	}

	petIDs := make([]primitive.ObjectID, 0, len(pets))
	for _, p := range pets {
		petIDs = append(petIDs, p.ID)
	}

	records := []models.HealthRecord{}
	if len(petIDs) > 0 {
		recCur, err := database.DB.Collection(database.HealthRecordsCollection).
			Find(ctx, bson.M{"pet": bson.M{"$in": petIDs}}, options.Find().
				SetSort(bson.D{{Key: "date", Value: -1}}).
				SetLimit(10))
		if err != nil {
			serverError(w, err)
			return
		}
		if err := recCur.All(ctx, &records); err != nil {
			serverError(w, err)
			return
		}
	}

	unread, err := database.DB.Collection(database.MessagesCollection).
		CountDocuments(ctx, bson.M{"receiver": user.ID, "isRead": false})
	if err != nil {
		serverError(w, err)
		return
	}

	healthData := []HealthDataPoint{}
	if len(petIDs) > 0 {
		healthData, err = monthlyRecordActivity(r, petIDs, time.Now().UTC())
		if err != nil {
			serverError(w, err)
			return
		}
	} else {
		healthData = monthlySeries(nil, time.Now().UTC())
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"pets":                pets,
		"appointments":        formatted,
		"pendingAppointments": pendingCount,
		"healthRecords":       records,
		"unreadMessagesCount": unread,
		"healthData":          healthData,
		"activityPercentage":  52,
		"sleepPercentage":     68,
		"wellnessPercentage":  82,
	})
}

func appointmentTypeLabel(t string) string {
	if t == "" {
		return ""
	}
	return strings.ToUpper(t[:1]) + t[1:]
}

func appointmentDisplay(date time.Time, timeOfDay string) string {
	day := date.Format("Jan 2, 2006")
	if timeOfDay == "" {
		return day
	}
	return fmt.Sprintf("%s · %s", day, timeOfDay)
}

func mergeFilter(base, extra bson.M) bson.M {
	merged := bson.M{}
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}

// monthlyRecordActivity counts health records per calendar month across the
// trailing twelve months.
func monthlyRecordActivity(r *http.Request, petIDs []primitive.ObjectID, now time.Time) ([]HealthDataPoint, error) {
	since := monthStart(now).AddDate(0, -11, 0)
	cur, err := database.DB.Collection(database.HealthRecordsCollection).
		Find(r.Context(), bson.M{
			"pet":  bson.M{"$in": petIDs},
			"date": bson.M{"$gte": since},
		})
	if err != nil {
		return nil, err
	}
	defer cur.Close(r.Context())

	var records []models.HealthRecord
	if err := cur.All(r.Context(), &records); err != nil {
		return nil, err
	}

	dates := make([]time.Time, 0, len(records))
	for _, rec := range records {
		dates = append(dates, rec.Date)
	}
	return monthlySeries(dates, now), nil
}

// monthlySeries buckets the given timestamps into the trailing twelve calendar
// months ending at now, oldest month first. Months with no entries stay zero.
func monthlySeries(dates []time.Time, now time.Time) []HealthDataPoint {
	start := monthStart(now).AddDate(0, -11, 0)

	counts := map[string]int{}
	for _, d := range dates {
		counts[d.UTC().Format("2006-01")]++
	}

	points := make([]HealthDataPoint, 0, 12)
	for i := 0; i < 12; i++ {
		m := start.AddDate(0, i, 0)
		points = append(points, HealthDataPoint{
			Month: m.Format("Jan"),
			Value: counts[m.Format("2006-01")],
		})
	}
	return points
}

func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
