package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/petvetapp/petvet-backend/internal/handlers"
	"github.com/petvetapp/petvet-backend/internal/middleware"
)

func SetupRoutes(r *chi.Mux) {
	// Public auth routes
	r.Post("/api/users", handlers.RegisterUser)
	r.Post("/api/users/login", handlers.LoginUser)

	// Everything else requires a valid bearer token
	r.Group(func(r chi.Router) {
		r.Use(middleware.Protect)

		// User profile & onboarding
		r.Get("/api/users/profile", handlers.GetUserProfile)
		r.Put("/api/users/profile", handlers.UpdateUserProfile)
		r.Put("/api/users/onboarding/step1", handlers.CompleteOnboardingStep1)

		// Pets
		r.Post("/api/pets", handlers.AddPet)
		r.Get("/api/pets", handlers.GetPets)
		r.Get("/api/pets/{id}", handlers.GetPetByID)
		r.Put("/api/pets/{id}", handlers.UpdatePet)
		r.Delete("/api/pets/{id}", handlers.DeletePet)

		// Appointments
		r.Post("/api/appointments", handlers.CreateAppointment)
		r.Get("/api/appointments", handlers.GetAppointments)
		r.Get("/api/appointments/{id}", handlers.GetAppointmentByID)
		r.Put("/api/appointments/{id}", handlers.UpdateAppointment)
		r.Delete("/api/appointments/{id}", handlers.DeleteAppointment)

		// Health records
		r.Post("/api/health-records", handlers.CreateHealthRecord)
		r.Get("/api/health-records/pet/{petId}", handlers.GetHealthRecordsByPet)
		r.Get("/api/health-records/stats/{petId}", handlers.GetHealthStats)
		r.Get("/api/health-records/{id}", handlers.GetHealthRecordByID)
		r.Put("/api/health-records/{id}", handlers.UpdateHealthRecord)
		r.Delete("/api/health-records/{id}", handlers.DeleteHealthRecord)

		// Messages
		r.Post("/api/messages", handlers.SendMessage)
		r.Get("/api/messages", handlers.GetMessages)
		r.Get("/api/messages/conversations", handlers.GetConversations)
		r.Put("/api/messages/read", handlers.MarkMessagesRead)

		// Dashboard aggregate
		r.Get("/api/dashboard", handlers.GetDashboardData)

		// File upload
		r.Post("/api/upload", handlers.UploadFile)
	})

	// WebSocket endpoint for realtime message delivery (authenticates inline
	// so browser clients can pass the token as a query parameter)
	r.Get("/ws/messages", handlers.MessagesWebSocket)
}
