package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/liftdesk/liftdesk/internal/handlers"
)

// Router wires the JSON API. Owner routes resolve the full tenant scope;
// member routes only need a live session.
func Router(h *handlers.Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(handlers.RequestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handlers.Health)

	r.Route("/api/auth", func(ar chi.Router) {
		ar.Post("/register", h.Register)
		ar.Post("/login", h.Login)
		ar.With(h.RequireSession).Post("/logout", h.Logout)
	})

	r.Route("/api/onboarding", func(or chi.Router) {
		or.Get("/status", h.OnboardingStatus)
		or.With(h.RequireSession).Post("/complete", h.CompleteOnboarding)
	})

	r.Route("/api/owner", func(ow chi.Router) {
		ow.Use(h.RequireSession)
		ow.Use(h.RequireScope)

		ow.Route("/gyms", func(gr chi.Router) {
			gr.Get("/", h.ListGyms)
			gr.Post("/", h.CreateGym)
			gr.Get("/{gymID}", h.GetGym)
			gr.Patch("/{gymID}", h.UpdateGym)
			gr.Put("/{gymID}/active", h.SetGymActive)
			gr.Delete("/{gymID}", h.DeleteGym)

			gr.Get("/{gymID}/members", h.ListGymMembers)
			gr.Post("/{gymID}/members", h.CreateMember)
			gr.Get("/{gymID}/trainers", h.ListGymTrainers)
			gr.Post("/{gymID}/trainers", h.CreateTrainer)
			gr.Get("/{gymID}/schedules", h.ListGymSchedules)
			gr.Post("/{gymID}/schedules", h.CreateSchedule)
			gr.Post("/{gymID}/class-types", h.CreateClassType)
			gr.Post("/{gymID}/pt-packages", h.CreatePTPackage)
		})

		ow.Route("/members", func(mr chi.Router) {
			mr.Get("/", h.ListAllMembers)
			mr.Get("/{id}", h.GetMember)
			mr.Patch("/{id}", h.UpdateMember)
			mr.Put("/{id}/status", h.UpdateMemberStatus)
			mr.Delete("/{id}", h.DeleteMember)
			mr.Post("/{id}/check-ins", h.RecordCheckIn)
			mr.Get("/{id}/check-ins", h.ListCheckIns)
			mr.Get("/{id}/bookings", h.ListMemberBookings)
		})

		ow.Route("/trainers", func(tr chi.Router) {
			tr.Get("/", h.ListAllTrainers)
			tr.Patch("/{id}", h.UpdateTrainer)
			tr.Put("/{id}/active", h.SetTrainerActive)
			tr.Delete("/{id}", h.DeleteTrainer)
		})

		ow.Get("/class-types", h.ListClassTypes)
		ow.Delete("/class-types/{id}", h.DeleteClassType)
		ow.Get("/schedules", h.ListAllSchedules)
		ow.Delete("/schedules/{id}", h.DeleteSchedule)
		ow.Put("/bookings/{id}/attendance", h.SetAttendance)

		ow.Route("/billing", func(br chi.Router) {
			br.Get("/plans", h.ListPlans)
			br.Post("/plans", h.CreatePlan)
			br.Delete("/plans/{id}", h.DeletePlan)
			br.Get("/pt-packages", h.ListPTPackages)
			br.Delete("/pt-packages/{id}", h.DeletePTPackage)
			br.Get("/payments", h.ListPayments)
			br.Post("/payments", h.RecordPayment)
		})
	})

	r.Route("/api/member", func(mr chi.Router) {
		mr.Use(h.RequireSession)

		mr.Post("/link", h.LinkMembership)
		mr.Get("/profile", h.MemberProfile)
		mr.Get("/card.png", h.MembershipCard)
		mr.Get("/schedules", h.MemberSchedules)
		mr.Get("/trainers", h.MemberTrainers)
		mr.Get("/bookings", h.MyBookings)
		mr.Post("/bookings", h.BookClass)
		mr.Post("/bookings/{id}/cancel", h.CancelBooking)
	})

	return r
}
