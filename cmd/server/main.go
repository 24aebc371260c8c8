package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/liftdesk/liftdesk/internal/billing"
	"github.com/liftdesk/liftdesk/internal/booking"
	"github.com/liftdesk/liftdesk/internal/class"
	"github.com/liftdesk/liftdesk/internal/config"
	"github.com/liftdesk/liftdesk/internal/db"
	"github.com/liftdesk/liftdesk/internal/gym"
	"github.com/liftdesk/liftdesk/internal/handlers"
	"github.com/liftdesk/liftdesk/internal/identity"
	"github.com/liftdesk/liftdesk/internal/logging"
	"github.com/liftdesk/liftdesk/internal/member"
	"github.com/liftdesk/liftdesk/internal/tenancy"
	"github.com/liftdesk/liftdesk/internal/trainer"
	"github.com/liftdesk/liftdesk/internal/web"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	conn, err := db.Open(cfg.DatabasePath)
	if err != nil {
		slog.Error("db open", "error", err)
		os.Exit(1)
	}
	ttl, err := time.ParseDuration(cfg.SessionTTL)
	if err != nil {
		slog.Error("invalid SESSION_TTL", "value", cfg.SessionTTL, "error", err)
		os.Exit(1)
	}

	idp := identity.NewService(conn, ttl)
	h := &handlers.Handlers{
		Identity: idp,
		Tenancy:  tenancy.NewResolver(conn, idp),
		Gyms:     gym.NewService(conn),
		Members:  member.NewService(conn),
		Classes:  class.NewService(conn),
		Bookings: booking.NewService(conn),
		Trainers: trainer.NewService(conn),
		Billing:  billing.NewService(conn),
	}

	slog.Info("liftdesk listening", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, web.Router(h)); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
