// Package handlers is the JSON transport over the domain services. It
// decodes, validates, delegates and encodes; the presentation contract is
// plain data objects in, {"success":true,...} or {"error":...} out.
package handlers

import (
	"net/http"

	"github.com/liftdesk/liftdesk/internal/billing"
	"github.com/liftdesk/liftdesk/internal/booking"
	"github.com/liftdesk/liftdesk/internal/class"
	"github.com/liftdesk/liftdesk/internal/gym"
	"github.com/liftdesk/liftdesk/internal/identity"
	"github.com/liftdesk/liftdesk/internal/member"
	"github.com/liftdesk/liftdesk/internal/tenancy"
	"github.com/liftdesk/liftdesk/internal/trainer"
)

type Handlers struct {
	Identity *identity.Service
	Tenancy  *tenancy.Resolver
	Gyms     *gym.Service
	Members  *member.Service
	Classes  *class.Service
	Bookings *booking.Service
	Trainers *trainer.Service
	Billing  *billing.Service
}

func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
