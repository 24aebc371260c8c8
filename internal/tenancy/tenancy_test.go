package tenancy_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/liftdesk/liftdesk/internal/apperr"
	"github.com/liftdesk/liftdesk/internal/db"
	"github.com/liftdesk/liftdesk/internal/identity"
	"github.com/liftdesk/liftdesk/internal/models"
	"github.com/liftdesk/liftdesk/internal/tenancy"
)

func setup(t *testing.T) (*gorm.DB, *identity.Service, *tenancy.Resolver) {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "tenancy_test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	idp := identity.NewService(conn, time.Hour)
	return conn, idp, tenancy.NewResolver(conn, idp)
}

func signup(t *testing.T, idp *identity.Service, email string) *models.Session {
	t.Helper()
	ctx := context.Background()
	if _, err := idp.Register(ctx, "Owner", email, "hunter2secret"); err != nil {
		t.Fatalf("register: %v", err)
	}
	sess, err := idp.Login(ctx, email, "hunter2secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	return sess
}

func TestResolveSessionRejectsBadToken(t *testing.T) {
	_, _, res := setup(t)

	for _, token := range []string{"", "bogus"} {
		_, err := res.ResolveSession(context.Background(), token)
		var ae *apperr.Error
		if !errors.As(err, &ae) || ae.Status() != 401 {
			t.Errorf("token %q: got %v, want unauthorized", token, err)
		}
	}
}

func TestOnboardingStatusIsMonotone(t *testing.T) {
	_, idp, res := setup(t)
	ctx := context.Background()

	// No token at all.
	st := res.CheckOnboardingStatus(ctx, "")
	if st.HasIdentity || st.HasOrganization || st.HasBusiness || st.HasGym {
		t.Errorf("anonymous status not all-false: %+v", st)
	}

	sess := signup(t, idp, "owner@example.com")

	// Identity only.
	st = res.CheckOnboardingStatus(ctx, sess.Token)
	if !st.HasIdentity || st.HasOrganization {
		t.Errorf("pre-onboarding status wrong: %+v", st)
	}

	if err := res.CompleteOnboarding(ctx, sess, tenancy.OnboardingInput{
		BusinessName: "Iron Works", GymName: "Iron Works Downtown",
	}); err != nil {
		t.Fatalf("onboarding: %v", err)
	}

	st = res.CheckOnboardingStatus(ctx, sess.Token)
	if !(st.HasIdentity && st.HasOrganization && st.HasBusiness && st.HasGym) {
		t.Errorf("post-onboarding status not all-true: %+v", st)
	}
}

func TestCompleteOnboardingBuildsScope(t *testing.T) {
	_, idp, res := setup(t)
	ctx := context.Background()

	sess := signup(t, idp, "owner@example.com")
	if err := res.CompleteOnboarding(ctx, sess, tenancy.OnboardingInput{
		BusinessName: "Iron Works", GymName: "Iron Works Downtown",
	}); err != nil {
		t.Fatalf("onboarding: %v", err)
	}

	sc, err := res.ResolveScope(ctx, sess.Token)
	if err != nil {
		t.Fatalf("resolve scope: %v", err)
	}
	if sc.Business.Name != "Iron Works" {
		t.Errorf("business name = %q", sc.Business.Name)
	}
	if len(sc.Gyms) != 1 || sc.Gyms[0].Name != "Iron Works Downtown" {
		t.Fatalf("gyms = %+v, want the one created at onboarding", sc.Gyms)
	}
	if !sc.OwnsGym(sc.Gyms[0].ID) {
		t.Error("OwnsGym rejects the scope's own gym")
	}
	if sc.OwnsGym("someone-elses-gym") {
		t.Error("OwnsGym accepts a foreign id")
	}
}

func TestResolveScopeFailsClosedWithoutOrganization(t *testing.T) {
	_, idp, res := setup(t)
	ctx := context.Background()

	sess := signup(t, idp, "owner@example.com")
	_, err := res.ResolveScope(ctx, sess.Token)
	if !errors.Is(err, tenancy.ErrNoActiveOrganization) {
		t.Fatalf("got %v, want ErrNoActiveOrganization", err)
	}
}

func TestScopesAreDisjointBetweenTenants(t *testing.T) {
	_, idp, res := setup(t)
	ctx := context.Background()

	a := signup(t, idp, "a@example.com")
	b := signup(t, idp, "b@example.com")
	for sessName, sess := range map[string]*models.Session{"a": a, "b": b} {
		if err := res.CompleteOnboarding(ctx, sess, tenancy.OnboardingInput{
			BusinessName: "Biz " + sessName, GymName: "Gym " + sessName,
		}); err != nil {
			t.Fatalf("onboarding %s: %v", sessName, err)
		}
	}

	scA, err := res.ResolveScope(ctx, a.Token)
	if err != nil {
		t.Fatalf("scope a: %v", err)
	}
	scB, err := res.ResolveScope(ctx, b.Token)
	if err != nil {
		t.Fatalf("scope b: %v", err)
	}
	if scA.Business.ID == scB.Business.ID {
		t.Fatal("two tenants resolved the same business")
	}
	if scA.OwnsGym(scB.Gyms[0].ID) || scB.OwnsGym(scA.Gyms[0].ID) {
		t.Error("gym ownership leaks across tenants")
	}
}
