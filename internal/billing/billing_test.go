package billing_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/liftdesk/liftdesk/internal/apperr"
	"github.com/liftdesk/liftdesk/internal/billing"
	"github.com/liftdesk/liftdesk/internal/db"
	"github.com/liftdesk/liftdesk/internal/ids"
	"github.com/liftdesk/liftdesk/internal/models"
)

type fixture struct {
	conn   *gorm.DB
	svc    *billing.Service
	bizID  string
	gym    *models.Gym
	member *models.GymMember
}

func setup(t *testing.T) *fixture {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "billing_test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	bizID := ids.New()
	g := &models.Gym{ID: ids.New(), BusinessID: bizID, Name: "Test Gym", Slug: "test-gym", IsActive: true}
	m := &models.GymMember{
		ID: ids.New(), GymID: g.ID, FirstName: "Ada", LastName: "Lovelace",
		MemberNumber: "MEM-TEST-0001", QRToken: "GYM-a-MEM-b-btest0001", Status: models.MemberActive,
	}
	for _, v := range []any{g, m} {
		if err := conn.Create(v).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return &fixture{conn: conn, svc: billing.NewService(conn), bizID: bizID, gym: g, member: m}
}

func TestCreatePlanDefaultsAndGymScope(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	p, err := f.svc.CreatePlan(ctx, f.bizID, []string{f.gym.ID}, billing.CreatePlanInput{
		Name: "Basic", PriceInCents: 4999,
	})
	if err != nil {
		t.Fatalf("create plan: %v", err)
	}
	if p.BillingPeriod != "monthly" {
		t.Errorf("billing period = %q, want default monthly", p.BillingPeriod)
	}
	if p.GymID != nil {
		t.Errorf("business-wide plan has gym id %v", *p.GymID)
	}

	// A gym outside the caller's set cannot anchor a plan.
	_, err = f.svc.CreatePlan(ctx, f.bizID, []string{f.gym.ID}, billing.CreatePlanInput{
		Name: "Rogue", PriceInCents: 100, GymID: "foreign-gym",
	})
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Status() != 404 {
		t.Fatalf("foreign gym plan: got %v, want not-found", err)
	}
}

func TestDeletePlanScopedToBusiness(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	p, err := f.svc.CreatePlan(ctx, f.bizID, []string{f.gym.ID}, billing.CreatePlanInput{
		Name: "Basic", PriceInCents: 4999,
	})
	if err != nil {
		t.Fatalf("create plan: %v", err)
	}

	err = f.svc.DeletePlan(ctx, "other-biz", p.ID)
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Status() != 404 {
		t.Fatalf("cross-business delete: got %v, want not-found", err)
	}
	if err := f.svc.DeletePlan(ctx, f.bizID, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestPTPackageDefaults(t *testing.T) {
	f := setup(t)

	p, err := f.svc.CreatePTPackage(context.Background(), f.gym.ID, billing.CreatePTPackageInput{
		Name: "10 Pack", SessionCount: 10, PriceInCents: 50000,
	})
	if err != nil {
		t.Fatalf("create package: %v", err)
	}
	if p.ValidityDays != 90 {
		t.Errorf("validity = %d, want default 90", p.ValidityDays)
	}
}

func TestRecordPayment(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	p, err := f.svc.RecordPayment(ctx, f.bizID, []string{f.gym.ID}, billing.RecordPaymentInput{
		GymMemberID: f.member.ID, AmountInCents: 4999, PaymentMethod: "cash",
	})
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}
	// Staff record money already taken, so the row is settled on insert.
	if p.Status != models.PaymentSucceeded {
		t.Errorf("status = %q, want succeeded", p.Status)
	}
	if p.PaidAt == nil {
		t.Error("paid_at not stamped")
	}
	if p.Currency != "USD" {
		t.Errorf("currency = %q", p.Currency)
	}

	// A member outside the caller's gyms behaves like a missing one.
	_, err = f.svc.RecordPayment(ctx, f.bizID, []string{"foreign-gym"}, billing.RecordPaymentInput{
		GymMemberID: f.member.ID, AmountInCents: 100, PaymentMethod: "cash",
	})
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Status() != 404 {
		t.Fatalf("cross-tenant payment: got %v, want not-found", err)
	}

	out, err := f.svc.ListPayments(ctx, []string{f.gym.ID})
	if err != nil {
		t.Fatalf("list payments: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("got %d payments, want 1", len(out))
	}
	if out[0].GymMember.ID != f.member.ID {
		t.Errorf("member not preloaded: %+v", out[0].GymMember)
	}
}

func TestRecordPaymentForeignPlan(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	foreign := &models.SubscriptionPlan{
		ID: ids.New(), BusinessID: "other-biz", Name: "Their Plan", PriceInCents: 100, BillingPeriod: "monthly",
	}
	if err := f.conn.Create(foreign).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	// A plan from another business behaves like a missing one.
	_, err := f.svc.RecordPayment(ctx, f.bizID, []string{f.gym.ID}, billing.RecordPaymentInput{
		GymMemberID: f.member.ID, SubscriptionPlanID: foreign.ID,
		AmountInCents: 4999, PaymentMethod: "cash",
	})
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Status() != 404 {
		t.Fatalf("foreign plan: got %v, want not-found", err)
	}

	mine, err := f.svc.CreatePlan(ctx, f.bizID, []string{f.gym.ID}, billing.CreatePlanInput{
		Name: "Basic", PriceInCents: 4999,
	})
	if err != nil {
		t.Fatalf("create plan: %v", err)
	}
	p, err := f.svc.RecordPayment(ctx, f.bizID, []string{f.gym.ID}, billing.RecordPaymentInput{
		GymMemberID: f.member.ID, SubscriptionPlanID: mine.ID,
		AmountInCents: 4999, PaymentMethod: "cash",
	})
	if err != nil {
		t.Fatalf("record against own plan: %v", err)
	}
	if p.SubscriptionPlanID == nil || *p.SubscriptionPlanID != mine.ID {
		t.Errorf("plan id = %v, want %s", p.SubscriptionPlanID, mine.ID)
	}
}

func TestListPaymentsNotCrowdedOutByOtherTenants(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	otherGym := &models.Gym{ID: ids.New(), BusinessID: "other-biz", Name: "Other", Slug: "other", IsActive: true}
	otherMember := &models.GymMember{
		ID: ids.New(), GymID: otherGym.ID, FirstName: "N", LastName: "B",
		MemberNumber: "MEM-TEST-0002", QRToken: "GYM-c-MEM-d-btest0002", Status: models.MemberActive,
	}
	for _, v := range []any{otherGym, otherMember} {
		if err := f.conn.Create(v).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	// One old payment for the caller, then well over a page of newer
	// payments for the neighbor.
	old := time.Now().Add(-24 * time.Hour)
	mine := &models.Payment{
		ID: ids.New(), GymMemberID: f.member.ID, AmountInCents: 4999,
		Currency: "USD", Status: models.PaymentSucceeded, PaymentMethod: "cash",
		CreatedAt: old, PaidAt: &old,
	}
	if err := f.conn.Create(mine).Error; err != nil {
		t.Fatalf("seed payment: %v", err)
	}
	for i := 0; i < 120; i++ {
		p := &models.Payment{
			ID: ids.New(), GymMemberID: otherMember.ID, AmountInCents: 100,
			Currency: "USD", Status: models.PaymentSucceeded, PaymentMethod: "card",
		}
		if err := f.conn.Create(p).Error; err != nil {
			t.Fatalf("seed neighbor payment %d: %v", i, err)
		}
	}

	out, err := f.svc.ListPayments(ctx, []string{f.gym.ID})
	if err != nil {
		t.Fatalf("list payments: %v", err)
	}
	if len(out) != 1 || out[0].ID != mine.ID {
		t.Fatalf("caller's payment crowded out: got %d rows", len(out))
	}
	for _, p := range out {
		if p.GymMember.GymID != f.gym.ID {
			t.Errorf("foreign payment %s leaked into listing", p.ID)
		}
	}
}
