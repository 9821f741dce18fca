package moderation

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kai890707/my-profile-sub000/pkg/db/models"
	"github.com/kai890707/my-profile-sub000/pkg/enums"
	pkgerrors "github.com/kai890707/my-profile-sub000/pkg/errors"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestEngine() (*Engine, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	return NewEngine(clock.Now), clock
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	if got := pkgerrors.As(err); got == nil || got.Code() != code {
		t.Fatalf("expected %s, got %v", code, err)
	}
}

func mustInvariants(t *testing.T, policy Policy, entity models.Moderatable) {
	t.Helper()
	if err := CheckInvariants(policy, entity); err != nil {
		t.Fatalf("invariant violated: %v", err)
	}
}

func TestSubmitStartsPending(t *testing.T) {
	engine, clock := newTestEngine()
	company := &models.Company{OwnerID: uuid.New(), Name: "Acme"}

	if err := engine.Submit(CompanyPolicy(), company, nil); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if company.Status != enums.ModerationPending {
		t.Fatalf("expected pending, got %s", company.Status)
	}
	if !company.SubmittedAt.Equal(clock.t) {
		t.Fatalf("expected submitted_at %s, got %s", clock.t, company.SubmittedAt)
	}
	if company.Version != 1 {
		t.Fatalf("expected version 1, got %d", company.Version)
	}
	mustInvariants(t, CompanyPolicy(), company)
}

func TestSubmitAutoApprovedSkipsReview(t *testing.T) {
	engine, _ := newTestEngine()
	exp := &models.Experience{OwnerID: uuid.New(), CompanyName: "Acme", Title: "Sales"}

	if err := engine.Submit(ExperiencePolicy(), exp, nil); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if exp.Status != enums.ModerationApproved {
		t.Fatalf("expected approved, got %s", exp.Status)
	}
	if exp.DecidedBy != nil || exp.DecidedAt != nil {
		t.Fatalf("auto-approved entries carry no decision")
	}
	mustInvariants(t, ExperiencePolicy(), exp)
}

func TestSubmitSingletonDuplicate(t *testing.T) {
	engine, _ := newTestEngine()
	owner := uuid.New()
	existing := &models.Company{ID: uuid.New(), OwnerID: owner, Ledger: models.Ledger{Status: enums.ModerationRejected}}

	err := engine.Submit(CompanyPolicy(), &models.Company{OwnerID: owner}, existing)
	expectCode(t, err, pkgerrors.CodeDuplicate)
}

func TestSubmitApplicationRules(t *testing.T) {
	policy := SalespersonApplicationPolicy(7 * 24 * time.Hour)
	admin := uuid.New()

	t.Run("open application blocks", func(t *testing.T) {
		engine, _ := newTestEngine()
		prior := &models.SalespersonApplication{ID: uuid.New(), Ledger: models.Ledger{Status: enums.ModerationPending}}
		expectCode(t, engine.Submit(policy, &models.SalespersonApplication{}, prior), pkgerrors.CodeDuplicate)
	})
	t.Run("approved application blocks", func(t *testing.T) {
		engine, _ := newTestEngine()
		prior := &models.SalespersonApplication{ID: uuid.New()}
		if err := engine.Submit(policy, prior, nil); err != nil {
			t.Fatalf("submit: %v", err)
		}
		if _, err := engine.Approve(policy, prior, admin); err != nil {
			t.Fatalf("approve: %v", err)
		}
		expectCode(t, engine.Submit(policy, &models.SalespersonApplication{}, prior), pkgerrors.CodeDuplicate)
	})
	t.Run("cooldown blocks then releases", func(t *testing.T) {
		engine, clock := newTestEngine()
		prior := &models.SalespersonApplication{ID: uuid.New()}
		if err := engine.Submit(policy, prior, nil); err != nil {
			t.Fatalf("submit: %v", err)
		}
		if err := engine.Reject(policy, prior, admin, "incomplete documents"); err != nil {
			t.Fatalf("reject: %v", err)
		}
		mustInvariants(t, policy, prior)
		want := clock.t.Add(policy.Cooldown)
		if prior.ReapplyNotBefore == nil || !prior.ReapplyNotBefore.Equal(want) {
			t.Fatalf("expected reapply_not_before %s, got %v", want, prior.ReapplyNotBefore)
		}

		clock.Advance(policy.Cooldown - time.Second)
		err := engine.Submit(policy, &models.SalespersonApplication{}, prior)
		expectCode(t, err, pkgerrors.CodeCooldown)
		details, _ := pkgerrors.As(err).Details().(map[string]any)
		if got, ok := details["reapply_not_before"].(time.Time); !ok || !got.Equal(want) {
			t.Fatalf("expected reapply_not_before in details, got %#v", pkgerrors.As(err).Details())
		}

		clock.Advance(time.Second)
		next := &models.SalespersonApplication{}
		if err := engine.Submit(policy, next, prior); err != nil {
			t.Fatalf("expected resubmission at cooldown end, got %v", err)
		}
		if next.Status != enums.ModerationPending {
			t.Fatalf("expected pending, got %s", next.Status)
		}
	})
}

func TestEditResetsRegardlessOfStatus(t *testing.T) {
	admin := uuid.New()
	for _, decide := range []string{"pending", "approved", "rejected"} {
		decide := decide
		t.Run(decide, func(t *testing.T) {
			engine, clock := newTestEngine()
			policy := CertificationPolicy()
			cert := &models.Certification{Name: "CFP", Issuer: "FPSB"}
			if err := engine.Submit(policy, cert, nil); err != nil {
				t.Fatalf("submit: %v", err)
			}
			switch decide {
			case "approved":
				if _, err := engine.Approve(policy, cert, admin); err != nil {
					t.Fatalf("approve: %v", err)
				}
			case "rejected":
				if err := engine.Reject(policy, cert, admin, "blurry scan"); err != nil {
					t.Fatalf("reject: %v", err)
				}
			}
			clock.Advance(time.Hour)

			previous, err := engine.Edit(policy, cert, func() error {
				cert.Name = "CFP Level 2"
				return nil
			})
			if err != nil {
				t.Fatalf("edit: %v", err)
			}
			if string(previous) != decide {
				t.Fatalf("expected previous %s, got %s", decide, previous)
			}
			if cert.Status != enums.ModerationPending || cert.DecidedBy != nil || cert.DecidedAt != nil || cert.RejectionReason != nil {
				t.Fatalf("edit must clear the ledger, got %+v", cert.Ledger)
			}
			if !cert.SubmittedAt.Equal(clock.t) {
				t.Fatalf("edit should restamp submitted_at")
			}
			if cert.Name != "CFP Level 2" {
				t.Fatalf("patch not applied")
			}
			mustInvariants(t, policy, cert)
		})
	}
}

func TestEditAutoApprovedStaysApproved(t *testing.T) {
	engine, _ := newTestEngine()
	policy := ExperiencePolicy()
	exp := &models.Experience{Title: "Rep"}
	if err := engine.Submit(policy, exp, nil); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := engine.Edit(policy, exp, func() error { exp.Title = "Senior Rep"; return nil }); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if exp.Status != enums.ModerationApproved {
		t.Fatalf("expected approved, got %s", exp.Status)
	}
	mustInvariants(t, policy, exp)
}

func TestEditPatchErrorLeavesLedger(t *testing.T) {
	engine, _ := newTestEngine()
	policy := CompanyPolicy()
	company := &models.Company{}
	if err := engine.Submit(policy, company, nil); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := engine.Approve(policy, company, uuid.New()); err != nil {
		t.Fatalf("approve: %v", err)
	}
	_, err := engine.Edit(policy, company, func() error {
		return pkgerrors.New(pkgerrors.CodeValidation, "bad tax id")
	})
	expectCode(t, err, pkgerrors.CodeValidation)
	if company.Status != enums.ModerationApproved {
		t.Fatalf("failed patch must not reset ledger")
	}
}

func TestEditDuringCooldownBlocked(t *testing.T) {
	engine, clock := newTestEngine()
	policy := SalespersonApplicationPolicy(48 * time.Hour)
	app := &models.SalespersonApplication{FullName: "Lin"}
	if err := engine.Submit(policy, app, nil); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := engine.Reject(policy, app, uuid.New(), "missing phone"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	_, err := engine.Edit(policy, app, func() error { return nil })
	expectCode(t, err, pkgerrors.CodeCooldown)

	clock.Advance(48 * time.Hour)
	if _, err := engine.Edit(policy, app, nil); err != nil {
		t.Fatalf("edit after cooldown: %v", err)
	}
	if app.ReapplyNotBefore != nil || app.Status != enums.ModerationPending {
		t.Fatalf("expected cleared pending ledger, got %+v", app.Ledger)
	}
}

func TestApproveIsIdempotent(t *testing.T) {
	engine, clock := newTestEngine()
	policy := CompanyPolicy()
	company := &models.Company{}
	if err := engine.Submit(policy, company, nil); err != nil {
		t.Fatalf("submit: %v", err)
	}
	first := uuid.New()
	changed, err := engine.Approve(policy, company, first)
	if err != nil || !changed {
		t.Fatalf("first approve changed=%v err=%v", changed, err)
	}
	decidedAt := *company.DecidedAt

	clock.Advance(time.Minute)
	changed, err = engine.Approve(policy, company, uuid.New())
	if err != nil {
		t.Fatalf("second approve: %v", err)
	}
	if changed {
		t.Fatal("second approve must not change the ledger")
	}
	if *company.DecidedBy != first || !company.DecidedAt.Equal(decidedAt) {
		t.Fatalf("second approve rewrote stamps: %+v", company.Ledger)
	}
	mustInvariants(t, policy, company)
}

func TestApproveAfterRejectClearsReason(t *testing.T) {
	engine, _ := newTestEngine()
	policy := SalespersonApplicationPolicy(time.Hour)
	app := &models.SalespersonApplication{}
	if err := engine.Submit(policy, app, nil); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := engine.Reject(policy, app, uuid.New(), "no"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if _, err := engine.Approve(policy, app, uuid.New()); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if app.RejectionReason != nil || app.ReapplyNotBefore != nil {
		t.Fatalf("approve must clear rejection fields: %+v", app.Ledger)
	}
	mustInvariants(t, policy, app)
}

func TestRejectValidation(t *testing.T) {
	engine, _ := newTestEngine()
	company := &models.Company{}
	if err := engine.Submit(CompanyPolicy(), company, nil); err != nil {
		t.Fatalf("submit: %v", err)
	}
	expectCode(t, engine.Reject(CompanyPolicy(), company, uuid.New(), "   "), pkgerrors.CodeValidation)
	if company.Status != enums.ModerationPending {
		t.Fatalf("failed reject must not touch ledger")
	}

	exp := &models.Experience{}
	if err := engine.Submit(ExperiencePolicy(), exp, nil); err != nil {
		t.Fatalf("submit: %v", err)
	}
	expectCode(t, engine.Reject(ExperiencePolicy(), exp, uuid.New(), "spam"), pkgerrors.CodeStateConflict)
	changed, err := engine.Approve(ExperiencePolicy(), exp, uuid.New())
	if err != nil || changed {
		t.Fatalf("approving auto-approved entry is a no-op, changed=%v err=%v", changed, err)
	}
	mustInvariants(t, ExperiencePolicy(), exp)
}

func TestRejectStoresTrimmedReason(t *testing.T) {
	engine, _ := newTestEngine()
	company := &models.Company{}
	if err := engine.Submit(CompanyPolicy(), company, nil); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := engine.Reject(CompanyPolicy(), company, uuid.New(), "  統編重複 "); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if company.RejectionReason == nil || *company.RejectionReason != "統編重複" {
		t.Fatalf("unexpected reason %v", company.RejectionReason)
	}
	if company.ReapplyNotBefore != nil {
		t.Fatal("company has no cooldown")
	}
	mustInvariants(t, CompanyPolicy(), company)
}

func TestCanReapply(t *testing.T) {
	engine, clock := newTestEngine()
	future := clock.t.Add(time.Hour)
	past := clock.t.Add(-time.Hour)
	cases := []struct {
		name   string
		ledger models.Ledger
		want   bool
	}{
		{name: "pending", ledger: models.Ledger{Status: enums.ModerationPending}, want: true},
		{name: "rejected no cooldown", ledger: models.Ledger{Status: enums.ModerationRejected}, want: true},
		{name: "rejected future", ledger: models.Ledger{Status: enums.ModerationRejected, ReapplyNotBefore: &future}, want: false},
		{name: "rejected past", ledger: models.Ledger{Status: enums.ModerationRejected, ReapplyNotBefore: &past}, want: true},
		{name: "rejected now", ledger: models.Ledger{Status: enums.ModerationRejected, ReapplyNotBefore: &clock.t}, want: true},
	}
	for _, tc := range cases {
		if got := engine.CanReapply(&models.SalespersonApplication{Ledger: tc.ledger}); got != tc.want {
			t.Fatalf("%s: expected %v got %v", tc.name, tc.want, got)
		}
	}
}

func TestCheckInvariantsDetectsViolations(t *testing.T) {
	reason := "x"
	now := time.Now()
	admin := uuid.New()
	bad := []models.Ledger{
		{Status: enums.ModerationRejected},
		{Status: enums.ModerationApproved, DecidedBy: &admin, DecidedAt: &now, RejectionReason: &reason},
		{Status: enums.ModerationPending, RejectionReason: &reason},
		{Status: "archived"},
	}
	for i, ledger := range bad {
		if err := CheckInvariants(CompanyPolicy(), &models.Company{Ledger: ledger}); err == nil {
			t.Fatalf("case %d: expected violation", i)
		}
	}
	if err := CheckInvariants(ExperiencePolicy(), &models.Experience{Ledger: models.Ledger{Status: enums.ModerationPending}}); err == nil {
		t.Fatal("auto-approved entry must not be pending")
	}
}
