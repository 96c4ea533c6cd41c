package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/hrinsight/onboardform/internal/draft"
	"github.com/hrinsight/onboardform/internal/models"
	"github.com/hrinsight/onboardform/internal/recruitapi"
	"github.com/hrinsight/onboardform/internal/schema"
	"github.com/hrinsight/onboardform/internal/wizard"
)

// testBackend is a minimal stand-in for the recruitment API.
type testBackend struct {
	codeOK      bool
	failCheck   bool
	failSubmit  bool
	submissions int
}

func (b *testBackend) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case recruitapi.CheckCodePath:
			if b.failCheck {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			if b.codeOK {
				w.Write([]byte(`{"result":true}`))
			} else {
				w.Write([]byte(`{"result":false}`))
			}
		case recruitapi.FillInformationPath:
			if b.failSubmit {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			b.submissions++
			w.Write([]byte(`{"result":{"preEmployeesId":"PE00123"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func testSession(t *testing.T, b *testBackend) (*Session, *draft.Store) {
	t.Helper()
	srv := httptest.NewServer(b.handler())
	t.Cleanup(srv.Close)
	store, err := draft.Open(filepath.Join(t.TempDir(), "drafts.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return New(recruitapi.NewClient(srv.URL, nil), store, "employeeFormData"), store
}

func fillValid(t *testing.T, s *Session) {
	t.Helper()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(s.UpdatePersonal(PersonalSection{
		FullName:              "Nguyen Van A",
		Email:                 "a@x.com",
		BirthOfDate:           time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		GenderParamCode:       models.GenderMale,
		Phone:                 "0912345678",
		CCCD:                  "012345678901",
		DateOfIssue:           time.Date(2020, 3, 10, 0, 0, 0, 0, time.UTC),
		HealthInsuranceNumber: "0123456789",
		SocialInsuranceNumber: "0123456789",
		DependentsCount:       "0",
		Hobbies:               "football",
	}))
	must(s.UpdateAddress(AddressSection{
		PermanentAddress: "123 Tran Hung Dao, Ha Noi",
		CurrentAddress:   "45 Le Loi, Da Nang",
	}))
	must(s.UpdateFinancial(FinancialSection{
		BankAccountNumber: "12345678",
		BankName:          "BIDV",
		BankBranch:        "Ha Noi",
	}))
	must(s.SetRelative(0, models.RelativeRecord{
		FullName:              "Nguyen Van B",
		GenderParamCode:       models.GenderMale,
		Phone:                 "0912345679",
		BirthOfDate:           time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
		RelationshipParamCode: models.RelationshipFather,
	}))
	att := func(name string) *models.Attachment {
		return &models.Attachment{Name: name, Size: 10, MIMEType: "image/jpeg", Content: []byte("x")}
	}
	must(s.Attach(models.FieldFrontIDCard, att("front.jpg")))
	must(s.Attach(models.FieldBackIDCard, att("back.jpg")))
	must(s.Attach(models.FieldPortrait, att("portrait.jpg")))
	must(s.Attach(models.FieldSelfie, att("selfie.jpg")))
}

func TestGateMissingCode(t *testing.T) {
	s, _ := testSession(t, &testBackend{codeOK: true})
	err := s.Start(context.Background(), "")
	if !errors.Is(err, ErrInvalidAccessCode) {
		t.Fatalf("expected ErrInvalidAccessCode, got %v", err)
	}
	if !s.Rejected() || s.Started() {
		t.Fatal("missing code must reject the session")
	}
}

func TestGateCodeRejectedByBackend(t *testing.T) {
	s, _ := testSession(t, &testBackend{codeOK: false})
	err := s.Start(context.Background(), "WRONG")
	if !errors.Is(err, ErrInvalidAccessCode) {
		t.Fatalf("expected ErrInvalidAccessCode, got %v", err)
	}
	if !s.Rejected() {
		t.Fatal("rejected code must mark the session rejected")
	}
}

func TestGateBackendFailureCollapsesToInvalid(t *testing.T) {
	s, _ := testSession(t, &testBackend{failCheck: true})
	err := s.Start(context.Background(), "ANY")
	if !errors.Is(err, ErrInvalidAccessCode) {
		t.Fatalf("a failing check must look like an invalid code, got %v", err)
	}
}

func TestGatePassInitializesForm(t *testing.T) {
	s, _ := testSession(t, &testBackend{codeOK: true})
	if err := s.Start(context.Background(), "GOOD"); err != nil {
		t.Fatal(err)
	}
	if !s.Started() || s.Rejected() {
		t.Fatal("session should be started")
	}
	fs, err := s.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if fs.BankName != models.DefaultBankCode {
		t.Errorf("fresh form should preselect %s, got %q", models.DefaultBankCode, fs.BankName)
	}
	if len(fs.EmployeeRelatives) != 1 {
		t.Errorf("fresh form should have one blank relative, got %d", len(fs.EmployeeRelatives))
	}
	if sec, _ := s.CurrentSection(); sec != wizard.Personal {
		t.Errorf("fresh session should start on personal, got %s", sec)
	}
	if restored, _ := s.Restored(); restored {
		t.Error("nothing to restore on a fresh store")
	}
}

func TestGateRunsOnce(t *testing.T) {
	s, _ := testSession(t, &testBackend{codeOK: true})
	if err := s.Start(context.Background(), "GOOD"); err != nil {
		t.Fatal(err)
	}
	if err := s.Start(context.Background(), "GOOD"); err == nil {
		t.Fatal("second start must fail")
	}
}

func TestStartRestoresDraft(t *testing.T) {
	b := &testBackend{codeOK: true}
	s, store := testSession(t, b)

	saved := models.NewFormState()
	saved.FullName = "Trần Thị Mai"
	saved.Selfie = &models.Attachment{Name: "old-selfie.jpg", Size: 1, MIMEType: "image/jpeg"}
	if err := store.Save("employeeFormData", saved); err != nil {
		t.Fatal(err)
	}

	if err := s.Start(context.Background(), "GOOD"); err != nil {
		t.Fatal(err)
	}
	restored, names := s.Restored()
	if !restored {
		t.Fatal("expected the draft to be restored")
	}
	if names[models.FieldSelfie] != "old-selfie.jpg" {
		t.Errorf("expected the selfie name, got %v", names)
	}
	fs, _ := s.Snapshot()
	if fs.FullName != "Trần Thị Mai" {
		t.Errorf("draft fields lost: %q", fs.FullName)
	}
	if fs.Selfie != nil {
		t.Error("attachment contents must not come back from a draft")
	}
}

func TestOperationsBeforeStart(t *testing.T) {
	s, _ := testSession(t, &testBackend{codeOK: true})
	if err := s.UpdatePersonal(PersonalSection{}); !errors.Is(err, ErrNotStarted) {
		t.Errorf("expected ErrNotStarted, got %v", err)
	}
	if _, err := s.Snapshot(); !errors.Is(err, ErrNotStarted) {
		t.Errorf("expected ErrNotStarted, got %v", err)
	}
	if _, err := s.Submit(context.Background()); !errors.Is(err, ErrNotStarted) {
		t.Errorf("expected ErrNotStarted, got %v", err)
	}
}

func TestRelativeListNeverEmpty(t *testing.T) {
	s, _ := testSession(t, &testBackend{codeOK: true})
	if err := s.Start(context.Background(), "GOOD"); err != nil {
		t.Fatal(err)
	}

	if err := s.RemoveRelative(0); !errors.Is(err, ErrLastRelative) {
		t.Fatalf("removing the only relative must fail, got %v", err)
	}

	if err := s.AddRelative(); err != nil {
		t.Fatal(err)
	}
	if err := s.RemoveRelative(1); err != nil {
		t.Fatal(err)
	}
	fs, _ := s.Snapshot()
	if len(fs.EmployeeRelatives) != 1 {
		t.Fatalf("expected one relative, got %d", len(fs.EmployeeRelatives))
	}

	if err := s.RemoveRelative(5); !errors.Is(err, ErrLastRelative) {
		// With one entry the floor check fires before the range check.
		t.Fatalf("expected ErrLastRelative, got %v", err)
	}
	if err := s.AddRelative(); err != nil {
		t.Fatal(err)
	}
	if err := s.RemoveRelative(5); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestChildrenMayBeEmpty(t *testing.T) {
	s, _ := testSession(t, &testBackend{codeOK: true})
	if err := s.Start(context.Background(), "GOOD"); err != nil {
		t.Fatal(err)
	}
	if err := s.AddChild(); err != nil {
		t.Fatal(err)
	}
	if err := s.RemoveChild(0); err != nil {
		t.Fatal(err)
	}
	fs, _ := s.Snapshot()
	if len(fs.Children) != 0 {
		t.Fatalf("expected no children, got %d", len(fs.Children))
	}
}

func TestAttachRejectsBadInput(t *testing.T) {
	s, _ := testSession(t, &testBackend{codeOK: true})
	if err := s.Start(context.Background(), "GOOD"); err != nil {
		t.Fatal(err)
	}
	if err := s.Attach(models.FieldSelfie, nil); !errors.Is(err, ErrNotFileShaped) {
		t.Errorf("expected ErrNotFileShaped, got %v", err)
	}
	if err := s.Attach(models.FieldSelfie, &models.Attachment{}); !errors.Is(err, ErrNotFileShaped) {
		t.Errorf("expected ErrNotFileShaped, got %v", err)
	}
	att := &models.Attachment{Name: "x.jpg", Size: 1, MIMEType: "image/jpeg"}
	if err := s.Attach("resume", att); !errors.Is(err, ErrUnknownAttachmentField) {
		t.Errorf("expected ErrUnknownAttachmentField, got %v", err)
	}
}

func TestSubmitInvalidFormReturnsFieldErrors(t *testing.T) {
	s, _ := testSession(t, &testBackend{codeOK: true})
	if err := s.Start(context.Background(), "GOOD"); err != nil {
		t.Fatal(err)
	}
	_, err := s.Submit(context.Background())
	var verrs schema.Errors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected schema.Errors, got %v", err)
	}
	if verrs["fullName"] == "" {
		t.Errorf("expected a fullName error, got %v", verrs)
	}
	if s.Submitted() {
		t.Error("failed submit must not mark the session submitted")
	}
}

func TestSubmitSuccessSavesDraft(t *testing.T) {
	b := &testBackend{codeOK: true}
	s, store := testSession(t, b)
	if err := s.Start(context.Background(), "GOOD"); err != nil {
		t.Fatal(err)
	}
	fillValid(t, s)

	res, err := s.Submit(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res == nil || res.Body["result"] == nil {
		t.Error("expected the backend response body")
	}
	if b.submissions != 1 {
		t.Errorf("expected exactly one submission, got %d", b.submissions)
	}
	if !s.Submitted() {
		t.Error("successful submit should mark the session submitted")
	}

	d, found, err := store.Restore("employeeFormData")
	if err != nil || !found {
		t.Fatalf("expected a saved draft: %v", err)
	}
	if d.Form.FullName != "Nguyen Van A" {
		t.Errorf("saved draft lost data: %q", d.Form.FullName)
	}
	if d.AttachmentNames[models.FieldSelfie] != "selfie.jpg" {
		t.Errorf("saved draft should keep attachment names: %v", d.AttachmentNames)
	}
}

func TestSubmitBackendFailurePreservesForm(t *testing.T) {
	b := &testBackend{codeOK: true}
	s, _ := testSession(t, b)
	if err := s.Start(context.Background(), "GOOD"); err != nil {
		t.Fatal(err)
	}
	fillValid(t, s)
	b.failSubmit = true

	_, err := s.Submit(context.Background())
	var se *recruitapi.StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if s.Submitted() {
		t.Error("failed submit must not mark the session submitted")
	}

	// Retry without re-filling anything.
	b.failSubmit = false
	if _, err := s.Submit(context.Background()); err != nil {
		t.Fatalf("retry should succeed: %v", err)
	}
}

func TestClearSavedResetsForm(t *testing.T) {
	b := &testBackend{codeOK: true}
	s, store := testSession(t, b)
	if err := s.Start(context.Background(), "GOOD"); err != nil {
		t.Fatal(err)
	}
	fillValid(t, s)
	if err := s.SaveDraft(); err != nil {
		t.Fatal(err)
	}

	if err := s.ClearSaved(); err != nil {
		t.Fatal(err)
	}
	_, found, err := store.Restore("employeeFormData")
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Error("draft should be gone")
	}
	fs, _ := s.Snapshot()
	if fs.FullName != "" || fs.BankName != models.DefaultBankCode || len(fs.EmployeeRelatives) != 1 {
		t.Errorf("form should be back to its initial shape: %+v", fs)
	}
}

func TestLanguagePreference(t *testing.T) {
	s, _ := testSession(t, &testBackend{codeOK: true})
	if got := s.Language(); got.String() != "vi" {
		t.Errorf("default language should be vi, got %v", got)
	}
	if err := s.SetLanguage("en-US"); err != nil {
		t.Fatal(err)
	}
	if got := s.Language(); got.String() != "en" {
		t.Errorf("expected en, got %v", got)
	}
}
