package recruitapi

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/hrinsight/onboardform/internal/models"
)

func TestCheckCodeValid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != CheckCodePath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("code"); got != "ABC123" {
			t.Errorf("unexpected code %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result":true}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	ok, err := c.CheckCode(context.Background(), "ABC123")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected code to be accepted")
	}
}

func TestCheckCodeRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":false}`))
	}))
	defer srv.Close()

	ok, err := NewClient(srv.URL, nil).CheckCode(context.Background(), "WRONG")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected code to be rejected")
	}
}

func TestCheckCodeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, nil).CheckCode(context.Background(), "ANY")
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.StatusCode != http.StatusInternalServerError {
		t.Errorf("unexpected status %d", se.StatusCode)
	}
	if se.Error() != "API call failed with status: 500" {
		t.Errorf("unexpected message %q", se.Error())
	}
}

func TestSubmitMultipartShape(t *testing.T) {
	var gotRecord PreEmployeeRecord
	var gotParts map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != FillInformationPath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("code"); got != "ABC123" {
			t.Errorf("unexpected code %q", got)
		}
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Fatalf("body is not multipart: %v", err)
		}
		if err := json.Unmarshal([]byte(r.FormValue(PartData)), &gotRecord); err != nil {
			t.Fatalf("data part is not the record: %v", err)
		}
		gotParts = map[string]string{}
		for name, headers := range r.MultipartForm.File {
			f, err := headers[0].Open()
			if err != nil {
				t.Fatal(err)
			}
			content, _ := io.ReadAll(f)
			f.Close()
			gotParts[name] = headers[0].Filename + ":" + string(content)
		}
		w.Write([]byte(`{"result":{"preEmployeesId":"PE00123"}}`))
	}))
	defer srv.Close()

	fs := buildForm()
	fs.FrontIDCard = &models.Attachment{Name: "front.jpg", Size: 5, MIMEType: "image/jpeg", Content: []byte("FRONT")}
	fs.BackIDCard = &models.Attachment{Name: "back.jpg", Size: 4, MIMEType: "image/jpeg", Content: []byte("BACK")}
	fs.Portrait = &models.Attachment{Name: "portrait.jpg", Size: 3, MIMEType: "image/jpeg", Content: []byte("POR")}
	fs.Selfie = &models.Attachment{Name: "selfie.jpg", Size: 3, MIMEType: "image/jpeg", Content: []byte("SEL")}

	rec, err := BuildRecord(fs, buildNow, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	res, err := NewClient(srv.URL, nil).Submit(context.Background(), "ABC123", rec, AttachmentsFromForm(fs))
	if err != nil {
		t.Fatal(err)
	}
	if res.Body["result"] == nil {
		t.Error("expected parsed response body")
	}
	if gotRecord.FullName != fs.FullName || !gotRecord.FillEnabled {
		t.Errorf("record did not survive the wire: %+v", gotRecord)
	}
	for name, want := range map[string]string{
		PartFront:    "front.jpg:FRONT",
		PartBack:     "back.jpg:BACK",
		PartPortrait: "portrait.jpg:POR",
		PartSelfie:   "selfie.jpg:SEL",
	} {
		if gotParts[name] != want {
			t.Errorf("part %s: got %q, want %q", name, gotParts[name], want)
		}
	}
	if _, ok := gotParts[PartDegree]; ok {
		t.Error("absent certificate must not produce a degree part")
	}
}

func TestSubmitCertificateBecomesDegreePart(t *testing.T) {
	found := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Fatal(err)
		}
		_, found = r.MultipartForm.File[PartDegree]
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	fs := buildForm()
	fs.Certificate = &models.Attachment{Name: "degree.pdf", Size: 3, MIMEType: "application/pdf", Content: []byte("PDF")}
	rec, err := BuildRecord(fs, buildNow, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewClient(srv.URL, nil).Submit(context.Background(), "C", rec, AttachmentsFromForm(fs)); err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("certificate should be sent as the degree part")
	}
}

func TestSubmitServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	rec, err := BuildRecord(buildForm(), buildNow, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	_, err = NewClient(srv.URL, nil).Submit(context.Background(), "C", rec, Attachments{})
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected StatusError 502, got %v", err)
	}
}
