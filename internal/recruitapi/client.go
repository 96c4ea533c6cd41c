// Package recruitapi is the HTTP client for the recruitment backend: the
// access-code check consumed by the gate, and the multipart submission of the
// filled form.
package recruitapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/hrinsight/onboardform/internal/models"
)

// Paths of the two consumed endpoints, relative to the backend base URL.
const (
	CheckCodePath       = "/api/v1/recruitment-management/check-code-enter-information"
	FillInformationPath = "/api/v1/recruitment-management/fill-information-pre-employee"
)

// Fixed part names of the multipart submission body. They differ from the
// form's internal field names on purpose: the backend names the certificate
// part "degree".
const (
	PartData     = "data"
	PartFront    = "front"
	PartBack     = "back"
	PartPortrait = "portrait"
	PartSelfie   = "selfie"
	PartDegree   = "degree"
)

// Client talks to the recruitment backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the backend at baseURL. A nil httpClient
// uses http.DefaultClient, so whatever transport default timeout applies.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// StatusError reports a non-2xx response from the backend.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API call failed with status: %d", e.StatusCode)
}

type checkCodeResponse struct {
	Result bool `json:"result"`
}

// CheckCode asks the backend whether the one-time access code is valid.
// Any transport failure or non-2xx status is an error; the caller decides
// that every failure collapses into "invalid".
func (c *Client) CheckCode(ctx context.Context, code string) (bool, error) {
	u := c.baseURL + CheckCodePath + "?code=" + url.QueryEscape(code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false, errors.Wrap(err, "building code check request")
	}
	req.Header.Set("Accept", "*/*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, errors.Wrap(err, "checking access code")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, &StatusError{StatusCode: resp.StatusCode}
	}

	var body checkCodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, errors.Wrap(err, "parsing code check response")
	}
	slog.Info("Code check response", "result", body.Result)
	return body.Result, nil
}

// Attachments are the binary parts of a submission, keyed by their role.
// Degree is optional; the rest must be present on a validated form.
type Attachments struct {
	Front    *models.Attachment
	Back     *models.Attachment
	Portrait *models.Attachment
	Selfie   *models.Attachment
	Degree   *models.Attachment
}

// AttachmentsFromForm maps the form's attachment fields onto their part roles.
func AttachmentsFromForm(fs *models.FormState) Attachments {
	return Attachments{
		Front:    fs.FrontIDCard,
		Back:     fs.BackIDCard,
		Portrait: fs.Portrait,
		Selfie:   fs.Selfie,
		Degree:   fs.Certificate,
	}
}

// SubmitResult is the backend's response to a successful submission. Its
// shape is opaque beyond being parseable JSON.
type SubmitResult struct {
	Body map[string]any
}

// Submit POSTs the multipart payload to the backend, with the access code as
// a query parameter. Exactly one network call is made; there are no retries.
func (c *Client) Submit(ctx context.Context, code string, rec *PreEmployeeRecord, atts Attachments) (*SubmitResult, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	data, err := json.Marshal(rec)
	if err != nil {
		return nil, errors.Wrap(err, "encoding submission record")
	}
	if err := w.WriteField(PartData, string(data)); err != nil {
		return nil, errors.Wrap(err, "writing data part")
	}

	parts := []struct {
		name string
		att  *models.Attachment
	}{
		{PartFront, atts.Front},
		{PartBack, atts.Back},
		{PartPortrait, atts.Portrait},
		{PartSelfie, atts.Selfie},
		{PartDegree, atts.Degree},
	}
	for _, p := range parts {
		if p.att == nil {
			continue
		}
		if err := writeFilePart(w, p.name, p.att); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrap(err, "finishing multipart body")
	}

	u := c.baseURL + FillInformationPath + "?code=" + url.QueryEscape(code)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, &buf)
	if err != nil {
		return nil, errors.Wrap(err, "building submission request")
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "submitting form")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	result := &SubmitResult{}
	if err := json.NewDecoder(resp.Body).Decode(&result.Body); err != nil {
		return nil, errors.Wrap(err, "parsing submission response")
	}
	slog.Info("Form submitted", "status", resp.StatusCode)
	return result, nil
}

func writeFilePart(w *multipart.Writer, name string, att *models.Attachment) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, name, att.Name))
	contentType := att.MIMEType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return errors.Wrapf(err, "creating part %s", name)
	}
	if _, err := part.Write(att.Content); err != nil {
		return errors.Wrapf(err, "writing part %s", name)
	}
	return nil
}
