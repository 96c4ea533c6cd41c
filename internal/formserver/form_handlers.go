package formserver

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hrinsight/onboardform/internal/banks"
	"github.com/hrinsight/onboardform/internal/errl"
	"github.com/hrinsight/onboardform/internal/i18n"
	"github.com/hrinsight/onboardform/internal/models"
	"github.com/hrinsight/onboardform/internal/recruitapi"
	"github.com/hrinsight/onboardform/internal/schema"
	"github.com/hrinsight/onboardform/internal/session"
	"github.com/hrinsight/onboardform/internal/wizard"
)

const (
	enterEndpoint    = "/enter"
	banksEndpoint    = "/banks"
	calendarEndpoint = "/calendar"
	sessionPrefix    = "/sessions/:sid"
)

func (s *Server) registerFormHandlers() {

	// Entry point. Verifies the one-time access code before anything else.
	s.httpServer.Get(enterEndpoint, s.handleEnter)

	// Terminal page the gate and the post-submission flow redirect to.
	s.httpServer.Get(informationSubmittedPath, s.handleInformationSubmitted)

	// Static lookups used by the UI.
	s.httpServer.Get(banksEndpoint, s.handleBanks)
	s.httpServer.Get(calendarEndpoint, s.handleCalendar)

	// Session-scoped operations.
	s.httpServer.Get(sessionPrefix+"/state", s.withSession(s.handleState))
	s.httpServer.Put(sessionPrefix+"/sections/personal", s.withSession(s.handleUpdatePersonal))
	s.httpServer.Put(sessionPrefix+"/sections/address", s.withSession(s.handleUpdateAddress))
	s.httpServer.Put(sessionPrefix+"/sections/financial", s.withSession(s.handleUpdateFinancial))
	s.httpServer.Post(sessionPrefix+"/next", s.withSession(s.handleNext))
	s.httpServer.Post(sessionPrefix+"/back", s.withSession(s.handleBack))
	s.httpServer.Post(sessionPrefix+"/jump/:target", s.withSession(s.handleJump))
	s.httpServer.Post(sessionPrefix+"/relatives", s.withSession(s.handleAddRelative))
	s.httpServer.Put(sessionPrefix+"/relatives/:index", s.withSession(s.handleSetRelative))
	s.httpServer.Delete(sessionPrefix+"/relatives/:index", s.withSession(s.handleRemoveRelative))
	s.httpServer.Post(sessionPrefix+"/children", s.withSession(s.handleAddChild))
	s.httpServer.Put(sessionPrefix+"/children/:index", s.withSession(s.handleSetChild))
	s.httpServer.Delete(sessionPrefix+"/children/:index", s.withSession(s.handleRemoveChild))
	s.httpServer.Post(sessionPrefix+"/attachments/:field", s.withSession(s.handleAttach))
	s.httpServer.Post(sessionPrefix+"/submit", s.withSession(s.handleSubmit))
	s.httpServer.Delete(sessionPrefix+"/draft", s.withSession(s.handleClearDraft))
	s.httpServer.Get(sessionPrefix+"/language", s.withSession(s.handleGetLanguage))
	s.httpServer.Put(sessionPrefix+"/language", s.withSession(s.handleSetLanguage))
}

// handleEnter runs the access gate. Absence of a code, a falsy check result
// and a failed check call all end the same way: a redirect to the
// information-submitted page, without a form session ever being created.
func (s *Server) handleEnter(c *fiber.Ctx) error {
	code := c.Query("code")

	sess := session.New(s.api, s.drafts, s.cfg.DraftSlot)
	if err := sess.Start(c.Context(), code); err != nil {
		slog.Info("Entry rejected", "error", err)
		return c.Redirect(informationSubmittedPath, fiber.StatusFound)
	}

	s.sessions.Set(sess.ID(), sess, 0)

	restored, names := sess.Restored()
	return c.JSON(fiber.Map{
		"sessionId":       sess.ID(),
		"restored":        restored,
		"attachmentNames": names,
		"state":           s.stateOf(sess),
	})
}

func (s *Server) handleInformationSubmitted(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Your information has been submitted. You can close this page.",
	})
}

func (s *Server) handleBanks(c *fiber.Ctx) error {
	return c.JSON(banks.All())
}

// handleCalendar returns the localized month and weekday labels. The
// language is read from the stored preference once, at render time.
func (s *Server) handleCalendar(c *fiber.Ctx) error {
	tag := i18n.Match(c.Query("lang"))
	if c.Query("lang") == "" {
		stored, _, err := s.drafts.Language(s.cfg.DraftSlot)
		if err == nil {
			tag = stored
		}
	}
	return c.JSON(fiber.Map{
		"language": tag.String(),
		"months":   i18n.MonthLabels(tag),
		"weekdays": i18n.WeekdayLabels(tag),
	})
}

// withSession resolves the :sid parameter into a live session.
func (s *Server) withSession(h func(*fiber.Ctx, *session.Session) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		v, ok := s.sessions.Get(c.Params("sid"))
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "unknown or expired session",
			})
		}
		return h(c, v.(*session.Session))
	}
}

type stateResponse struct {
	CurrentSection    wizard.Section   `json:"currentSection"`
	CompletedSections []wizard.Section `json:"completedSections"`
	Submitted         bool             `json:"submitted"`
	Form              models.FormState `json:"form"`
}

func (s *Server) stateOf(sess *session.Session) *stateResponse {
	form, err := sess.Snapshot()
	if err != nil {
		return nil
	}
	current, _ := sess.CurrentSection()
	return &stateResponse{
		CurrentSection:    current,
		CompletedSections: sess.CompletedSections(),
		Submitted:         sess.Submitted(),
		Form:              form,
	}
}

func (s *Server) handleState(c *fiber.Ctx, sess *session.Session) error {
	return c.JSON(s.stateOf(sess))
}

// Section update requests carry dates as yyyy-MM-dd strings.

const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, errl.Errorf("bad date %q, want yyyy-MM-dd", s)
	}
	return t, nil
}

type personalRequest struct {
	FullName               string `json:"fullName"`
	Email                  string `json:"email"`
	BirthOfDate            string `json:"birthOfDate"`
	GenderParamCode        string `json:"genderParamCode"`
	Phone                  string `json:"phone"`
	CCCD                   string `json:"cccd"`
	DateOfIssue            string `json:"dateOfIssue"`
	DateOfOnboard          string `json:"dateOfOnboard"`
	HealthInsuranceNumber  string `json:"healthInsuranceNumber"`
	SocialInsuranceNumber  string `json:"socialInsuranceNumber"`
	PersonalTaxCode        string `json:"personalTaxCode"`
	DependentsCount        string `json:"dependentsCount"`
	Hobbies                string `json:"hobbies"`
	FavoriteQuoteAndSaying string `json:"favoriteQuoteAndSaying"`
}

func (s *Server) handleUpdatePersonal(c *fiber.Ctx, sess *session.Session) error {
	var req personalRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Error("Failed to parse personal section", "error", err)
		return badRequest(c, "failed to parse request body")
	}
	birth, err := parseDate(req.BirthOfDate)
	if err != nil {
		return badRequest(c, err.Error())
	}
	issue, err := parseDate(req.DateOfIssue)
	if err != nil {
		return badRequest(c, err.Error())
	}
	onboard, err := parseDate(req.DateOfOnboard)
	if err != nil {
		return badRequest(c, err.Error())
	}
	update := session.PersonalSection{
		FullName:               req.FullName,
		Email:                  req.Email,
		BirthOfDate:            birth,
		GenderParamCode:        req.GenderParamCode,
		Phone:                  req.Phone,
		CCCD:                   req.CCCD,
		DateOfIssue:            issue,
		DateOfOnboard:          onboard,
		HealthInsuranceNumber:  req.HealthInsuranceNumber,
		SocialInsuranceNumber:  req.SocialInsuranceNumber,
		PersonalTaxCode:        req.PersonalTaxCode,
		DependentsCount:        req.DependentsCount,
		Hobbies:                req.Hobbies,
		FavoriteQuoteAndSaying: req.FavoriteQuoteAndSaying,
	}
	if err := sess.UpdatePersonal(update); err != nil {
		return sessionError(c, err)
	}
	return c.JSON(s.stateOf(sess))
}

type addressRequest struct {
	PermanentAddress   string `json:"permanentAddress"`
	CurrentAddress     string `json:"currentAddress"`
	LicensePlateNumber string `json:"licensePlateNumber"`
	VehicleColor       string `json:"vehicleColor"`
	VehicleType        string `json:"vehicleType"`
}

func (s *Server) handleUpdateAddress(c *fiber.Ctx, sess *session.Session) error {
	var req addressRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Error("Failed to parse address section", "error", err)
		return badRequest(c, "failed to parse request body")
	}
	update := session.AddressSection{
		PermanentAddress:   req.PermanentAddress,
		CurrentAddress:     req.CurrentAddress,
		LicensePlateNumber: req.LicensePlateNumber,
		VehicleColor:       req.VehicleColor,
		VehicleType:        req.VehicleType,
	}
	if err := sess.UpdateAddress(update); err != nil {
		return sessionError(c, err)
	}
	return c.JSON(s.stateOf(sess))
}

type financialRequest struct {
	BankAccountNumber string `json:"bankAccountNumber"`
	BankName          string `json:"bankName"`
	BankBranch        string `json:"bankBranch"`
}

func (s *Server) handleUpdateFinancial(c *fiber.Ctx, sess *session.Session) error {
	var req financialRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Error("Failed to parse financial section", "error", err)
		return badRequest(c, "failed to parse request body")
	}
	update := session.FinancialSection{
		BankAccountNumber: req.BankAccountNumber,
		BankName:          req.BankName,
		BankBranch:        req.BankBranch,
	}
	if err := sess.UpdateFinancial(update); err != nil {
		return sessionError(c, err)
	}
	return c.JSON(s.stateOf(sess))
}

func (s *Server) handleNext(c *fiber.Ctx, sess *session.Session) error {
	if _, err := sess.Next(); err != nil {
		return sessionError(c, err)
	}
	return c.JSON(s.stateOf(sess))
}

func (s *Server) handleBack(c *fiber.Ctx, sess *session.Session) error {
	if _, err := sess.Back(); err != nil {
		return sessionError(c, err)
	}
	return c.JSON(s.stateOf(sess))
}

func (s *Server) handleJump(c *fiber.Ctx, sess *session.Session) error {
	target, err := wizard.Parse(c.Params("target"))
	if err != nil {
		return badRequest(c, err.Error())
	}
	if err := sess.Jump(target); err != nil {
		if errors.Is(err, wizard.ErrSectionLocked) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		return sessionError(c, err)
	}
	return c.JSON(s.stateOf(sess))
}

type relativeRequest struct {
	FullName              string `json:"fullName"`
	GenderParamCode       string `json:"genderParamCode"`
	Phone                 string `json:"phone"`
	BirthOfDate           string `json:"birthOfDate"`
	RelationshipParamCode string `json:"relationshipParamCode"`
}

func (s *Server) handleAddRelative(c *fiber.Ctx, sess *session.Session) error {
	if err := sess.AddRelative(); err != nil {
		return sessionError(c, err)
	}
	return c.JSON(s.stateOf(sess))
}

func (s *Server) handleSetRelative(c *fiber.Ctx, sess *session.Session) error {
	idx, err := c.ParamsInt("index")
	if err != nil {
		return badRequest(c, "bad index")
	}
	var req relativeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "failed to parse request body")
	}
	birth, err := parseDate(req.BirthOfDate)
	if err != nil {
		return badRequest(c, err.Error())
	}
	rec := models.RelativeRecord{
		FullName:              req.FullName,
		GenderParamCode:       req.GenderParamCode,
		Phone:                 req.Phone,
		BirthOfDate:           birth,
		RelationshipParamCode: req.RelationshipParamCode,
	}
	if err := sess.SetRelative(idx, rec); err != nil {
		return sessionError(c, err)
	}
	return c.JSON(s.stateOf(sess))
}

func (s *Server) handleRemoveRelative(c *fiber.Ctx, sess *session.Session) error {
	idx, err := c.ParamsInt("index")
	if err != nil {
		return badRequest(c, "bad index")
	}
	if err := sess.RemoveRelative(idx); err != nil {
		if errors.Is(err, session.ErrLastRelative) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		return sessionError(c, err)
	}
	return c.JSON(s.stateOf(sess))
}

type childRequest struct {
	FullName        string `json:"fullName"`
	GenderParamCode string `json:"genderParamCode"`
	BirthOfDate     string `json:"birthOfDate"`
}

func (s *Server) handleAddChild(c *fiber.Ctx, sess *session.Session) error {
	if err := sess.AddChild(); err != nil {
		return sessionError(c, err)
	}
	return c.JSON(s.stateOf(sess))
}

func (s *Server) handleSetChild(c *fiber.Ctx, sess *session.Session) error {
	idx, err := c.ParamsInt("index")
	if err != nil {
		return badRequest(c, "bad index")
	}
	var req childRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "failed to parse request body")
	}
	birth, err := parseDate(req.BirthOfDate)
	if err != nil {
		return badRequest(c, err.Error())
	}
	rec := models.ChildRecord{
		FullName:        req.FullName,
		GenderParamCode: req.GenderParamCode,
		BirthOfDate:     birth,
	}
	if err := sess.SetChild(idx, rec); err != nil {
		return sessionError(c, err)
	}
	return c.JSON(s.stateOf(sess))
}

func (s *Server) handleRemoveChild(c *fiber.Ctx, sess *session.Session) error {
	idx, err := c.ParamsInt("index")
	if err != nil {
		return badRequest(c, "bad index")
	}
	if err := sess.RemoveChild(idx); err != nil {
		return sessionError(c, err)
	}
	return c.JSON(s.stateOf(sess))
}

// handleAttach receives one uploaded file and stores it in memory under the
// named attachment field. Contents never reach the draft store.
func (s *Server) handleAttach(c *fiber.Ctx, sess *session.Session) error {
	field := c.Params("field")

	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "missing file part")
	}
	f, err := fh.Open()
	if err != nil {
		return badRequest(c, "unreadable file part")
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return badRequest(c, "unreadable file part")
	}

	att := &models.Attachment{
		Name:     fh.Filename,
		Size:     fh.Size,
		MIMEType: fh.Header.Get("Content-Type"),
		Content:  content,
	}
	if err := sess.Attach(field, att); err != nil {
		if errors.Is(err, session.ErrUnknownAttachmentField) || errors.Is(err, session.ErrNotFileShaped) {
			return badRequest(c, err.Error())
		}
		return sessionError(c, err)
	}
	return c.JSON(s.stateOf(sess))
}

// handleSubmit runs the submission pipeline. Validation failures return the
// field-path mapping; transport failures surface the status to the caller,
// with the in-memory form preserved so the user can retry.
func (s *Server) handleSubmit(c *fiber.Ctx, sess *session.Session) error {
	result, err := sess.Submit(c.Context())
	if err != nil {
		var verrs schema.Errors
		if errors.As(err, &verrs) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"errors": verrs,
			})
		}
		var statusErr *recruitapi.StatusError
		if errors.As(err, &statusErr) {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": statusErr.Error(),
			})
		}
		slog.Error("Submission failed", "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "An error occurred while submitting the form.",
		})
	}
	return c.JSON(fiber.Map{
		"result":   result.Body,
		"redirect": informationSubmittedPath,
	})
}

func (s *Server) handleClearDraft(c *fiber.Ctx, sess *session.Session) error {
	if err := sess.ClearSaved(); err != nil {
		return sessionError(c, err)
	}
	return c.JSON(s.stateOf(sess))
}

func (s *Server) handleGetLanguage(c *fiber.Ctx, sess *session.Session) error {
	return c.JSON(fiber.Map{"language": sess.Language().String()})
}

type languageRequest struct {
	Language string `json:"language"`
}

func (s *Server) handleSetLanguage(c *fiber.Ctx, sess *session.Session) error {
	var req languageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "failed to parse request body")
	}
	if err := sess.SetLanguage(req.Language); err != nil {
		return sessionError(c, err)
	}
	return c.JSON(fiber.Map{"language": sess.Language().String()})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func sessionError(c *fiber.Ctx, err error) error {
	if errors.Is(err, session.ErrNotStarted) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	if errors.Is(err, session.ErrIndexOutOfRange) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	slog.Error("Session operation failed", "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
