package draft

import (
	"time"

	json "github.com/goccy/go-json"

	"github.com/hrinsight/onboardform/internal/errl"
	"github.com/hrinsight/onboardform/internal/models"
)

// dateLayout is the unambiguous calendar-date form used inside the slot.
const dateLayout = "2006-01-02"

// payload is the stored shape of a draft: every scalar, enum and text field
// as-is, dates as yyyy-MM-dd strings, attachments reduced to their file name.
type payload struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	BirthOfDate     string `json:"birthOfDate,omitempty"`
	GenderParamCode string `json:"genderParamCode"`
	Phone           string `json:"phone"`

	CCCD          string `json:"cccd"`
	DateOfIssue   string `json:"dateOfIssue,omitempty"`
	DateOfOnboard string `json:"dateOfOnboard,omitempty"`

	HealthInsuranceNumber string `json:"healthInsuranceNumber"`
	SocialInsuranceNumber string `json:"socialInsuranceNumber"`
	PersonalTaxCode       string `json:"personalTaxCode"`
	DependentsCount       string `json:"dependentsCount"`

	PermanentAddress string `json:"permanentAddress"`
	CurrentAddress   string `json:"currentAddress"`

	BankAccountNumber string `json:"bankAccountNumber"`
	BankName          string `json:"bankName"`
	BankBranch        string `json:"bankBranch"`

	LicensePlateNumber string `json:"licensePlateNumber"`
	VehicleColor       string `json:"vehicleColor"`
	VehicleType        string `json:"vehicleType"`

	Hobbies                string `json:"hobbies"`
	FavoriteQuoteAndSaying string `json:"favoriteQuoteAndSaying"`

	EmployeeRelatives []payloadRelative `json:"employeeRelatives"`
	Children          []payloadChild    `json:"children"`

	FrontIDCard string `json:"frontIdCard,omitempty"`
	BackIDCard  string `json:"backIdCard,omitempty"`
	Portrait    string `json:"portrait,omitempty"`
	Selfie      string `json:"selfie,omitempty"`
	Certificate string `json:"certificate,omitempty"`
}

type payloadRelative struct {
	FullName              string `json:"fullName"`
	GenderParamCode       string `json:"genderParamCode"`
	Phone                 string `json:"phone"`
	BirthOfDate           string `json:"birthOfDate,omitempty"`
	RelationshipParamCode string `json:"relationshipParamCode"`
}

type payloadChild struct {
	FullName        string `json:"fullName"`
	GenderParamCode string `json:"genderParamCode"`
	BirthOfDate     string `json:"birthOfDate,omitempty"`
}

func encodePayload(fs *models.FormState) ([]byte, error) {
	p := payload{
		FullName:        fs.FullName,
		Email:           fs.Email,
		BirthOfDate:     fmtDate(fs.BirthOfDate),
		GenderParamCode: fs.GenderParamCode,
		Phone:           fs.Phone,

		CCCD:          fs.CCCD,
		DateOfIssue:   fmtDate(fs.DateOfIssue),
		DateOfOnboard: fmtDate(fs.DateOfOnboard),

		HealthInsuranceNumber: fs.HealthInsuranceNumber,
		SocialInsuranceNumber: fs.SocialInsuranceNumber,
		PersonalTaxCode:       fs.PersonalTaxCode,
		DependentsCount:       fs.DependentsCount,

		PermanentAddress: fs.PermanentAddress,
		CurrentAddress:   fs.CurrentAddress,

		BankAccountNumber: fs.BankAccountNumber,
		BankName:          fs.BankName,
		BankBranch:        fs.BankBranch,

		LicensePlateNumber: fs.LicensePlateNumber,
		VehicleColor:       fs.VehicleColor,
		VehicleType:        fs.VehicleType,

		Hobbies:                fs.Hobbies,
		FavoriteQuoteAndSaying: fs.FavoriteQuoteAndSaying,
	}
	for _, r := range fs.EmployeeRelatives {
		p.EmployeeRelatives = append(p.EmployeeRelatives, payloadRelative{
			FullName:              r.FullName,
			GenderParamCode:       r.GenderParamCode,
			Phone:                 r.Phone,
			BirthOfDate:           fmtDate(r.BirthOfDate),
			RelationshipParamCode: r.RelationshipParamCode,
		})
	}
	for _, c := range fs.Children {
		p.Children = append(p.Children, payloadChild{
			FullName:        c.FullName,
			GenderParamCode: c.GenderParamCode,
			BirthOfDate:     fmtDate(c.BirthOfDate),
		})
	}
	if fs.FrontIDCard != nil {
		p.FrontIDCard = fs.FrontIDCard.Name
	}
	if fs.BackIDCard != nil {
		p.BackIDCard = fs.BackIDCard.Name
	}
	if fs.Portrait != nil {
		p.Portrait = fs.Portrait.Name
	}
	if fs.Selfie != nil {
		p.Selfie = fs.Selfie.Name
	}
	if fs.Certificate != nil {
		p.Certificate = fs.Certificate.Name
	}
	return json.Marshal(p)
}

func decodePayload(raw []byte) (*Draft, error) {
	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, errl.Errorf("failed to parse draft payload: %w", err)
	}

	// Fields absent from the payload keep their defaults.
	fs := models.NewFormState()
	fs.FullName = p.FullName
	fs.Email = p.Email
	fs.GenderParamCode = p.GenderParamCode
	fs.Phone = p.Phone
	fs.CCCD = p.CCCD
	fs.HealthInsuranceNumber = p.HealthInsuranceNumber
	fs.SocialInsuranceNumber = p.SocialInsuranceNumber
	fs.PersonalTaxCode = p.PersonalTaxCode
	fs.DependentsCount = p.DependentsCount
	fs.PermanentAddress = p.PermanentAddress
	fs.CurrentAddress = p.CurrentAddress
	fs.BankAccountNumber = p.BankAccountNumber
	if p.BankName != "" {
		fs.BankName = p.BankName
	}
	fs.BankBranch = p.BankBranch
	fs.LicensePlateNumber = p.LicensePlateNumber
	fs.VehicleColor = p.VehicleColor
	fs.VehicleType = p.VehicleType
	fs.Hobbies = p.Hobbies
	fs.FavoriteQuoteAndSaying = p.FavoriteQuoteAndSaying

	var err error
	if fs.BirthOfDate, err = parseDate(p.BirthOfDate); err != nil {
		return nil, err
	}
	if fs.DateOfIssue, err = parseDate(p.DateOfIssue); err != nil {
		return nil, err
	}
	if fs.DateOfOnboard, err = parseDate(p.DateOfOnboard); err != nil {
		return nil, err
	}

	if len(p.EmployeeRelatives) > 0 {
		fs.EmployeeRelatives = nil
		for _, r := range p.EmployeeRelatives {
			d, err := parseDate(r.BirthOfDate)
			if err != nil {
				return nil, err
			}
			fs.EmployeeRelatives = append(fs.EmployeeRelatives, models.RelativeRecord{
				FullName:              r.FullName,
				GenderParamCode:       r.GenderParamCode,
				Phone:                 r.Phone,
				BirthOfDate:           d,
				RelationshipParamCode: r.RelationshipParamCode,
			})
		}
	}
	for _, c := range p.Children {
		d, err := parseDate(c.BirthOfDate)
		if err != nil {
			return nil, err
		}
		fs.Children = append(fs.Children, models.ChildRecord{
			FullName:        c.FullName,
			GenderParamCode: c.GenderParamCode,
			BirthOfDate:     d,
		})
	}

	names := map[string]string{}
	for field, name := range map[string]string{
		models.FieldFrontIDCard: p.FrontIDCard,
		models.FieldBackIDCard:  p.BackIDCard,
		models.FieldPortrait:    p.Portrait,
		models.FieldSelfie:      p.Selfie,
		models.FieldCertificate: p.Certificate,
	} {
		if name != "" {
			names[field] = name
		}
	}

	return &Draft{Form: fs, AttachmentNames: names}, nil
}

func fmtDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, errl.Errorf("bad date %q in draft: %w", s, err)
	}
	return t, nil
}
