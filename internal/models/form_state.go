package models

import "time"

// Gender codes used by the form and by the recruitment backend.
const (
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
	GenderOther  = "OTHER"
)

// Relationship codes stored for employee relatives. SPOUSE is always stored
// as-is; only its display label depends on the relative's gender.
const (
	RelationshipFather  = "FATHER"
	RelationshipMother  = "MOTHER"
	RelationshipSpouse  = "SPOUSE"
	RelationshipBrother = "BROTHER"
	RelationshipSister  = "SISTER"
	RelationshipOther   = "OTHER"
)

// Relationship codes derived for children at submission time, based on the
// child's gender. They never appear in FormState itself.
const (
	RelationshipSon      = "SON"
	RelationshipDaughter = "DAUGHTER"
	RelationshipChild    = "CHILD"
)

// Names of the attachment fields of the form.
const (
	FieldFrontIDCard = "frontIdCard"
	FieldBackIDCard  = "backIdCard"
	FieldPortrait    = "portrait"
	FieldSelfie      = "selfie"
	FieldCertificate = "certificate"
)

// Attachment is a binary file reference collected by the documents section.
// Contents live in memory only; they are never written to the draft store.
type Attachment struct {
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	MIMEType string `json:"type"`
	Content  []byte `json:"-"`
}

// FileShaped reports whether the attachment looks like a real file reference,
// that is, it carries a name, a size and a MIME type.
func (a *Attachment) FileShaped() bool {
	return a != nil && a.Name != "" && a.MIMEType != "" && a.Size >= 0
}

// RelativeRecord is one entry of the required family-contacts list.
type RelativeRecord struct {
	FullName              string    `json:"fullName"`
	GenderParamCode       string    `json:"genderParamCode"`
	Phone                 string    `json:"phone"`
	BirthOfDate           time.Time `json:"birthOfDate"`
	RelationshipParamCode string    `json:"relationshipParamCode"`
}

// ChildRecord is one entry of the optional children list. Children have no
// phone and no stored relationship code; the relationship is derived from the
// gender when the submission payload is built.
type ChildRecord struct {
	FullName        string    `json:"fullName"`
	GenderParamCode string    `json:"genderParamCode"`
	BirthOfDate     time.Time `json:"birthOfDate"`
}

// FormState is the single source of truth for one in-progress submission.
// A zero time.Time means the date has not been entered yet.
type FormState struct {
	// Identity
	FullName        string    `json:"fullName"`
	Email           string    `json:"email"`
	BirthOfDate     time.Time `json:"birthOfDate"`
	GenderParamCode string    `json:"genderParamCode"`
	Phone           string    `json:"phone"`

	// Identification
	CCCD          string    `json:"cccd"`
	DateOfIssue   time.Time `json:"dateOfIssue"`
	DateOfOnboard time.Time `json:"dateOfOnboard"`

	// Insurance and tax
	HealthInsuranceNumber string `json:"healthInsuranceNumber"`
	SocialInsuranceNumber string `json:"socialInsuranceNumber"`
	PersonalTaxCode       string `json:"personalTaxCode"`
	DependentsCount       string `json:"dependentsCount"`

	// Addresses
	PermanentAddress string `json:"permanentAddress"`
	CurrentAddress   string `json:"currentAddress"`

	// Banking
	BankAccountNumber string `json:"bankAccountNumber"`
	BankName          string `json:"bankName"`
	BankBranch        string `json:"bankBranch"`

	// Vehicle (optional)
	LicensePlateNumber string `json:"licensePlateNumber"`
	VehicleColor       string `json:"vehicleColor"`
	VehicleType        string `json:"vehicleType"`

	// Personal
	Hobbies                string `json:"hobbies"`
	FavoriteQuoteAndSaying string `json:"favoriteQuoteAndSaying"`

	// Family
	EmployeeRelatives []RelativeRecord `json:"employeeRelatives"`
	Children          []ChildRecord    `json:"children"`

	// Documents. Never persisted; only the file names may be remembered.
	FrontIDCard *Attachment `json:"frontIdCard,omitempty"`
	BackIDCard  *Attachment `json:"backIdCard,omitempty"`
	Portrait    *Attachment `json:"portrait,omitempty"`
	Selfie      *Attachment `json:"selfie,omitempty"`
	Certificate *Attachment `json:"certificate,omitempty"`
}

// DefaultBankCode is preselected on a fresh form.
const DefaultBankCode = "BIDV"

// NewFormState creates the initial shape of the form: one blank relative,
// no children and the default bank selected.
func NewFormState() *FormState {
	return &FormState{
		EmployeeRelatives: []RelativeRecord{{}},
		Children:          []ChildRecord{},
		BankName:          DefaultBankCode,
	}
}

// Attachment returns the attachment stored under the given field name.
func (f *FormState) Attachment(field string) (*Attachment, bool) {
	switch field {
	case FieldFrontIDCard:
		return f.FrontIDCard, true
	case FieldBackIDCard:
		return f.BackIDCard, true
	case FieldPortrait:
		return f.Portrait, true
	case FieldSelfie:
		return f.Selfie, true
	case FieldCertificate:
		return f.Certificate, true
	}
	return nil, false
}

// SetAttachment stores an attachment under the given field name.
// It reports false if the field is not one of the attachment fields.
func (f *FormState) SetAttachment(field string, a *Attachment) bool {
	switch field {
	case FieldFrontIDCard:
		f.FrontIDCard = a
	case FieldBackIDCard:
		f.BackIDCard = a
	case FieldPortrait:
		f.Portrait = a
	case FieldSelfie:
		f.Selfie = a
	case FieldCertificate:
		f.Certificate = a
	default:
		return false
	}
	return true
}

// AttachmentFields lists the attachment field names in their fixed order.
func AttachmentFields() []string {
	return []string{FieldFrontIDCard, FieldBackIDCard, FieldPortrait, FieldSelfie, FieldCertificate}
}
