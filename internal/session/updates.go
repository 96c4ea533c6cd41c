package session

import (
	"time"

	"github.com/hrinsight/onboardform/internal/models"
)

// PersonalSection carries the fields of the personal step.
type PersonalSection struct {
	FullName               string
	Email                  string
	BirthOfDate            time.Time
	GenderParamCode        string
	Phone                  string
	CCCD                   string
	DateOfIssue            time.Time
	DateOfOnboard          time.Time
	HealthInsuranceNumber  string
	SocialInsuranceNumber  string
	PersonalTaxCode        string
	DependentsCount        string
	Hobbies                string
	FavoriteQuoteAndSaying string
}

// AddressSection carries the fields of the address step, vehicle included.
type AddressSection struct {
	PermanentAddress   string
	CurrentAddress     string
	LicensePlateNumber string
	VehicleColor       string
	VehicleType        string
}

// FinancialSection carries the fields of the financial step.
type FinancialSection struct {
	BankAccountNumber string
	BankName          string
	BankBranch        string
}

// UpdatePersonal replaces the personal-step fields.
func (s *Session) UpdatePersonal(p PersonalSection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return ErrNotStarted
	}
	s.form.FullName = p.FullName
	s.form.Email = p.Email
	s.form.BirthOfDate = p.BirthOfDate
	s.form.GenderParamCode = p.GenderParamCode
	s.form.Phone = p.Phone
	s.form.CCCD = p.CCCD
	s.form.DateOfIssue = p.DateOfIssue
	s.form.DateOfOnboard = p.DateOfOnboard
	s.form.HealthInsuranceNumber = p.HealthInsuranceNumber
	s.form.SocialInsuranceNumber = p.SocialInsuranceNumber
	s.form.PersonalTaxCode = p.PersonalTaxCode
	s.form.DependentsCount = p.DependentsCount
	s.form.Hobbies = p.Hobbies
	s.form.FavoriteQuoteAndSaying = p.FavoriteQuoteAndSaying
	return nil
}

// UpdateAddress replaces the address-step fields.
func (s *Session) UpdateAddress(a AddressSection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return ErrNotStarted
	}
	s.form.PermanentAddress = a.PermanentAddress
	s.form.CurrentAddress = a.CurrentAddress
	s.form.LicensePlateNumber = a.LicensePlateNumber
	s.form.VehicleColor = a.VehicleColor
	s.form.VehicleType = a.VehicleType
	return nil
}

// UpdateFinancial replaces the financial-step fields.
func (s *Session) UpdateFinancial(f FinancialSection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return ErrNotStarted
	}
	s.form.BankAccountNumber = f.BankAccountNumber
	s.form.BankName = f.BankName
	s.form.BankBranch = f.BankBranch
	return nil
}

// AddRelative appends a blank family member.
func (s *Session) AddRelative() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return ErrNotStarted
	}
	s.form.EmployeeRelatives = append(s.form.EmployeeRelatives, models.RelativeRecord{})
	return nil
}

// SetRelative replaces the family member at index i.
func (s *Session) SetRelative(i int, r models.RelativeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return ErrNotStarted
	}
	if i < 0 || i >= len(s.form.EmployeeRelatives) {
		return ErrIndexOutOfRange
	}
	s.form.EmployeeRelatives[i] = r
	return nil
}

// RemoveRelative removes the family member at index i. The list never drops
// below one entry: removing the last remaining one fails.
func (s *Session) RemoveRelative(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return ErrNotStarted
	}
	if len(s.form.EmployeeRelatives) <= 1 {
		return ErrLastRelative
	}
	if i < 0 || i >= len(s.form.EmployeeRelatives) {
		return ErrIndexOutOfRange
	}
	s.form.EmployeeRelatives = append(s.form.EmployeeRelatives[:i], s.form.EmployeeRelatives[i+1:]...)
	return nil
}

// AddChild appends a blank child entry.
func (s *Session) AddChild() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return ErrNotStarted
	}
	s.form.Children = append(s.form.Children, models.ChildRecord{})
	return nil
}

// SetChild replaces the child entry at index i.
func (s *Session) SetChild(i int, c models.ChildRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return ErrNotStarted
	}
	if i < 0 || i >= len(s.form.Children) {
		return ErrIndexOutOfRange
	}
	s.form.Children[i] = c
	return nil
}

// RemoveChild removes the child entry at index i. Children are optional, so
// the list may become empty.
func (s *Session) RemoveChild(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return ErrNotStarted
	}
	if i < 0 || i >= len(s.form.Children) {
		return ErrIndexOutOfRange
	}
	s.form.Children = append(s.form.Children[:i], s.form.Children[i+1:]...)
	return nil
}

// Attach stores a file under one of the attachment fields.
func (s *Session) Attach(field string, att *models.Attachment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return ErrNotStarted
	}
	if att == nil || !att.FileShaped() {
		return ErrNotFileShaped
	}
	if !s.form.SetAttachment(field, att) {
		return ErrUnknownAttachmentField
	}
	return nil
}
