// Package schema is the declarative rule set for the onboarding form.
// Validation is pure: given a FormState snapshot and the validation instant it
// either accepts the whole form or reports every offending field by path,
// including nested paths like employeeRelatives[2].phone.
package schema

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/hrinsight/onboardform/internal/banks"
	"github.com/hrinsight/onboardform/internal/models"
)

// Errors maps a field path to a human-readable reason. A nil Errors means the
// form is valid.
type Errors map[string]string

func (e Errors) Error() string {
	if len(e) == 0 {
		return ""
	}
	paths := make([]string, 0, len(e))
	for p := range e {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	var b strings.Builder
	for i, p := range paths {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(p)
		b.WriteString(": ")
		b.WriteString(e[p])
	}
	return b.String()
}

var (
	// Letters (any Unicode script, so Vietnamese diacritics pass) and spaces.
	lettersAndSpaces = regexp.MustCompile(`^[\p{L}\s]+$`)

	phonePattern       = regexp.MustCompile(`^[0-9]{10,11}$`)
	cccdPattern        = regexp.MustCompile(`^[0-9]{9,12}$`)
	insurancePattern   = regexp.MustCompile(`^[0-9]{10,15}$`)
	taxCodePattern     = regexp.MustCompile(`^[0-9]{10,13}$`)
	digitsPattern      = regexp.MustCompile(`^[0-9]+$`)
	bankAccountPattern = regexp.MustCompile(`^[0-9]{8,20}$`)
)

// Validate checks every field of the form against its rule, using now as the
// validation instant for the date rules. It returns nil when the form is
// valid, and the full field-path error mapping otherwise.
func Validate(fs *models.FormState, now time.Time) Errors {
	errs := Errors{}

	check := func(path string, value any, rules ...validation.Rule) {
		if err := validation.Validate(value, rules...); err != nil {
			errs[path] = err.Error()
		}
	}

	// Identity
	check("fullName", fs.FullName,
		validation.Required.Error("full name is required"),
		validation.Match(lettersAndSpaces).Error("full name should only contain letters and spaces"))
	check("email", fs.Email,
		validation.Required.Error("email is required"),
		is.EmailFormat.Error("invalid email address"))
	check("birthOfDate", fs.BirthOfDate,
		validation.Required.Error("birth date is required"),
		validation.By(pastDate(now, "birth date must be in the past")))
	check("genderParamCode", fs.GenderParamCode,
		validation.Required.Error("gender is required"),
		validation.In(models.GenderMale, models.GenderFemale, models.GenderOther).Error("invalid gender"))
	check("phone", fs.Phone,
		validation.Required.Error("phone number is required"),
		validation.Match(phonePattern).Error("phone number must be 10-11 digits"))

	// Identification
	check("cccd", fs.CCCD,
		validation.Required.Error("ID card number is required"),
		validation.Match(cccdPattern).Error("ID card number must be 9-12 digits"))
	check("dateOfIssue", fs.DateOfIssue,
		validation.Required.Error("date of issue is required"),
		validation.By(pastDate(now, "date of issue must be in the past")))
	// dateOfOnboard is optional and may be in the future.

	// Insurance and tax
	check("healthInsuranceNumber", fs.HealthInsuranceNumber,
		validation.Required.Error("health insurance number is required"),
		validation.Match(insurancePattern).Error("health insurance number must be 10-15 digits"))
	check("socialInsuranceNumber", fs.SocialInsuranceNumber,
		validation.Required.Error("social insurance number is required"),
		validation.Match(insurancePattern).Error("social insurance number must be 10-15 digits"))
	check("personalTaxCode", fs.PersonalTaxCode,
		validation.Match(taxCodePattern).Error("personal tax code must be 10-13 digits if provided"))
	check("dependentsCount", fs.DependentsCount,
		validation.Required.Error("number of dependents is required"),
		validation.Match(digitsPattern).Error("number of dependents must be a number"))

	// Addresses
	check("permanentAddress", fs.PermanentAddress,
		validation.Required.Error("permanent address is required (min 10 characters)"),
		validation.RuneLength(10, 0).Error("permanent address is required (min 10 characters)"))
	check("currentAddress", fs.CurrentAddress,
		validation.Required.Error("current address is required (min 10 characters)"),
		validation.RuneLength(10, 0).Error("current address is required (min 10 characters)"))

	// Banking
	check("bankAccountNumber", fs.BankAccountNumber,
		validation.Required.Error("bank account number is required"),
		validation.Match(bankAccountPattern).Error("bank account number must be 8-20 digits"))
	check("bankName", fs.BankName,
		validation.Required.Error("bank name is required"),
		validation.By(knownBank))
	check("bankBranch", fs.BankBranch,
		validation.Required.Error("bank branch is required"))

	// Vehicle (all optional)
	check("licensePlateNumber", fs.LicensePlateNumber,
		validation.RuneLength(5, 0).Error("license plate number must be at least 5 characters if provided"))

	// Personal
	check("hobbies", fs.Hobbies,
		validation.Required.Error("hobbies is required"))

	// Family
	if len(fs.EmployeeRelatives) == 0 {
		errs["employeeRelatives"] = "at least one family member is required"
	}
	for i, r := range fs.EmployeeRelatives {
		path := func(field string) string { return fmt.Sprintf("employeeRelatives[%d].%s", i, field) }
		check(path("fullName"), r.FullName,
			validation.Required.Error("full name is required"),
			validation.Match(lettersAndSpaces).Error("full name should only contain letters and spaces"))
		check(path("genderParamCode"), r.GenderParamCode,
			validation.Required.Error("gender is required"),
			validation.In(models.GenderMale, models.GenderFemale).Error("invalid gender"))
		check(path("phone"), r.Phone,
			validation.Required.Error("phone number is required"),
			validation.Match(phonePattern).Error("phone number must be 10-11 digits"))
		check(path("birthOfDate"), r.BirthOfDate,
			validation.Required.Error("birth date is required"),
			validation.By(pastDate(now, "birth date must be in the past")))
		check(path("relationshipParamCode"), r.RelationshipParamCode,
			validation.Required.Error("relationship is required"),
			validation.In(
				models.RelationshipFather,
				models.RelationshipMother,
				models.RelationshipSpouse,
				models.RelationshipBrother,
				models.RelationshipSister,
				models.RelationshipOther,
			).Error("invalid relationship"))
	}
	for i, c := range fs.Children {
		path := func(field string) string { return fmt.Sprintf("children[%d].%s", i, field) }
		check(path("fullName"), c.FullName,
			validation.Required.Error("full name is required"),
			validation.Match(lettersAndSpaces).Error("full name should only contain letters and spaces"))
		check(path("genderParamCode"), c.GenderParamCode,
			validation.Required.Error("gender is required"),
			validation.In(models.GenderMale, models.GenderFemale).Error("invalid gender"))
		check(path("birthOfDate"), c.BirthOfDate,
			validation.Required.Error("birth date is required"),
			validation.By(pastDate(now, "birth date must be in the past")))
	}

	// Documents. Contents are never inspected, only the file shape.
	checkFile(errs, models.FieldFrontIDCard, fs.FrontIDCard, true, "front ID card is required")
	checkFile(errs, models.FieldBackIDCard, fs.BackIDCard, true, "back ID card is required")
	checkFile(errs, models.FieldPortrait, fs.Portrait, true, "portrait photo is required")
	checkFile(errs, models.FieldSelfie, fs.Selfie, true, "selfie is required")
	checkFile(errs, models.FieldCertificate, fs.Certificate, false, "certificate is not a valid file")

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// knownBank accepts only codes present in the bank table. Empty values are
// skipped; Required reports them separately.
func knownBank(value any) error {
	code, ok := value.(string)
	if !ok || code == "" {
		return nil
	}
	if !banks.ValidCode(code) {
		return errors.New("unknown bank")
	}
	return nil
}

// pastDate builds a rule requiring a non-zero date strictly before now.
// The boundary itself is rejected: a date equal to now is not in the past.
func pastDate(now time.Time, msg string) validation.RuleFunc {
	return func(value any) error {
		d, ok := value.(time.Time)
		if !ok || d.IsZero() {
			// Required is reported separately.
			return nil
		}
		if !d.Before(now) {
			return fmt.Errorf("%s", msg)
		}
		return nil
	}
}

func checkFile(errs Errors, path string, a *models.Attachment, required bool, msg string) {
	if a == nil {
		if required {
			errs[path] = msg
		}
		return
	}
	if !a.FileShaped() {
		errs[path] = msg
	}
}
