package recruitapi

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/hrinsight/onboardform/internal/errl"
	"github.com/hrinsight/onboardform/internal/models"
)

const dateLayout = "2006-01-02"

// PreEmployeeRecord is the structured part of the submission payload, sent as
// the JSON text of the multipart "data" part.
type PreEmployeeRecord struct {
	PreEmployeesID          string         `json:"preEmployeesId"`
	FullName                string         `json:"fullName"`
	Email                   string         `json:"email"`
	BirthOfDate             string         `json:"birthOfDate"`
	GenderParamCode         string         `json:"genderParamCode"`
	Phone                   int64          `json:"phone"`
	CCCD                    string         `json:"cccd"`
	DateOfIssue             string         `json:"dateOfIssue"`
	DateOfOnboard           string         `json:"dateOfOnboard,omitempty"`
	PermanentAddress        string         `json:"permanentAddress"`
	CurrentAddress          string         `json:"currentAddress"`
	FillEnabled             bool           `json:"fillEnabled"`
	BankAccountNumber       string         `json:"bankAccountNumber"`
	BankName                string         `json:"bankName"`
	BankBranch              string         `json:"bankBranch"`
	PersonalTaxCode         string         `json:"personalTaxCode,omitempty"`
	LicensePlateNumber      string         `json:"licensePlateNumber,omitempty"`
	VehicleColor            string         `json:"vehicleColor,omitempty"`
	VehicleType             string         `json:"vehicleType,omitempty"`
	Hobbies                 string         `json:"hobbies"`
	FavoriteQuoteAndSaying  string         `json:"favoriteQuoteAndSaying,omitempty"`
	ContractPreEmployeeCode string         `json:"contractPreEmployeeCode"`
	CandidateCvID           string         `json:"candidateCvId"`
	HealthInsuranceNumber   string         `json:"healthInsuranceNumber"`
	SocialInsuranceNumber   string         `json:"socialInsuranceNumber"`
	NumberOfDependents      int            `json:"numberOfDependents"`
	EmployeeRelatives       []WireRelative `json:"employeeRelatives"`
}

// WireRelative is one entry of the merged relative list. Children are
// projected into this shape with an empty phone and a relationship derived
// from their gender.
type WireRelative struct {
	FullName              string `json:"fullName"`
	GenderParamCode       string `json:"genderParamCode"`
	Phone                 string `json:"phone"`
	BirthOfDate           string `json:"birthOfDate"`
	RelationshipParamCode string `json:"relationshipParamCode"`
}

// placeholderPreEmployeeID stands in for the identifier the backend assigns.
const placeholderPreEmployeeID = "PE00123"

// BuildRecord derives the wire record from a validated form. The derivation
// is deterministic for a fixed now and rng except for the contract code
// (built from the current date) and the candidate CV id (randomized).
func BuildRecord(fs *models.FormState, now time.Time, rng *rand.Rand) (*PreEmployeeRecord, error) {
	phone, err := strconv.ParseInt(fs.Phone, 10, 64)
	if err != nil {
		return nil, errl.Errorf("phone is not numeric: %w", err)
	}
	dependents, err := strconv.Atoi(fs.DependentsCount)
	if err != nil {
		return nil, errl.Errorf("dependents count is not numeric: %w", err)
	}

	rec := &PreEmployeeRecord{
		PreEmployeesID:          placeholderPreEmployeeID,
		FullName:                fs.FullName,
		Email:                   fs.Email,
		BirthOfDate:             fs.BirthOfDate.Format(dateLayout),
		GenderParamCode:         fs.GenderParamCode,
		Phone:                   phone,
		CCCD:                    fs.CCCD,
		DateOfIssue:             fs.DateOfIssue.Format(dateLayout),
		PermanentAddress:        fs.PermanentAddress,
		CurrentAddress:          fs.CurrentAddress,
		FillEnabled:             true,
		BankAccountNumber:       fs.BankAccountNumber,
		BankName:                fs.BankName,
		BankBranch:              fs.BankBranch,
		PersonalTaxCode:         fs.PersonalTaxCode,
		LicensePlateNumber:      fs.LicensePlateNumber,
		VehicleColor:            fs.VehicleColor,
		VehicleType:             fs.VehicleType,
		Hobbies:                 fs.Hobbies,
		FavoriteQuoteAndSaying:  fs.FavoriteQuoteAndSaying,
		ContractPreEmployeeCode: "PEC" + now.Format("20060102") + "001",
		CandidateCvID:           fmt.Sprintf("CV%d", 100000+rng.Intn(900000)),
		HealthInsuranceNumber:   fs.HealthInsuranceNumber,
		SocialInsuranceNumber:   fs.SocialInsuranceNumber,
		NumberOfDependents:      dependents,
	}
	if !fs.DateOfOnboard.IsZero() {
		rec.DateOfOnboard = fs.DateOfOnboard.Format(dateLayout)
	}

	// Relatives pass through unchanged; children join the same list.
	for _, r := range fs.EmployeeRelatives {
		rec.EmployeeRelatives = append(rec.EmployeeRelatives, WireRelative{
			FullName:              r.FullName,
			GenderParamCode:       r.GenderParamCode,
			Phone:                 r.Phone,
			BirthOfDate:           r.BirthOfDate.Format(dateLayout),
			RelationshipParamCode: r.RelationshipParamCode,
		})
	}
	for _, c := range fs.Children {
		rec.EmployeeRelatives = append(rec.EmployeeRelatives, WireRelative{
			FullName:              c.FullName,
			GenderParamCode:       c.GenderParamCode,
			Phone:                 "",
			BirthOfDate:           c.BirthOfDate.Format(dateLayout),
			RelationshipParamCode: childRelationship(c.GenderParamCode),
		})
	}

	return rec, nil
}

// childRelationship derives the relationship code stored for a child.
func childRelationship(gender string) string {
	switch gender {
	case models.GenderMale:
		return models.RelationshipSon
	case models.GenderFemale:
		return models.RelationshipDaughter
	default:
		return models.RelationshipChild
	}
}
