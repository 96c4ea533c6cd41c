// Package i18n localizes the few labels the engine owns: calendar month and
// weekday names and the display labels of the relationship codes. The UI
// language is a two-value preference (English or Vietnamese) kept apart from
// the submitted data.
package i18n

import (
	"golang.org/x/text/language"

	"github.com/hrinsight/onboardform/internal/models"
)

// Supported UI languages. Vietnamese is the default, as in the original form.
var (
	Vietnamese = language.Vietnamese
	English    = language.English
)

var matcher = language.NewMatcher([]language.Tag{Vietnamese, English})

// Match resolves an arbitrary language code ("en", "vi", "en-US", ...) to one
// of the two supported tags, defaulting to Vietnamese.
func Match(code string) language.Tag {
	tag, err := language.Parse(code)
	if err != nil {
		return Vietnamese
	}
	_, idx, _ := matcher.Match(tag)
	if idx == 1 {
		return English
	}
	return Vietnamese
}

var monthLabels = map[language.Tag][]string{
	English: {
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	},
	Vietnamese: {
		"Tháng 1", "Tháng 2", "Tháng 3", "Tháng 4", "Tháng 5", "Tháng 6",
		"Tháng 7", "Tháng 8", "Tháng 9", "Tháng 10", "Tháng 11", "Tháng 12",
	},
}

var weekdayLabels = map[language.Tag][]string{
	English:    {"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"},
	Vietnamese: {"CN", "T2", "T3", "T4", "T5", "T6", "T7"},
}

// MonthLabels returns the twelve month labels, January first.
func MonthLabels(tag language.Tag) []string {
	if l, ok := monthLabels[tag]; ok {
		return l
	}
	return monthLabels[Vietnamese]
}

// WeekdayLabels returns the seven weekday labels, Sunday first.
func WeekdayLabels(tag language.Tag) []string {
	if l, ok := weekdayLabels[tag]; ok {
		return l
	}
	return weekdayLabels[Vietnamese]
}

// SpouseLabel returns the display label of the SPOUSE relationship for a
// relative of the given gender. The stored code is always SPOUSE; only the
// label changes with the gender of the relative.
func SpouseLabel(tag language.Tag, relativeGender string) string {
	en := tag == English
	switch relativeGender {
	case models.GenderMale:
		if en {
			return "Wife"
		}
		return "Vợ"
	case models.GenderFemale:
		if en {
			return "Husband"
		}
		return "Chồng"
	default:
		if en {
			return "Spouse"
		}
		return "Vợ/Chồng"
	}
}

// RelationshipLabel returns the display label for a stored relationship code.
// For SPOUSE the label depends on the relative's gender, see SpouseLabel.
func RelationshipLabel(tag language.Tag, code, relativeGender string) string {
	if code == models.RelationshipSpouse {
		return SpouseLabel(tag, relativeGender)
	}
	en := tag == English
	labels := map[string][2]string{
		models.RelationshipFather:  {"Father", "Bố"},
		models.RelationshipMother:  {"Mother", "Mẹ"},
		models.RelationshipBrother: {"Brother", "Anh/Em trai"},
		models.RelationshipSister:  {"Sister", "Chị/Em gái"},
		models.RelationshipOther:   {"Other", "Khác"},
	}
	l, ok := labels[code]
	if !ok {
		return code
	}
	if en {
		return l[0]
	}
	return l[1]
}
