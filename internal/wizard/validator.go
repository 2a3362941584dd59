package wizard

import (
	"regexp"
	"strings"
	"unicode"
)

// Philippine mobile numbers: 09 or +639 followed by exactly 9 digits.
var contactNumberPattern = regexp.MustCompile(`^(09\d{9}|\+639\d{9})$`)

// Characters accepted as the password special character.
const passwordSpecialChars = "!@#$%^&*()_+-=[]{}|;:'\",.<>?/\\`~"

const passwordPolicyMessage = "Password must be at least 8 characters and contain an uppercase letter, a lowercase letter, a number, and a special character"

// Validate checks the given canonical step against the form and returns a
// fresh field-to-message map. An empty map means the step may be left.
// The map is rebuilt from scratch every call; callers replace stored errors,
// never merge. The form is not mutated.
func Validate(step int, form *FormData) map[string]string {
	errs := make(map[string]string)

	switch step {
	case StepBasicInfo:
		require(errs, form, FieldFirstName, "First name is required")
		require(errs, form, FieldLastName, "Last name is required")
		require(errs, form, FieldGender, "Gender is required")
		if require(errs, form, FieldContactNumber, "Contact number is required") {
			if !contactNumberPattern.MatchString(form.Get(FieldContactNumber)) {
				errs[FieldContactNumber] = "Contact number must start with 09 or +639 followed by 9 digits"
			}
		}
		require(errs, form, FieldFullAddress, "Full address is required")
		require(errs, form, FieldLatitude, "Location latitude is required")
		require(errs, form, FieldLongitude, "Location longitude is required")

	case StepEducation:
		require(errs, form, FieldAlumniID, "Alumni ID is required")
		require(errs, form, FieldCourseID, "Course is required")
		require(errs, form, FieldYearGraduated, "Year graduated is required")
		require(errs, form, FieldCertSerialNo, "Certificate serial number is required")
		require(errs, form, FieldCertName, "Certificate name is required")
		require(errs, form, FieldCertAwarded, "Certificate awarded date is required")
		if form.Certificate() == nil {
			errs[FieldCertFile] = "Certificate file is required"
		}

	case StepEmploymentStatus:
		require(errs, form, FieldEmpStatus, "Employment status is required")

	case StepEmploymentInfo:
		require(errs, form, FieldCompanyName, "Company name is required")
		require(errs, form, FieldJobTitle, "Job title is required")
		require(errs, form, FieldStartDate, "Start date is required")

	case StepEmploymentAddress:
		require(errs, form, FieldEmpFullAddress, "Employment address is required")
		require(errs, form, FieldEmpLatitude, "Employment latitude is required")
		require(errs, form, FieldEmpLongitude, "Employment longitude is required")

	case StepAccountInfo:
		require(errs, form, FieldEmail, "Email is required")
		if require(errs, form, FieldPassword, "Password is required") {
			if !validPassword(form.Get(FieldPassword)) {
				errs[FieldPassword] = passwordPolicyMessage
			}
		}
	}

	return errs
}

// require records a message when the field is empty; reports whether the
// field was present.
func require(errs map[string]string, form *FormData, key, message string) bool {
	if strings.TrimSpace(form.Get(key)) == "" {
		errs[key] = message
		return false
	}
	return true
}

// validPassword applies the account password policy as a single combined
// check; callers surface one message for any failure.
func validPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSpecialChars, r):
			special = true
		}
	}
	return upper && lower && digit && special
}
