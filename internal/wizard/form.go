package wizard

import (
	"errors"
	"fmt"
	"strings"
)

// Multipart field names for everything the wizard collects. These are the
// wire contract with the registration endpoint and double as the stable keys
// of the form aggregate and of validation error maps.
const (
	FieldFirstName          = "alm_first_name"
	FieldLastName           = "alm_last_name"
	FieldGender             = "alm_gender"
	FieldContactNumber      = "alm_contact_number"
	FieldFullAddress        = "add_full_address"
	FieldLatitude           = "add_lat"
	FieldLongitude          = "add_long"
	FieldAlumniID           = "alm_id"
	FieldCourseID           = "course_id"
	FieldYearGraduated      = "year_graduated"
	FieldMastersType        = "masters_type"
	FieldMastersInstitution = "masters_institution"
	FieldCertSerialNo       = "cert_serial_no"
	FieldCertName           = "cert_name"
	FieldCertAwarded        = "cert_awarded"
	FieldEmpStatus          = "emp_status"
	FieldCompanyName        = "company_name"
	FieldJobTitle           = "job_title"
	FieldStartDate          = "start_date"
	FieldEmpFullAddress     = "emp_full_address"
	FieldEmpLatitude        = "emp_lat"
	FieldEmpLongitude       = "emp_long"
	FieldEmail              = "email"
	FieldPassword           = "password"
)

// Part names for the non-scalar payload members.
const (
	FieldCertFile         = "cert_file"
	FieldTechnicalSkills  = "technical_skills_logs[]"
	FieldSoftSkills       = "soft_skills_logs[]"
	FieldCustomTechSkills = "custom_tech_skills"
	FieldCustomSoftSkills = "custom_soft_skills"
)

// scalarFields lists every scalar key in payload order.
var scalarFields = []string{
	FieldFirstName,
	FieldLastName,
	FieldGender,
	FieldContactNumber,
	FieldFullAddress,
	FieldLatitude,
	FieldLongitude,
	FieldAlumniID,
	FieldCourseID,
	FieldYearGraduated,
	FieldMastersType,
	FieldMastersInstitution,
	FieldCertSerialNo,
	FieldCertName,
	FieldCertAwarded,
	FieldEmpStatus,
	FieldCompanyName,
	FieldJobTitle,
	FieldStartDate,
	FieldEmpFullAddress,
	FieldEmpLatitude,
	FieldEmpLongitude,
	FieldEmail,
	FieldPassword,
}

// ScalarFieldNames returns every scalar field key in payload order.
func ScalarFieldNames() []string {
	return append([]string(nil), scalarFields...)
}

// ErrUnknownField is returned when a patch references a key the form does
// not collect.
var ErrUnknownField = errors.New("unknown form field")

// Certificate is the uploaded certificate file held in the session until
// submission. The bytes are forwarded verbatim, never stored elsewhere.
type Certificate struct {
	Filename string
	Content  []byte
}

// FormData is the flat aggregate of every field collected across steps.
// Keys are fixed at creation and never removed; only values change.
type FormData struct {
	scalars          map[string]string
	technicalSkills  []string
	softSkills       []string
	customTechSkills []string
	customSoftSkills []string
	certificate      *Certificate
}

// NewFormData returns a form with every scalar key present and empty.
func NewFormData() *FormData {
	scalars := make(map[string]string, len(scalarFields))
	for _, key := range scalarFields {
		scalars[key] = ""
	}
	return &FormData{scalars: scalars}
}

// Set overwrites the value of a known scalar key. Unknown keys are rejected
// rather than introduced.
func (f *FormData) Set(key, value string) error {
	if _, ok := f.scalars[key]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	f.scalars[key] = value
	return nil
}

// Get returns the current value of a scalar key, or "" for unknown keys.
func (f *FormData) Get(key string) string {
	return f.scalars[key]
}

// EmploymentStatus returns the current employment status answer.
func (f *FormData) EmploymentStatus() string {
	return f.scalars[FieldEmpStatus]
}

// AddTechnicalSkill records a catalog skill selection; duplicates are
// ignored. Reports whether the list changed.
func (f *FormData) AddTechnicalSkill(id string) bool {
	var added bool
	f.technicalSkills, added = appendUnique(f.technicalSkills, id)
	return added
}

// AddSoftSkill records a catalog soft-skill selection; duplicates are ignored.
func (f *FormData) AddSoftSkill(id string) bool {
	var added bool
	f.softSkills, added = appendUnique(f.softSkills, id)
	return added
}

// AddCustomTechnicalSkill records a free-text technical skill not present in
// the catalog.
func (f *FormData) AddCustomTechnicalSkill(name string) bool {
	var added bool
	f.customTechSkills, added = appendUnique(f.customTechSkills, strings.TrimSpace(name))
	return added
}

// AddCustomSoftSkill records a free-text soft skill not present in the catalog.
func (f *FormData) AddCustomSoftSkill(name string) bool {
	var added bool
	f.customSoftSkills, added = appendUnique(f.customSoftSkills, strings.TrimSpace(name))
	return added
}

func appendUnique(list []string, value string) ([]string, bool) {
	if value == "" {
		return list, false
	}
	for _, v := range list {
		if v == value {
			return list, false
		}
	}
	return append(list, value), true
}

// TechnicalSkills returns a copy of the selected technical skill ids.
func (f *FormData) TechnicalSkills() []string {
	return append([]string(nil), f.technicalSkills...)
}

// SoftSkills returns a copy of the selected soft skill ids.
func (f *FormData) SoftSkills() []string {
	return append([]string(nil), f.softSkills...)
}

// CustomTechnicalSkills returns a copy of the free-text technical skills.
func (f *FormData) CustomTechnicalSkills() []string {
	return append([]string(nil), f.customTechSkills...)
}

// CustomSoftSkills returns a copy of the free-text soft skills.
func (f *FormData) CustomSoftSkills() []string {
	return append([]string(nil), f.customSoftSkills...)
}

// AttachCertificate stores the uploaded certificate file. A later upload
// replaces an earlier one.
func (f *FormData) AttachCertificate(filename string, content []byte) {
	f.certificate = &Certificate{Filename: filename, Content: content}
}

// Certificate returns the attached certificate file, or nil when none has
// been uploaded.
func (f *FormData) Certificate() *Certificate {
	if f.certificate == nil {
		return nil
	}
	cert := *f.certificate
	return &cert
}

// Clone returns a detached copy safe to read while the original keeps
// mutating. Certificate bytes are shared; they are written once on upload.
func (f *FormData) Clone() *FormData {
	scalars := make(map[string]string, len(f.scalars))
	for k, v := range f.scalars {
		scalars[k] = v
	}
	return &FormData{
		scalars:          scalars,
		technicalSkills:  append([]string(nil), f.technicalSkills...),
		softSkills:       append([]string(nil), f.softSkills...),
		customTechSkills: append([]string(nil), f.customTechSkills...),
		customSoftSkills: append([]string(nil), f.customSoftSkills...),
		certificate:      f.Certificate(),
	}
}
