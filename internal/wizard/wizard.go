package wizard

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrValidationFailed is returned by Advance when the current step's
	// validation produced errors; the wizard stays on the step.
	ErrValidationFailed = errors.New("step validation failed")

	// ErrAtFinalStep is returned by Advance on the review step, which has no
	// forward transition.
	ErrAtFinalStep = errors.New("review step has no forward transition")

	// ErrNotOnReviewStep is returned when submission is attempted before the
	// review step has been reached.
	ErrNotOnReviewStep = errors.New("wizard is not on the review step")

	// ErrConsentRequired is returned when submission is attempted without the
	// privacy policy having been acknowledged.
	ErrConsentRequired = errors.New("privacy policy has not been acknowledged")

	// ErrSubmissionInFlight guards against duplicate submissions while one is
	// still resolving.
	ErrSubmissionInFlight = errors.New("submission already in flight")
)

// Wizard owns one registrant's multi-step registration state. All methods
// are safe for concurrent use; each runs to completion under the session
// lock, mirroring the UI event loop the step views dispatch from.
type Wizard struct {
	mu                  sync.Mutex
	id                  uuid.UUID
	createdAt           time.Time
	currentStep         int
	form                *FormData
	validationErrors    map[string]string
	submissionInFlight  bool
	privacyAcknowledged bool
}

// New creates a wizard at the first step with an empty form.
func New() *Wizard {
	return &Wizard{
		id:               uuid.New(),
		createdAt:        time.Now(),
		currentStep:      StepBasicInfo,
		form:             NewFormData(),
		validationErrors: make(map[string]string),
	}
}

// ID returns the session identifier.
func (w *Wizard) ID() uuid.UUID {
	return w.id
}

// SetField applies a single field change, last write wins.
func (w *Wizard) SetField(key, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.form.Set(key, value)
}

// AddTechnicalSkill records a catalog technical-skill selection.
func (w *Wizard) AddTechnicalSkill(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.form.AddTechnicalSkill(id)
}

// AddSoftSkill records a catalog soft-skill selection.
func (w *Wizard) AddSoftSkill(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.form.AddSoftSkill(id)
}

// AddCustomTechnicalSkill records a free-text technical skill.
func (w *Wizard) AddCustomTechnicalSkill(name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.form.AddCustomTechnicalSkill(name)
}

// AddCustomSoftSkill records a free-text soft skill.
func (w *Wizard) AddCustomSoftSkill(name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.form.AddCustomSoftSkill(name)
}

// AttachCertificate stores the uploaded certificate file in the session.
func (w *Wizard) AttachCertificate(filename string, content []byte) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.form.AttachCertificate(filename, content)
}

// AcknowledgePrivacy records the privacy-policy acknowledgment that gates
// final submission.
func (w *Wizard) AcknowledgePrivacy() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.privacyAcknowledged = true
}

// Advance validates the current step and moves forward on success. On
// failure the fresh error map replaces any previous one and the step does
// not change. Leaving the employment-status step with an unemployed or
// freelance answer jumps straight to account info; the branch is decided
// from the employment status at this moment, not a cached one.
func (w *Wizard) Advance() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.currentStep == StepReview {
		return ErrAtFinalStep
	}

	errs := Validate(w.currentStep, w.form)
	if len(errs) > 0 {
		w.validationErrors = errs
		return ErrValidationFailed
	}
	w.validationErrors = make(map[string]string)

	if w.currentStep == StepEmploymentStatus && skipsEmployment(w.form.EmploymentStatus()) {
		w.currentStep = StepAccountInfo
		return nil
	}
	w.currentStep++
	return nil
}

// Retreat moves one step back. It never validates and never fails; entering
// account info backwards with an unemployed or freelance answer restores the
// employment-status branch point rather than walking the skipped steps. At
// the first step it is a no-op.
func (w *Wizard) Retreat() {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch {
	case w.currentStep == StepBasicInfo:
	case w.currentStep == StepAccountInfo && skipsEmployment(w.form.EmploymentStatus()):
		w.currentStep = StepEmploymentStatus
	default:
		w.currentStep--
	}
}

// BeginSubmit checks the submission preconditions, flags the wizard as in
// flight and hands back a detached form copy for payload assembly. EndSubmit
// must be called once the network attempt resolves, success or not.
func (w *Wizard) BeginSubmit() (*FormData, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.currentStep != StepReview {
		return nil, ErrNotOnReviewStep
	}
	if !w.privacyAcknowledged {
		return nil, ErrConsentRequired
	}
	if w.submissionInFlight {
		return nil, ErrSubmissionInFlight
	}
	w.submissionInFlight = true
	return w.form.Clone(), nil
}

// EndSubmit clears the in-flight flag so the registrant may retry manually.
func (w *Wizard) EndSubmit() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.submissionInFlight = false
}

// CurrentStep returns the canonical step the wizard is on.
func (w *Wizard) CurrentStep() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.currentStep
}

// ValidationErrors returns a copy of the errors from the latest failed
// Advance; empty after a successful one.
func (w *Wizard) ValidationErrors() map[string]string {
	w.mu.Lock()
	defer w.mu.Unlock()
	errs := make(map[string]string, len(w.validationErrors))
	for k, v := range w.validationErrors {
		errs[k] = v
	}
	return errs
}

// Snapshot is the read-only view handed to step views.
type Snapshot struct {
	ID                  string            `json:"id"`
	CurrentStep         int               `json:"current_step"`
	DisplayedStep       int               `json:"displayed_step"`
	TotalSteps          int               `json:"total_steps"`
	VisibleSteps        []int             `json:"visible_steps"`
	PercentComplete     float64           `json:"percent_complete"`
	ValidationErrors    map[string]string `json:"validation_errors"`
	SubmissionInFlight  bool              `json:"submission_in_flight"`
	PrivacyAcknowledged bool              `json:"privacy_acknowledged"`
	Form                FormSnapshot      `json:"form"`
}

// FormSnapshot echoes the collected values so step views can re-render
// without holding mutable references. The password value never leaves the
// server; a mask stands in when one is set.
type FormSnapshot struct {
	Fields           map[string]string `json:"fields"`
	TechnicalSkills  []string          `json:"technical_skills_logs"`
	SoftSkills       []string          `json:"soft_skills_logs"`
	CustomTechSkills []string          `json:"custom_tech_skills"`
	CustomSoftSkills []string          `json:"custom_soft_skills"`
	CertificateName  string            `json:"certificate_name,omitempty"`
}

// Snapshot returns the current read-only view of the wizard.
func (w *Wizard) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	visible := VisibleSteps(w.form.EmploymentStatus())
	displayed := DisplayedIndex(w.currentStep, visible)

	var percent float64
	if displayed > 0 {
		percent = float64(displayed) / float64(len(visible)) * 100
	}

	fields := make(map[string]string, len(scalarFields))
	for _, key := range scalarFields {
		fields[key] = w.form.Get(key)
	}
	if fields[FieldPassword] != "" {
		fields[FieldPassword] = strings.Repeat("*", 8)
	}

	errs := make(map[string]string, len(w.validationErrors))
	for k, v := range w.validationErrors {
		errs[k] = v
	}

	certName := ""
	if cert := w.form.Certificate(); cert != nil {
		certName = cert.Filename
	}

	return Snapshot{
		ID:                  w.id.String(),
		CurrentStep:         w.currentStep,
		DisplayedStep:       displayed,
		TotalSteps:          len(visible),
		VisibleSteps:        visible,
		PercentComplete:     percent,
		ValidationErrors:    errs,
		SubmissionInFlight:  w.submissionInFlight,
		PrivacyAcknowledged: w.privacyAcknowledged,
		Form: FormSnapshot{
			Fields:           fields,
			TechnicalSkills:  w.form.TechnicalSkills(),
			SoftSkills:       w.form.SoftSkills(),
			CustomTechSkills: w.form.CustomTechnicalSkills(),
			CustomSoftSkills: w.form.CustomSoftSkills(),
			CertificateName:  certName,
		},
	}
}
