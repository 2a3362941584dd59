package wizard

// Canonical step numbers. The numbering is stable even when a session skips
// the employment branch, so validation rules and progress reporting both key
// off the same identifiers.
const (
	StepBasicInfo = iota + 1
	StepEducation
	StepEducationalBackground
	StepSkillsCertifications
	StepEmploymentStatus
	StepEmploymentInfo
	StepEmploymentAddress
	StepAccountInfo
	StepReview
)

// TotalSteps is the number of canonical steps.
const TotalSteps = StepReview

// Employment status codes as reported by the status step.
const (
	EmpStatusUnemployed = "0"
	EmpStatusFreelance  = "1"
	EmpStatusEmployed   = "2"
)

// skipsEmployment reports whether the employment info/address steps are
// skipped for the given status.
func skipsEmployment(empStatus string) bool {
	return empStatus == EmpStatusUnemployed || empStatus == EmpStatusFreelance
}

// VisibleSteps returns the ordered canonical steps reachable for the given
// employment status. Unemployed and freelance registrants skip the employment
// info and address steps. Pure: it consults nothing but its argument.
func VisibleSteps(empStatus string) []int {
	if skipsEmployment(empStatus) {
		return []int{
			StepBasicInfo,
			StepEducation,
			StepEducationalBackground,
			StepSkillsCertifications,
			StepAccountInfo,
			StepReview,
		}
	}
	return []int{
		StepBasicInfo,
		StepEducation,
		StepEducationalBackground,
		StepSkillsCertifications,
		StepEmploymentStatus,
		StepEmploymentInfo,
		StepEmploymentAddress,
		StepAccountInfo,
		StepReview,
	}
}

// DisplayedIndex returns the 1-based position of step within visible, for
// "step X of Y" progress display. Returns 0 when step is not a member.
func DisplayedIndex(step int, visible []int) int {
	for i, s := range visible {
		if s == step {
			return i + 1
		}
	}
	return 0
}
