package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestVisibleSteps(t *testing.T) {
	full := []int{1, 2, 3, 4, 5, 6, 7, 8, 9}
	skipped := []int{1, 2, 3, 4, 8, 9}

	tests := []struct {
		empStatus string
		expected  []int
	}{
		{"", full},
		{EmpStatusUnemployed, skipped},
		{EmpStatusFreelance, skipped},
		{EmpStatusEmployed, full},
		{"other", full},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, VisibleSteps(tt.empStatus), "emp_status=%q", tt.empStatus)
	}
}

func TestVisibleStepsDeterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		status := rapid.OneOf(
			rapid.SampledFrom([]string{"", "0", "1", "2", "other"}),
			rapid.String(),
		).Draw(t, "status")

		first := VisibleSteps(status)
		second := VisibleSteps(status)
		assert.Equal(t, first, second)

		if status == EmpStatusUnemployed || status == EmpStatusFreelance {
			assert.Equal(t, []int{1, 2, 3, 4, 8, 9}, first)
		} else {
			assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9}, first)
		}
	})
}

func TestDisplayedIndex(t *testing.T) {
	visible := VisibleSteps(EmpStatusUnemployed)

	assert.Equal(t, 1, DisplayedIndex(StepBasicInfo, visible))
	assert.Equal(t, 5, DisplayedIndex(StepAccountInfo, visible))
	assert.Equal(t, 6, DisplayedIndex(StepReview, visible))

	// skipped steps are not members
	assert.Equal(t, 0, DisplayedIndex(StepEmploymentInfo, visible))
	assert.Equal(t, 0, DisplayedIndex(StepEmploymentAddress, visible))

	assert.Equal(t, 8, DisplayedIndex(StepAccountInfo, VisibleSteps(EmpStatusEmployed)))
}
