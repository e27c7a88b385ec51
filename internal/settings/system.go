package settings

import "github.com/ahrav/go-evalrules/internal/domain"

// SystemDefaults are deployment-level defaults applied to new evaluations.
// They are injected into the defaults initializer at construction instead of
// being read once into process-wide state.
type SystemDefaults struct {
	// SectionAware is the section awareness given to evaluations that do not enable it.
	SectionAware bool `json:"section_aware" env:"EVALSYS_SECTION_AWARE_DEFAULT" envDefault:"false"`

	// ResultsSharing is the sharing mode for evaluations without one.
	// Unrecognized values fall back to visible.
	ResultsSharing string `json:"results_sharing" env:"EVALSYS_RESULTS_SHARING_DEFAULT" envDefault:"visible"`

	// InstructorViewResponses seeds unset instructor view flags.
	InstructorViewResponses bool `json:"instructor_view_responses" env:"EVALSYS_INSTRUCTOR_VIEW_RESPONSES_DEFAULT" envDefault:"true"`
}

// DefaultSystemDefaults returns the built-in deployment defaults.
func DefaultSystemDefaults() SystemDefaults {
	return SystemDefaults{
		SectionAware:            false,
		ResultsSharing:          string(domain.SharingVisible),
		InstructorViewResponses: true,
	}
}

// SharingMode returns the configured sharing mode, or visible when the
// configured value is not a recognized mode.
func (d SystemDefaults) SharingMode() domain.ResultsSharing {
	if rs, ok := domain.ParseResultsSharing(d.ResultsSharing); ok {
		return rs
	}
	return domain.SharingVisible
}

// Overlay returns d with any of the three values present in p applied on top.
// This lets a settings store refresh the deployment defaults per call.
func (d SystemDefaults) Overlay(p Provider) SystemDefaults {
	if b, ok := Bool(p, SectionAwareDefault); ok {
		d.SectionAware = b
	}
	if s, ok := String(p, ResultsSharingDefault); ok {
		d.ResultsSharing = s
	}
	if b, ok := Bool(p, InstructorViewResponsesDefault); ok {
		d.InstructorViewResponses = b
	}
	return d
}
