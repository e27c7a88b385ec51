package visibility

import (
	"github.com/ahrav/go-evalrules/internal/domain"
	"github.com/ahrav/go-evalrules/internal/settings"
)

// Viewability maps a lifecycle state to the state used for results
// visibility. An implementation may promote a state but never demote it.
type Viewability interface {
	Calculate(state domain.State) domain.State
}

// ViewabilityFunc adapts a function to Viewability.
type ViewabilityFunc func(state domain.State) domain.State

// Calculate implements Viewability.
func (f ViewabilityFunc) Calculate(state domain.State) domain.State { return f(state) }

// NaturalViewability returns every state unchanged.
var NaturalViewability Viewability = ViewabilityFunc(func(s domain.State) domain.State { return s })

// SettingsViewability promotes started but not yet viewable evaluations to
// Viewable when VIEW_SURVEY_RESULTS_IGNORE_DATES is enabled.
type SettingsViewability struct {
	Settings settings.Provider
}

// Calculate implements Viewability.
func (v SettingsViewability) Calculate(state domain.State) domain.State {
	if !settings.BoolOr(v.Settings, settings.ViewSurveyResultsIgnoreDates, false) {
		return state
	}
	if state.IsAfter(domain.StateActive, true) && state.IsBefore(domain.StateViewable, false) {
		return domain.StateViewable
	}
	return state
}
