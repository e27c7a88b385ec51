// Package visibility decides when evaluation results may be viewed: the
// response-rate gate and the instructor visibility rules built on one shared
// eligibility computation.
package visibility

// ResponsesNeededToView returns how many more responses are required before
// results become viewable. Zero means viewable now.
//
// Administrators are never gated. A population that has fully responded,
// including an unknown population reported as zero enrollments, is never
// gated either.
func ResponsesNeededToView(responses, enrollments int, isAdmin bool, minResponses int) int {
	if isAdmin {
		return 0
	}
	needed := minResponses - responses
	if responses >= enrollments {
		needed = 0
	}
	return max(needed, 0)
}
