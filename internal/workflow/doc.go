// Package workflow implements the Temporal workflows for the evaluation
// write path.
//
// Workflows here are deterministic: settings, identity lookups and event
// publication are delegated to activities, and every relative date is
// computed from workflow.Now so replays produce identical evaluations.
package workflow
