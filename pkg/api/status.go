package api

import "strings"

// Phase is the lifecycle state of a run or a task as reported by the platform.
// Casing depends on the backend version (Argo phases for v1, upper case states for v2).
type Phase string

const (
	// PhaseUnknown is used when no status could be found.
	PhaseUnknown Phase = "unknown"

	// PhasePending run or task accepted but not started
	PhasePending Phase = "Pending"

	// PhaseRunning run or task in progress
	PhaseRunning Phase = "Running"

	// PhaseSucceeded run or task completed successfully
	PhaseSucceeded Phase = "Succeeded"

	// PhaseFailed run or task failed
	PhaseFailed Phase = "Failed"

	// PhaseError run or task could not be executed by the platform
	PhaseError Phase = "Error"

	// PhaseSkipped task skipped by a condition
	PhaseSkipped Phase = "Skipped"

	// PhaseOmitted task omitted by the workflow engine
	PhaseOmitted Phase = "Omitted"

	// PhaseCanceled run canceled by a user
	PhaseCanceled Phase = "Canceled"
)

// Finished returns true if the phase is considered final.
// Comparison is case insensitive so that v1 (Succeeded) and v2 (SUCCEEDED) phases are handled.
func (p Phase) Finished() bool {
	for _, fp := range []Phase{PhaseSucceeded, PhaseFailed, PhaseError, PhaseSkipped, PhaseOmitted, PhaseCanceled, "Cancelled", "Completed"} {
		if strings.EqualFold(string(p), string(fp)) {
			return true
		}
	}
	return false
}

// Is returns true if both phases are equal ignoring case.
func (p Phase) Is(other Phase) bool {
	return strings.EqualFold(string(p), string(other))
}
