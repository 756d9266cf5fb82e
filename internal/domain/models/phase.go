// Package models contains domain models for the Data Plug Copilot service.
package models

// Phase represents the stage of the destination dialogue.
//
// The suggestion stage is a single phase; the position within the candidate
// list lives in ConversationContext.CurrentSuggestionIndex rather than in
// separate per-index phases.
type Phase string

const (
	// PhaseWaitingLocation waits for the user's current location.
	PhaseWaitingLocation Phase = "waiting_location"
	// PhaseAskingDestination waits for the destination.
	PhaseAskingDestination Phase = "asking_destination"
	// PhaseAskingPreferences waits for stopover wishes.
	PhaseAskingPreferences Phase = "asking_preferences"
	// PhaseSuggesting presents the candidate at CurrentSuggestionIndex.
	PhaseSuggesting Phase = "suggesting"
	// PhaseAskingOtherPreferences asks whether to search with other wishes.
	PhaseAskingOtherPreferences Phase = "asking_other_preferences"
	// PhaseNavigating is the steady en-route state accepting change requests.
	PhaseNavigating Phase = "navigating"
	// PhaseConfirmingDestinationChange waits for the new destination text.
	PhaseConfirmingDestinationChange Phase = "confirming_destination_change"
	// PhaseConfirmingStopoverChange presents a replacement stopover candidate.
	PhaseConfirmingStopoverChange Phase = "confirming_stopover_change"
)

// IsSuggestionPhase reports whether the phase expects a yes/no answer about
// a presented candidate.
func (p Phase) IsSuggestionPhase() bool {
	return p == PhaseSuggesting || p == PhaseConfirmingStopoverChange
}
