package conversation

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/dataplug/copilot-service/internal/domain/models"
	"github.com/dataplug/copilot-service/internal/services/llm"
	"github.com/dataplug/copilot-service/internal/services/retrieval"
)

// Turn is the outcome of advancing the dialogue by one user message.
type Turn struct {
	Reply       string
	Suggestions []string
	IsComplete  bool

	// Generated is true when the reply text came from the language model
	// rather than a scripted template. Only generated replies get audio.
	Generated bool

	// DestinationChanged and StopoverChanged signal that the orchestrator
	// should re-resolve coordinates for the named place.
	DestinationChanged bool
	StopoverChanged    bool
}

// Engine is the phase transition function of the dialogue. It mutates the
// given context (phase, stored fields, suggestion cursor) and returns the
// reply for this turn. It performs no persistence.
type Engine struct {
	llm       llm.Service
	retriever retrieval.Searcher
}

// NewEngine creates a dialogue engine.
func NewEngine(llmService llm.Service, retriever retrieval.Searcher) *Engine {
	return &Engine{llm: llmService, retriever: retriever}
}

// Step advances the dialogue by one user message. For a fixed input sequence
// and initial phase the resulting phase sequence is deterministic.
func (e *Engine) Step(ctx context.Context, conv *models.ConversationContext, input string) Turn {
	switch conv.Phase {
	case models.PhaseWaitingLocation:
		return e.stepWaitingLocation(conv, input)
	case models.PhaseAskingDestination:
		return e.stepAskingDestination(conv, input)
	case models.PhaseAskingPreferences:
		return e.stepAskingPreferences(ctx, conv, input)
	case models.PhaseSuggesting:
		return e.stepSuggesting(ctx, conv, input)
	case models.PhaseAskingOtherPreferences:
		return e.stepAskingOtherPreferences(ctx, conv, input)
	case models.PhaseNavigating:
		return e.stepNavigating(ctx, conv, input)
	case models.PhaseConfirmingDestinationChange:
		return e.stepConfirmingDestinationChange(conv, input)
	case models.PhaseConfirmingStopoverChange:
		return e.stepConfirmingStopoverChange(ctx, conv, input)
	default:
		// Unknown phase in a stored context. Restart the dialogue rather
		// than leaving the session stuck.
		log.Warn().Str("session_id", conv.SessionID).Str("phase", string(conv.Phase)).
			Msg("unknown phase, restarting dialogue")
		conv.Phase = models.PhaseWaitingLocation
		return Turn{Reply: welcomeMessage}
	}
}

func (e *Engine) stepWaitingLocation(conv *models.ConversationContext, input string) Turn {
	conv.CurrentLocation = strings.TrimSpace(input)
	conv.Phase = models.PhaseAskingDestination
	return Turn{Reply: askDestinationMessage}
}

func (e *Engine) stepAskingDestination(conv *models.ConversationContext, input string) Turn {
	conv.Destination = strings.TrimSpace(input)
	conv.Phase = models.PhaseAskingPreferences
	return Turn{Reply: confirmPreferencesMessage(conv.Destination), DestinationChanged: true}
}

func (e *Engine) stepAskingPreferences(ctx context.Context, conv *models.ConversationContext, input string) Turn {
	conv.AdditionalPreferences = strings.TrimSpace(input)
	return e.startSuggestionCycle(ctx, conv, models.PhaseSuggesting, noStopoverMessage)
}

// startSuggestionCycle runs retrieval and either enters the given suggestion
// phase or completes the dialogue with the supplied fallback reply. An empty
// or failed retrieval is treated as the user declining all stopovers.
func (e *Engine) startSuggestionCycle(ctx context.Context, conv *models.ConversationContext, phase models.Phase, emptyReply string) Turn {
	query := strings.TrimSpace(conv.Destination + " " + conv.AdditionalPreferences)
	results, err := e.retriever.Search(ctx, query, models.MaxSuggestions)
	if err != nil {
		log.Warn().Err(err).Str("session_id", conv.SessionID).Msg("retrieval failed, treating as no candidates")
		results = nil
	}

	candidates := retrieval.Candidates(results)
	if len(candidates) == 0 {
		conv.Suggestions = nil
		conv.CurrentSuggestionIndex = 0
		conv.Phase = models.PhaseNavigating
		return Turn{Reply: emptyReply, IsComplete: phase == models.PhaseSuggesting}
	}

	conv.SetSuggestions(candidates)
	conv.Phase = phase
	if phase == models.PhaseConfirmingStopoverChange {
		return Turn{Reply: presentReplacementMessage(candidates[0]), Suggestions: yesNoSuggestions()}
	}
	return Turn{Reply: presentCandidateMessage(candidates[0], 0), Suggestions: yesNoSuggestions()}
}

func (e *Engine) stepSuggesting(ctx context.Context, conv *models.ConversationContext, input string) Turn {
	candidate, ok := conv.CurrentSuggestion()
	if !ok {
		// Cursor past the list, should have left this phase already.
		conv.Phase = models.PhaseAskingOtherPreferences
		return Turn{Reply: askOtherPreferencesMessage}
	}

	switch e.classify(ctx, input, candidate) {
	case llm.JudgmentAffirmative:
		conv.SelectedStopover = candidate.PlaceName
		conv.Phase = models.PhaseNavigating
		return Turn{
			Reply:           acceptStopoverMessage(candidate.PlaceName, conv.Destination),
			IsComplete:      true,
			StopoverChanged: true,
		}
	case llm.JudgmentNegative:
		conv.CurrentSuggestionIndex++
		if next, ok := conv.CurrentSuggestion(); ok {
			return Turn{
				Reply:       presentCandidateMessage(next, conv.CurrentSuggestionIndex),
				Suggestions: yesNoSuggestions(),
			}
		}
		conv.Phase = models.PhaseAskingOtherPreferences
		return Turn{Reply: askOtherPreferencesMessage}
	default:
		// Ambiguous answer. Ask again without advancing.
		return Turn{Reply: repromptMessage, Suggestions: yesNoSuggestions()}
	}
}

func (e *Engine) stepAskingOtherPreferences(ctx context.Context, conv *models.ConversationContext, input string) Turn {
	if e.classifyPlain(ctx, input) == llm.JudgmentNegative {
		conv.Suggestions = nil
		conv.CurrentSuggestionIndex = 0
		conv.Phase = models.PhaseNavigating
		return Turn{Reply: directToDestinationMessage, IsComplete: true}
	}

	// Any other answer is taken as a fresh preference to search with.
	conv.AdditionalPreferences = strings.TrimSpace(input)
	return e.startSuggestionCycle(ctx, conv, models.PhaseSuggesting, noStopoverMessage)
}

func (e *Engine) stepNavigating(ctx context.Context, conv *models.ConversationContext, input string) Turn {
	switch {
	case wantsDestinationChange(input):
		conv.Phase = models.PhaseConfirmingDestinationChange
		return Turn{Reply: askNewDestinationMessage}
	case wantsStopoverChange(input):
		return e.startSuggestionCycle(ctx, conv, models.PhaseConfirmingStopoverChange, noReplacementMessage)
	default:
		// Free chat while en route. The caller has already appended the
		// user message, so the model sees the full history as-is.
		reply := e.llm.GenerateResponse(ctx, conv.Messages)
		return Turn{Reply: reply, Generated: true}
	}
}

func (e *Engine) stepConfirmingDestinationChange(conv *models.ConversationContext, input string) Turn {
	conv.Destination = strings.TrimSpace(input)
	conv.DestinationInfo = nil
	conv.Phase = models.PhaseNavigating
	return Turn{Reply: destinationChangedMessage(conv.Destination), DestinationChanged: true}
}

func (e *Engine) stepConfirmingStopoverChange(ctx context.Context, conv *models.ConversationContext, input string) Turn {
	candidate, ok := conv.CurrentSuggestion()
	if !ok {
		conv.Phase = models.PhaseNavigating
		return Turn{Reply: stopoverUnchangedMessage}
	}

	switch e.classify(ctx, input, candidate) {
	case llm.JudgmentAffirmative:
		conv.SelectedStopover = candidate.PlaceName
		conv.Phase = models.PhaseNavigating
		return Turn{Reply: replaceStopoverMessage(candidate.PlaceName), StopoverChanged: true}
	case llm.JudgmentNegative:
		conv.CurrentSuggestionIndex++
		if next, ok := conv.CurrentSuggestion(); ok {
			return Turn{Reply: presentReplacementMessage(next), Suggestions: yesNoSuggestions()}
		}
		// Candidates exhausted. Keep the current stopover.
		conv.Phase = models.PhaseNavigating
		return Turn{Reply: stopoverUnchangedMessage}
	default:
		return Turn{Reply: repromptMessage, Suggestions: yesNoSuggestions()}
	}
}

func (e *Engine) classify(ctx context.Context, input string, candidate models.SuggestionCandidate) llm.Judgment {
	situation := "提案した立ち寄り先: " + candidate.PlaceName
	return e.llm.ClassifyAffirmation(ctx, input, situation)
}

func (e *Engine) classifyPlain(ctx context.Context, input string) llm.Judgment {
	return e.llm.ClassifyAffirmation(ctx, input, "他の希望条件があるか尋ねた")
}

var destinationChangePhrases = []string{
	"目的地を変",
	"目的地変更",
	"行き先を変",
	"行き先変更",
}

var stopoverChangePhrases = []string{
	"立ち寄り先を変",
	"立ち寄り場所を変",
	"寄り道を変",
	"別の立ち寄り",
	"スポットを変",
}

func wantsDestinationChange(input string) bool {
	return containsAny(input, destinationChangePhrases)
}

func wantsStopoverChange(input string) bool {
	return containsAny(input, stopoverChangePhrases)
}

func containsAny(input string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(input, p) {
			return true
		}
	}
	return false
}
