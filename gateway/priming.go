package gateway

import (
	"fmt"

	"github.com/hupe1980/deskbrief/core"
)

const conversationalPrimingTemplate = "You are a helpful AI assistant for the organization. " +
	"You have access to the following company knowledge base. Use this information to answer " +
	"questions and help employees.\n\n%s\n\nPlease acknowledge that you have this knowledge."

const conversationalAck = "I understand. I have access to the organization's complete knowledge " +
	"base including employee directory, company policies, procedures and protocols, company " +
	"information, and business strategy. I'm ready to help you with any questions about the " +
	"company, processes, or to guide you through tasks."

const extractionPrimingTemplate = "You are a helpful AI assistant for the organization. " +
	"You have access to the following company knowledge base. Use this information to answer " +
	"questions and help employees.\n\n%s\n\nYou should extract action points and consideration " +
	"points from conversations and meetings. Action points are tasks that need to be completed " +
	"with priorities and optional due dates. Consideration points are important notes, " +
	"observations, or things to keep in mind."

const extractionAck = "I understand. I have access to the organization's complete knowledge base " +
	"and I'm ready to help extract action points and consideration points from your " +
	"conversations and meetings in a structured format."

const extractionTurnTemplate = `Please analyze the following text and extract action points and consideration points:

%s

Extract:
- Action points: Specific tasks that need to be completed, with priority levels (low/medium/high) and optional due dates
- Consideration points: Important notes, observations, decisions, or things to keep in mind, categorized appropriately`

// priming builds the two seed turns injected at session creation: the
// mode-specific instruction carrying the full knowledge briefing, and the
// model acknowledgment that commits the session to its persona.
func priming(mode core.Mode, briefing string) []core.Content {
	switch mode {
	case core.ModeExtraction:
		return []core.Content{
			core.NewUserContent(fmt.Sprintf(extractionPrimingTemplate, briefing)),
			core.NewModelContent(extractionAck),
		}
	default:
		return []core.Content{
			core.NewUserContent(fmt.Sprintf(conversationalPrimingTemplate, briefing)),
			core.NewModelContent(conversationalAck),
		}
	}
}

// extractionTurn wraps a caller message in the instruction template that
// restates the extraction task for this turn.
func extractionTurn(message string) string {
	return fmt.Sprintf(extractionTurnTemplate, message)
}
