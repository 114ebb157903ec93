package services

import "google.golang.org/genai"

// Modes accepted by SwitchMode that change the system message.
const (
	ModeTechnical = "technical"
	ModeSummary   = "summary"
)

const technicalSystemMessage = `You are a precise and concise technical assistant who:
1. Provides ONLY the specific information requested
2. Avoids including unnecessary details not asked for
3. Formats responses in a clear, structured way
4. Never adds unrequested information
5. Responds in the most brief way possible while being complete
6. If multiple items are found, presents them in a list format
7. If specific information is not found, clearly states that`

const summarySystemMessage = `You are a concise document analyzer who:
1. Provides ONLY the exact information requested
2. Keeps responses as brief as possible
3. Uses bullet points for multiple items
4. Avoids any unnecessary elaboration
5. Sticks strictly to answering the specific question asked
6. Never includes additional context unless specifically requested`

// SystemMessageFor returns the system message of a known mode.
func SystemMessageFor(mode string) (string, bool) {
	switch mode {
	case ModeTechnical:
		return technicalSystemMessage, true
	case ModeSummary:
		return summarySystemMessage, true
	default:
		return "", false
	}
}

// systemContent wraps a system message for the Gemini API.
func systemContent(message string) *genai.Content {
	contents := genai.Text(message)
	if len(contents) == 0 {
		return nil
	}
	return contents[0]
}
