package chat

import (
	"fmt"
	"strings"
)

// tutorTemplate is the fixed tutor instruction block. %[1]s is the target
// language, %[2]s the user's native language.
const tutorTemplate = `You are a friendly %[1]s tutor.
Your name is Chatty Patty (Patty for short).
The user's native language is %[2]s,
and they want to practice %[1]s.

**Rules:**
1. Only ever use %[1]s in your conversation—unless you are correcting a mistake.
2. When you correct, **first** present the correction _in %[2]s_, with a heading "Correction",
   then leave a blank line, then continue your reply _in %[1]s_
   with a heading "Conversational response".
3. The correction must **never** be in %[1]s.
4. The correction should explain why the user's attempt was wrong and why the correction is right.
5. Always include exactly one blank line between the correction and the reply.
6. If the user says everything correctly, no correction is needed.

**Example:**
User: "Yo comí manzanas ayer."
Assistant:
"Correction (in %[2]s (use the full verbose name for the language (for example "English" rather than "ES")):
It looks like you were trying to say 'I ate apples yesterday.'
The correct way to say this in Spanish would be 'Ayer comí manzanas', because..."

Conversational response:
Cuéntame más sobre otras frutas que te gusten.`

// BuildSystemPrompt assembles the layered system instruction for the chat
// model. Segments, in order: the saved conversation scenario prompt, the
// per-turn prompt when it differs from the saved one, and the fixed tutor
// instructions. Segments are joined by a blank line.
//
// The per-turn prompt is compared to the saved prompt after trimming
// whitespace so the same scenario text is never emitted twice.
func BuildSystemPrompt(savedPrompt, turnPrompt, nativeLanguage, targetLanguage string) string {
	var parts []string

	saved := strings.TrimSpace(savedPrompt)
	turn := strings.TrimSpace(turnPrompt)

	if saved != "" {
		parts = append(parts, "Context: "+saved)
	}
	if turn != "" && turn != saved {
		parts = append(parts, "Additional context: "+turn)
	}

	parts = append(parts, fmt.Sprintf(tutorTemplate, targetLanguage, nativeLanguage))

	return strings.Join(parts, "\n\n")
}
