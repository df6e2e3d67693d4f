package recommend

import (
	"encoding/json"
	"fmt"
)

// systemPrompt fixes the required output shape. The adult-content
// prohibition backs up the keyword filter applied to the input signal.
const systemPrompt = "You are an AI that creates creative, descriptive recommendation categories " +
	"for a single user based on their Plex/Tautulli watch history and explicit likes/dislikes. " +
	"Never recommend explicit pornography or adult-only content. " +
	"You must generate recommendations for Movies, TV Series, AND Documentaries. " +
	"Respond ONLY with valid JSON in the following shape: " +
	`{"movies": [{"title": "...", "reason": "...", "items": [123]}], ` +
	`"tv": [{"title": "...", "reason": "...", "items": [456]}], ` +
	`"documentaries": [{"title": "...", "reason": "...", "items": [789]}]}. ` +
	"Each item in 'items' must be an integer TMDb ID. " +
	"Ensure 'items' contains valid TMDb IDs for the respective media type."

// BuildPrompt serializes the user context into the generation prompt.
func BuildPrompt(userContext *UserContext) (prompt, system string, err error) {
	contextJSON, err := json.Marshal(userContext)
	if err != nil {
		return "", "", fmt.Errorf("failed to serialize user context: %w", err)
	}

	prompt = fmt.Sprintf(
		"Here is the user's viewing context as JSON.\n\n%s\n\n"+
			"Using this data, generate several recommendation categories tailored to the user, "+
			"separated by 'movies', 'tv', and 'documentaries'. "+
			"Remember: respond only with JSON and no extra commentary.",
		contextJSON,
	)

	return prompt, systemPrompt, nil
}
