package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Returns the prompt content and any error encountered.
	// If the prompt is not found, implementations should return a sensible default
	// or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk, or after the
	// learning loop emits a prompt_patch adjustment.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptGenerateSystem is the system prompt for answer generation.
	// This prompt has no format placeholders.
	PromptGenerateSystem = "generate_system"

	// PromptReview asks the reviewer to assess an answer against evidence.
	// The template expects %s (query), %s (answer) and %s (evidence)
	// placeholders, in that order.
	PromptReview = "review"
)
