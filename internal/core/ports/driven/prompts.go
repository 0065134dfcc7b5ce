package driven

// PromptStore provides access to LLM prompt templates.
type PromptStore interface {
	// Load returns the prompt template for the given name, falling back to
	// the built-in default when no override exists.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptContentSystem is the system prompt for content suggestions.
	// It has no format placeholders.
	PromptContentSystem = "content_system"

	// PromptFeedbackSystem is the system prompt for whole-document feedback.
	// It has no format placeholders.
	PromptFeedbackSystem = "feedback_system"

	// PromptFeedbackUser wraps the document for whole-document feedback.
	// The template expects a %s placeholder for the content.
	PromptFeedbackUser = "feedback_user"
)

// PromptStoreAware is implemented by services whose prompts can be
// customised after construction.
type PromptStoreAware interface {
	SetPromptStore(store PromptStore)
}
