package errors

// Template defines a registered error type.
type Template struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]Template{
	// ============================================
	// Runtime Errors (E001-E019)
	// ============================================

	"E001": {
		Category: CategoryRuntime,
		Message:  "Hook called outside render",
		Detail:   "Hooks read the controller of the render body currently being loaded. Call them only from inside a render function.",
	},
	"E002": {
		Category: CategoryRuntime,
		Message:  "Hook order changed",
		Detail:   "Hooks are identified by call position. Every render of the same instance must call the same hooks in the same order.",
	},
	"E003": {
		Category: CategoryRuntime,
		Message:  "Render failed",
		Detail:   "The render body of a component instance failed and the pass was not committed.",
	},

	// ============================================
	// Config Errors (E020-E029)
	// ============================================

	"E020": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "livetree.json could not be parsed as JSON.",
	},
	"E021": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration field holds a value outside its allowed range.",
	},

	// ============================================
	// Document Errors (E030-E039)
	// ============================================

	"E030": {
		Category: CategoryDocument,
		Message:  "Invalid tree document",
		Detail:   "The tree document could not be decoded as YAML or JSON.",
	},
	"E031": {
		Category: CategoryDocument,
		Message:  "Invalid tree node",
		Detail:   "A node must be a text scalar or a mapping with a type.",
	},

	// ============================================
	// Sink Errors (E040-E049)
	// ============================================

	"E040": {
		Category: CategorySink,
		Message:  "Snapshot upload failed",
		Detail:   "The snapshot could not be written to its sink.",
	},

	// ============================================
	// CLI Errors (E050-E059)
	// ============================================

	"E050": {
		Category: CategoryCLI,
		Message:  "Invalid command usage",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template Template) {
	registry[code] = template
}
