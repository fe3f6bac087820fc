package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

var registry = map[string]ErrorTemplate{
	// Config (E100-E199)
	"E100": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "No hashnav.json, hashnav.yaml, or hashnav.yml was found in the project directory.",
	},
	"E101": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration value failed validation.",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Malformed configuration file",
		Detail:   "The configuration file could not be decoded.",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "Configuration file could not be written",
	},

	// CLI (E200-E299)
	"E200": {
		Category: CategoryCLI,
		Message:  "Invalid variable assignment",
		Detail:   "Variables are given as key=value. Prefix a key with - to remove it.",
	},
	"E201": {
		Category: CategoryCLI,
		Message:  "Missing argument",
	},

	// Bridge (E300-E399)
	"E300": {
		Category: CategoryBridge,
		Message:  "Server failed to start",
		Detail:   "The HTTP listener for the hash bridge could not be opened.",
	},
	"E301": {
		Category: CategoryBridge,
		Message:  "WebSocket upgrade failed",
	},
	"E302": {
		Category: CategoryBridge,
		Message:  "Invalid bridge message",
		Detail:   "A message from the browser could not be decoded.",
	},
	"E303": {
		Category: CategoryBridge,
		Message:  "Session not found",
	},

	// Links (E400-E499)
	"E400": {
		Category: CategoryLinks,
		Message:  "Link store unavailable",
		Detail:   "The configured link store backend could not be opened.",
	},
	"E401": {
		Category: CategoryLinks,
		Message:  "Link not found",
	},
	"E402": {
		Category: CategoryLinks,
		Message:  "Unknown link store backend",
		Detail:   `links.backend must be one of "memory", "sqlite", or "s3".`,
	},
	"E403": {
		Category: CategoryLinks,
		Message:  "Link store not configured",
		Detail:   "This server was started without a link store.",
	},
}

// GetAllCodes returns all registered error codes in ascending order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
