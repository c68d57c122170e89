package errors

import "slices"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Definition Errors (R001-R009)
	// ============================================

	"R001": {
		Category: CategoryDefinition,
		Message:  "Invalid route definition",
		Detail:   "Route paths may not contain backslashes, NUL bytes, '?', '#', '.' or '..' segments, unnamed ':' segments, or the same parameter twice.",
	},
	"R002": {
		Category: CategoryDefinition,
		Message:  "Conflicting route declarations",
		Detail:   "Two routes disagree about the same position: different parameter names on one edge, the same path declared twice, or a reused route name. Set conflicts: override to keep the last declaration instead.",
	},
	"R003": {
		Category: CategoryDefinition,
		Message:  "Validator for unknown parameter",
		Detail:   "A params entry names a parameter that does not appear in the route path.",
	},
	"R004": {
		Category: CategoryDefinition,
		Message:  "Unsupported validator",
		Detail:   "Validators must be a function, or implement Parse, ValidateSync, or Decode.",
	},

	// ============================================
	// Navigation Errors (R010-R019)
	// ============================================

	"R010": {
		Category: CategoryNavigation,
		Message:  "Not a route",
		Detail:   "The position reached is only a prefix of longer routes. Declare it explicitly to make it renderable.",
	},
	"R011": {
		Category: CategoryLookup,
		Message:  "Route not found",
		Detail:   "No route is registered under this name.",
	},
	"R012": {
		Category: CategoryNavigation,
		Message:  "Invalid navigation",
		Detail:   "A value was given where no parameter follows, a query was given for a non-route, or a parameter rendered as empty text.",
	},
	"R013": {
		Category: CategoryLookup,
		Message:  "Missing path parameter",
		Detail:   "Every parameter of the route path needs a value.",
	},
	"R014": {
		Category: CategoryNavigation,
		Message:  "The route container is not a route",
		Detail:   "Navigation starts at the route container, which has no URL of its own. The root route \"/\" is rendered through the index accessor.",
	},

	// ============================================
	// Validation Errors (R020-R029)
	// ============================================

	"R020": {
		Category: CategoryValidation,
		Message:  "Value rejected by validator",
		Detail:   "A parameter or query value failed its validator.",
	},

	// ============================================
	// Config Errors (R040-R049)
	// ============================================

	"R040": {
		Category: CategoryConfig,
		Message:  "Routes file not found",
		Detail:   "The routes file could not be read.",
	},
	"R041": {
		Category: CategoryConfig,
		Message:  "Invalid routes file",
		Detail:   "The routes file could not be parsed.",
	},
	"R042": {
		Category: CategoryConfig,
		Message:  "Invalid config value",
		Detail:   "A setting in the routes file has an unsupported value.",
	},
	"R043": {
		Category: CategoryConfig,
		Message:  "Unknown validator",
		Detail:   "Validators are written as int, uint, float, bool, string, uuid, slug, regexp:<expr>, oneof:<a>|<b>, or cel:<expr>.",
	},

	// ============================================
	// CLI Errors (R050-R059)
	// ============================================

	"R050": {
		Category: CategoryCLI,
		Message:  "Invalid argument",
		Detail:   "A command argument or flag could not be parsed.",
	},

	"R099": {
		Message: "Unexpected error",
	},
}

// GetAllCodes returns all registered error codes, sorted.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
