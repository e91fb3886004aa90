package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Config Errors (E100-E199)
	// ============================================

	"E101": {
		Category:   CategoryConfig,
		Message:    "Failed to read configuration file",
		Detail:     "The cellstore.toml file exists but could not be read.",
		Suggestion: "Check file permissions on cellstore.toml.",
	},
	"E102": {
		Category:   CategoryConfig,
		Message:    "Invalid configuration file",
		Detail:     "The cellstore.toml file is not valid TOML or holds values of the wrong type.",
		Suggestion: "Compare your cellstore.toml against the documented schema.",
	},
	"E103": {
		Category:   CategoryConfig,
		Message:    "Invalid environment override",
		Detail:     "A CELLSTORE_* environment variable could not be parsed into its config field.",
		Suggestion: "Unset the variable or fix its value; booleans take true/false, addresses take host:port.",
	},
	"E104": {
		Category:   CategoryConfig,
		Message:    "Unknown log level",
		Detail:     "The configured log level is not one of debug, info, warn, error.",
		Suggestion: "Set log.level to debug, info, warn, or error.",
	},

	// ============================================
	// Inspector Errors (E200-E299)
	// ============================================

	"E201": {
		Category:   CategoryInspect,
		Message:    "Store name already registered",
		Detail:     "Each store exposed by the inspector needs a unique name.",
		Suggestion: "Pick a distinct name for every Register call.",
	},
	"E202": {
		Category:   CategoryInspect,
		Message:    "Inspector failed to serve",
		Detail:     "The inspector HTTP listener stopped with an error.",
		Suggestion: "Check that the configured inspect address is free and bindable.",
	},

	// ============================================
	// CLI Errors (E300-E399)
	// ============================================

	"E301": {
		Category:   CategoryCLI,
		Message:    "Demo terminated unexpectedly",
		Detail:     "The terminal UI program exited with an error.",
		Suggestion: "Run in an interactive terminal; the demo cannot run with stdin closed.",
	},
}
