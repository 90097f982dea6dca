package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

const docBase = "https://github.com/vango-dev/vpbrowse/blob/main/docs/errors.md#"

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// Router (E101-E119)

	"E101": {
		Category: CategoryRouter,
		Message:  "Unroutable path",
		Detail:   "No registered route accepts the logical path. Nothing was rendered; the router stays ready for the next navigation.",
		DocURL:   docBase + "e101",
	},
	"E102": {
		Category: CategoryRouter,
		Message:  "Invalid route pattern",
		Detail:   "A pattern matcher could not be compiled. This is a route setup bug.",
		DocURL:   docBase + "e102",
	},
	"E103": {
		Category: CategoryRouter,
		Message:  "Router already started",
		Detail:   "Start performs the initial render and subscribes to history changes. It may only be called once per router.",
		DocURL:   docBase + "e103",
	},
	"E104": {
		Category: CategoryRouter,
		Message:  "History update failed",
		Detail:   "The browser refused to push a new history entry, usually because the URL is on a different origin.",
		DocURL:   docBase + "e104",
	},
	"E105": {
		Category: CategoryRouter,
		Message:  "Invalid suggestion direction",
		Detail:   `Suggestion selection only accepts "next" or "previous".`,
		DocURL:   docBase + "e105",
	},

	// Config (E120-E129)

	"E120": {
		Category: CategoryConfig,
		Message:  "Failed to read vpbrowse.json",
		Detail:   "The configuration file exists but could not be read or parsed.",
		DocURL:   docBase + "e120",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "vpbrowse looks for vpbrowse.json in the working directory.",
		DocURL:   docBase + "e121",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration value is out of range or malformed.",
		DocURL:   docBase + "e122",
	},

	// API (E200-E219)

	"E200": {
		Category: CategoryAPI,
		Message:  "API request failed",
		Detail:   "The Video Promotion API could not be reached.",
		DocURL:   docBase + "e200",
	},
	"E201": {
		Category: CategoryAPI,
		Message:  "API returned an error status",
		Detail:   "The Video Promotion API answered with a non-2xx status code.",
		DocURL:   docBase + "e201",
	},
	"E202": {
		Category: CategoryAPI,
		Message:  "Malformed API response",
		Detail:   "The API response body is not the expected JSON envelope.",
		DocURL:   docBase + "e202",
	},

	// Server (E300-E319)

	"E300": {
		Category: CategoryServer,
		Message:  "Server failed",
		Detail:   "The HTTP server stopped with an error.",
		DocURL:   docBase + "e300",
	},
	"E301": {
		Category: CategoryServer,
		Message:  "Asset not found",
		Detail:   "The requested asset does not exist in the configured asset source.",
		DocURL:   docBase + "e301",
	},
	"E302": {
		Category: CategoryServer,
		Message:  "Asset source unavailable",
		Detail:   "The asset source (directory or S3 bucket) could not be read.",
		DocURL:   docBase + "e302",
	},
	"E303": {
		Category: CategoryServer,
		Message:  "Invalid asset manifest",
		Detail:   "manifest.json must be a JSON object mapping file names to fingerprinted names.",
		DocURL:   docBase + "e303",
	},

	// CLI (E400-E409)

	"E400": {
		Category: CategoryCLI,
		Message:  "Invalid command usage",
		DocURL:   docBase + "e400",
	},
	"E401": {
		Category: CategoryCLI,
		Message:  "Client build failed",
		Detail:   "Compiling the WebAssembly client or collecting its assets failed.",
		DocURL:   docBase + "e401",
	},
}
