package liquify

// Version is the library version.
const Version = "1.0.0"

// Error code constants for categorization
const (
	ErrCodeParse    = "LIQUIFY_PARSE"
	ErrCodeRender   = "LIQUIFY_RENDER"
	ErrCodeRegistry = "LIQUIFY_REGISTRY"
	ErrCodeResolver = "LIQUIFY_RESOLVER"
	ErrCodeData     = "LIQUIFY_DATA"
)

// Error message constants - ALL error messages must be constants (NO MAGIC STRINGS)
const (
	ErrMsgParseFailed        = "template parsing failed"
	ErrMsgRenderFailed       = "template rendering failed"
	ErrMsgRegistrationFailed = "registration failed"
	ErrMsgNilEngine          = "engine cannot be nil"
	ErrMsgEmptySource        = "template source cannot be empty"
	ErrMsgDataDecodeFailed   = "structured data decoding failed"
	ErrMsgDataEncodeFailed   = "structured data encoding failed"
	ErrMsgDataNotMapping     = "top-level structured data must be a mapping"
)

// Metadata key constants for error context
const (
	MetaKeyLine         = "line"
	MetaKeyColumn       = "column"
	MetaKeyOffset       = "offset"
	MetaKeyDetail       = "detail"
	MetaKeyTemplateName = "template_name"
	MetaKeyTrace        = "trace"
	MetaKeyFormat       = "format"
)

// Default template name used when the caller provides none.
const DefaultTemplateName = "template"

// Render guard-rail defaults
const (
	DefaultMaxRenderDepth = 100
	DefaultMaxIterations  = 100000
)

// Structured data format names used in error metadata
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)
