package main

// Command names
const (
	CmdNameRender   = "render"
	CmdNameValidate = "validate"
	CmdNameVersion  = "version"
	CmdNameHelp     = "help"
)

// Flag names - long form
const (
	FlagTemplate = "template"
	FlagData     = "data"
	FlagDataFile = "data-file"
	FlagPartials = "partials"
	FlagOutput   = "output"
	FlagFormat   = "format"
)

// Flag names - short form
const (
	FlagTemplateShort = "t"
	FlagDataShort     = "d"
	FlagDataFileShort = "f"
	FlagPartialsShort = "p"
	FlagOutputShort   = "o"
	FlagFormatShort   = "F"
)

// Flag default values
const (
	FlagDefaultOutput = "-" // stdout
	FlagDefaultFormat = "text"
)

// Output formats
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
)

// Data file formats
const (
	DataFormatJSON = ".json"
	DataFormatYAML = ".yaml"
	DataFormatYML  = ".yml"
)

// Exit codes
const (
	ExitCodeSuccess         = 0
	ExitCodeError           = 1
	ExitCodeUsageError      = 2
	ExitCodeValidationError = 3
	ExitCodeInputError      = 4
)

// Input source indicators
const (
	InputSourceStdin = "-"
)

// Error messages - ALL must be constants
const (
	ErrMsgUnknownCommand    = "unknown command"
	ErrMsgMissingTemplate   = "template source required"
	ErrMsgInvalidData       = "invalid data"
	ErrMsgReadFileFailed    = "failed to read file"
	ErrMsgWriteOutputFailed = "failed to write output"
	ErrMsgRenderFailed      = "template rendering failed"
	ErrMsgInvalidFormat     = "invalid output format"
	ErrMsgUnknownDataFormat = "unknown data file format"
	ErrMsgJSONMarshalFailed = "failed to marshal JSON"
)

// Help text templates
const (
	HelpMainUsage = `go-liquify - Liquid templating CLI

Usage:
    liquify <command> [options]

Commands:
    render      Render a template with data
    validate    Parse a template without rendering
    version     Show version information
    help        Show help for a command

Use "liquify help <command>" for more information about a command.`

	HelpRenderUsage = `Render a template with data

Usage:
    liquify render [options]

Options:
    -t, --template <file>   Template file (use "-" for stdin)
    -d, --data <json>       Inline JSON data string
    -f, --data-file <file>  Data file (.json, .yaml or .yml)
    -p, --partials <dir>    Directory to resolve {% include %} partials from
    -o, --output <file>     Output file (default: stdout)

Examples:
    liquify render -t page.liquid -d '{"name": "Alice"}'
    liquify render -t page.liquid -f data.yaml
    cat page.liquid | liquify render -t - -f data.json
    liquify render -t page.liquid -f data.yaml -p ./partials -o page.html`

	HelpValidateUsage = `Parse a template without rendering

Usage:
    liquify validate [options]

Options:
    -t, --template <file>   Template file (use "-" for stdin)
    -F, --format <format>   Output format: text, json (default: text)

Examples:
    liquify validate -t page.liquid
    cat page.liquid | liquify validate -t -`

	HelpVersionUsage = `Show version information

Usage:
    liquify version [options]

Options:
    -F, --format <format>   Output format: text, json (default: text)`

	HelpHelpUsage = `Show help for a command

Usage:
    liquify help [command]

Commands:
    render      Show help for render command
    validate    Show help for validate command
    version     Show help for version command`
)

// Version output format templates
const (
	VersionTextTemplate = "go-liquify version %s\nGo: %s"
)

// Validation output format templates
const (
	ValidationTextSuccess     = "Template is valid"
	ValidationTextErrorFormat = "Parse error: %s at line %d, column %d"
)

// File permission constant
const (
	FilePermissions = 0644
)

// Format string constants
const (
	FmtErrorWithDetail = "%s: %s\n"
	FmtErrorWithCause  = "%s: %v\n"
	FmtNewline         = "\n"
)
