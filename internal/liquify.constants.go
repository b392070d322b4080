package internal

// Delimiter strings for the template surface syntax
const (
	StrOutputOpen  = "{{"
	StrOutputClose = "}}"
	StrTagOpen     = "{%"
	StrTagClose    = "%}"
	StrTrimMarker  = "-"
)

// Character constants used by the scanners
const (
	CharNewline     = '\n'
	CharCarriageRet = '\r'
	CharSpace       = ' '
	CharTab         = '\t'
	CharDoubleQuote = '"'
	CharSingleQuote = '\''
	CharBackslash   = '\\'
	CharDot         = '.'
	CharPipe        = '|'
	CharColon       = ':'
	CharComma       = ','
	CharLBracket    = '['
	CharRBracket    = ']'
	CharLParen      = '('
	CharRParen      = ')'
	CharUnderscore  = '_'
	CharMinus       = '-'
)

// Built-in tag names
const (
	TagNameIf           = "if"
	TagNameElsif        = "elsif"
	TagNameElse         = "else"
	TagNameEndIf        = "endif"
	TagNameUnless       = "unless"
	TagNameEndUnless    = "endunless"
	TagNameCase         = "case"
	TagNameWhen         = "when"
	TagNameEndCase      = "endcase"
	TagNameFor          = "for"
	TagNameEndFor       = "endfor"
	TagNameBreak        = "break"
	TagNameContinue     = "continue"
	TagNameAssign       = "assign"
	TagNameCapture      = "capture"
	TagNameEndCapture   = "endcapture"
	TagNameInclude      = "include"
	TagNameRaw          = "raw"
	TagNameEndRaw       = "endraw"
	TagNameComment      = "comment"
	TagNameEndComment   = "endcomment"
	TagNameIncrement    = "increment"
	TagNameDecrement    = "decrement"
	TagNameCycle        = "cycle"
	TagNameIfChanged    = "ifchanged"
	TagNameEndIfChanged = "endifchanged"
)

// Keyword constants in the for-tag argument grammar
const (
	KeywordIn       = "in"
	KeywordLimit    = "limit"
	KeywordOffset   = "offset"
	KeywordReversed = "reversed"
	KeywordWith     = "with"
	KeywordContains = "contains"
	KeywordAnd      = "and"
	KeywordOr       = "or"
)

// Loop metadata variable names exposed inside a for body
const (
	VarNameForloop    = "forloop"
	ForloopKeyIndex   = "index"
	ForloopKeyIndex0  = "index0"
	ForloopKeyRIndex  = "rindex"
	ForloopKeyRIndex0 = "rindex0"
	ForloopKeyFirst   = "first"
	ForloopKeyLast    = "last"
	ForloopKeyLength  = "length"
)

// Defaults for the render guard rails
const (
	DefaultMaxRenderDepth = 100
	DefaultMaxIterations  = 100000
)

// Register keys for render-call private state
const (
	RegisterKeyIfChanged = "ifchanged"
	RegisterKeyCycle     = "cycle"
	RegisterKeyCounters  = "counters"
)

// Log message constants
const (
	LogMsgLexerCreated   = "lexer created"
	LogMsgTokenizeStart  = "tokenize start"
	LogMsgTokenizeEnd    = "tokenize end"
	LogMsgParserCreated  = "parser created"
	LogMsgParseStart     = "parse start"
	LogMsgParseEnd       = "parse end"
	LogMsgRenderStart    = "render start"
	LogMsgRenderEnd      = "render end"
	LogMsgPartialResolve = "resolving partial"
)

// Log field name constants
const (
	LogFieldSource   = "source_bytes"
	LogFieldTokens   = "tokens"
	LogFieldNodes    = "nodes"
	LogFieldTemplate = "template"
	LogFieldPartial  = "partial"
)

// Misc string constants
const (
	StringValueEmpty = ""
	PathSeparator    = "."
)
