package internal

// Filter name constants
const (
	FilterNameJoin          = "join"
	FilterNameFirst         = "first"
	FilterNameLast          = "last"
	FilterNameConcat        = "concat"
	FilterNameReverse       = "reverse"
	FilterNameSort          = "sort"
	FilterNameSortNatural   = "sort_natural"
	FilterNameWhere         = "where"
	FilterNameUniq          = "uniq"
	FilterNameCompact       = "compact"
	FilterNameMap           = "map"
	FilterNameSize          = "size"
	FilterNameUpcase        = "upcase"
	FilterNameDowncase      = "downcase"
	FilterNameCapitalize    = "capitalize"
	FilterNameAppend        = "append"
	FilterNamePrepend       = "prepend"
	FilterNameStrip         = "strip"
	FilterNameLstrip        = "lstrip"
	FilterNameRstrip        = "rstrip"
	FilterNameReplace       = "replace"
	FilterNameReplaceFirst  = "replace_first"
	FilterNameRemove        = "remove"
	FilterNameRemoveFirst   = "remove_first"
	FilterNameSplit         = "split"
	FilterNameTruncate      = "truncate"
	FilterNameTruncateWords = "truncatewords"
	FilterNamePlus          = "plus"
	FilterNameMinus         = "minus"
	FilterNameTimes         = "times"
	FilterNameDividedBy     = "divided_by"
	FilterNameModulo        = "modulo"
	FilterNameAbs           = "abs"
	FilterNameCeil          = "ceil"
	FilterNameFloor         = "floor"
	FilterNameRound         = "round"
	FilterNameAtLeast       = "at_least"
	FilterNameAtMost        = "at_most"
	FilterNameDefault       = "default"
	FilterNameEscape        = "escape"
	FilterNameEscapeOnce    = "escape_once"
	FilterNameStripHTML     = "strip_html"
	FilterNameNewlineToBr   = "newline_to_br"
	FilterNameStripNewlines = "strip_newlines"
	FilterNameDate          = "date"
)

// Filter error message constants
const (
	ErrMsgDivideByZero    = "division by zero"
	ErrMsgExpectedArray   = "input is not an array"
	ErrMsgDateUnparseable = "value is not a date"
)

// RegisterBuiltinFilters registers the standard filter set.
func RegisterBuiltinFilters(r *FilterRegistry) {
	registerStringFilters(r)
	registerNumberFilters(r)
	registerCollectionFilters(r)
	registerHTMLFilters(r)
	registerDateFilter(r)

	r.MustRegister(&Filter{
		Name:    FilterNameDefault,
		MinArgs: 1,
		MaxArgs: 1,
		Fn: func(input Value, args []Value, kwargs map[string]Value) (Value, error) {
			if isDefaultable(input) {
				return args[0], nil
			}
			return input, nil
		},
	})
}

// isDefaultable reports whether `default` replaces the input: nil, false,
// the empty string and the empty array all take the fallback.
func isDefaultable(v Value) bool {
	switch v.Kind() {
	case KindNil:
		return true
	case KindBool:
		return !v.AsBool()
	case KindString:
		return v.AsString() == StringValueEmpty
	case KindArray:
		return len(v.AsArray()) == 0
	default:
		return false
	}
}
