package internal

import (
	"strings"
	"unicode"
)

// registerStringFilters registers the string transformation filters. They
// all operate on the input's canonical rendering, so non-string inputs are
// stringified first.
func registerStringFilters(r *FilterRegistry) {
	r.MustRegister(&Filter{
		Name: FilterNameUpcase,
		Fn: func(input Value, args []Value, kwargs map[string]Value) (Value, error) {
			return Str(strings.ToUpper(input.Render())), nil
		},
	})

	r.MustRegister(&Filter{
		Name: FilterNameDowncase,
		Fn: func(input Value, args []Value, kwargs map[string]Value) (Value, error) {
			return Str(strings.ToLower(input.Render())), nil
		},
	})

	r.MustRegister(&Filter{
		Name: FilterNameCapitalize,
		Fn: func(input Value, args []Value, kwargs map[string]Value) (Value, error) {
			s := input.Render()
			runes := []rune(s)
			if len(runes) == 0 {
				return Str(s), nil
			}
			runes[0] = unicode.ToUpper(runes[0])
			for i := 1; i < len(runes); i++ {
				runes[i] = unicode.ToLower(runes[i])
			}
			return Str(string(runes)), nil
		},
	})

	r.MustRegister(&Filter{
		Name:    FilterNameAppend,
		MinArgs: 1,
		MaxArgs: 1,
		Fn: func(input Value, args []Value, kwargs map[string]Value) (Value, error) {
			return Str(input.Render() + args[0].Render()), nil
		},
	})

	r.MustRegister(&Filter{
		Name:    FilterNamePrepend,
		MinArgs: 1,
		MaxArgs: 1,
		Fn: func(input Value, args []Value, kwargs map[string]Value) (Value, error) {
			return Str(args[0].Render() + input.Render()), nil
		},
	})

	r.MustRegister(&Filter{
		Name: FilterNameStrip,
		Fn: func(input Value, args []Value, kwargs map[string]Value) (Value, error) {
			return Str(strings.TrimSpace(input.Render())), nil
		},
	})

	r.MustRegister(&Filter{
		Name: FilterNameLstrip,
		Fn: func(input Value, args []Value, kwargs map[string]Value) (Value, error) {
			return Str(strings.TrimLeftFunc(input.Render(), unicode.IsSpace)), nil
		},
	})

	r.MustRegister(&Filter{
		Name: FilterNameRstrip,
		Fn: func(input Value, args []Value, kwargs map[string]Value) (Value, error) {
			return Str(strings.TrimRightFunc(input.Render(), unicode.IsSpace)), nil
		},
	})

	r.MustRegister(&Filter{
		Name:    FilterNameReplace,
		MinArgs: 2,
		MaxArgs: 2,
		Fn: func(input Value, args []Value, kwargs map[string]Value) (Value, error) {
			return Str(strings.ReplaceAll(input.Render(), args[0].Render(), args[1].Render())), nil
		},
	})

	r.MustRegister(&Filter{
		Name:    FilterNameReplaceFirst,
		MinArgs: 2,
		MaxArgs: 2,
		Fn: func(input Value, args []Value, kwargs map[string]Value) (Value, error) {
			return Str(strings.Replace(input.Render(), args[0].Render(), args[1].Render(), 1)), nil
		},
	})

	r.MustRegister(&Filter{
		Name:    FilterNameRemove,
		MinArgs: 1,
		MaxArgs: 1,
		Fn: func(input Value, args []Value, kwargs map[string]Value) (Value, error) {
			return Str(strings.ReplaceAll(input.Render(), args[0].Render(), StringValueEmpty)), nil
		},
	})

	r.MustRegister(&Filter{
		Name:    FilterNameRemoveFirst,
		MinArgs: 1,
		MaxArgs: 1,
		Fn: func(input Value, args []Value, kwargs map[string]Value) (Value, error) {
			return Str(strings.Replace(input.Render(), args[0].Render(), StringValueEmpty, 1)), nil
		},
	})

	r.MustRegister(&Filter{
		Name:    FilterNameSplit,
		MinArgs: 1,
		MaxArgs: 1,
		Fn: func(input Value, args []Value, kwargs map[string]Value) (Value, error) {
			s := input.Render()
			if s == StringValueEmpty {
				return Array(), nil
			}
			parts := strings.Split(s, args[0].Render())
			elems := make([]Value, len(parts))
			for i, p := range parts {
				elems[i] = Str(p)
			}
			return Array(elems...), nil
		},
	})

	r.MustRegister(&Filter{
		Name:    FilterNameTruncate,
		MinArgs: 0,
		MaxArgs: 2,
		Fn:      filterTruncate,
	})

	r.MustRegister(&Filter{
		Name:    FilterNameTruncateWords,
		MinArgs: 0,
		MaxArgs: 2,
		Fn:      filterTruncateWords,
	})
}

// Truncation defaults
const (
	defaultTruncateLength = 50
	defaultTruncateWords  = 15
	defaultEllipsis       = "..."
)

// filterTruncate shortens a string to at most n characters including the
// ellipsis.
func filterTruncate(input Value, args []Value, kwargs map[string]Value) (Value, error) {
	length := int64(defaultTruncateLength)
	ellipsis := defaultEllipsis
	if len(args) > 0 {
		n, err := args[0].ToInt()
		if err != nil {
			return Nil(), err
		}
		length = n
	}
	if len(args) > 1 {
		ellipsis = args[1].Render()
	}

	runes := []rune(input.Render())
	if int64(len(runes)) <= length {
		return Str(string(runes)), nil
	}
	keep := length - int64(len([]rune(ellipsis)))
	if keep < 0 {
		keep = 0
	}
	return Str(string(runes[:keep]) + ellipsis), nil
}

// filterTruncateWords keeps at most n whitespace-separated words, appending
// the ellipsis when anything was cut.
func filterTruncateWords(input Value, args []Value, kwargs map[string]Value) (Value, error) {
	count := int64(defaultTruncateWords)
	ellipsis := defaultEllipsis
	if len(args) > 0 {
		n, err := args[0].ToInt()
		if err != nil {
			return Nil(), err
		}
		count = n
	}
	if len(args) > 1 {
		ellipsis = args[1].Render()
	}
	if count < 1 {
		count = 1
	}

	words := strings.Fields(input.Render())
	if int64(len(words)) <= count {
		return Str(input.Render()), nil
	}
	return Str(strings.Join(words[:count], " ") + ellipsis), nil
}
