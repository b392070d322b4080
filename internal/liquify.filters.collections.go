package internal

import (
	"errors"
	"sort"
	"strings"
)

// Collection filter defaults
const defaultJoinSeparator = " "

// registerCollectionFilters registers the array and sizing filters.
func registerCollectionFilters(r *FilterRegistry) {
	r.MustRegister(&Filter{
		Name:    FilterNameJoin,
		MinArgs: 0,
		MaxArgs: 1,
		Fn: func(input Value, args []Value, kwargs map[string]Value) (Value, error) {
			sep := defaultJoinSeparator
			if len(args) > 0 {
				sep = args[0].Render()
			}
			elems := toElements(input)
			parts := make([]string, len(elems))
			for i, e := range elems {
				parts[i] = e.Render()
			}
			return Str(strings.Join(parts, sep)), nil
		},
	})

	r.MustRegister(&Filter{
		Name: FilterNameFirst,
		Fn: func(input Value, args []Value, kwargs map[string]Value) (Value, error) {
			return input.Index(0), nil
		},
	})

	r.MustRegister(&Filter{
		Name: FilterNameLast,
		Fn: func(input Value, args []Value, kwargs map[string]Value) (Value, error) {
			return input.Index(-1), nil
		},
	})

	r.MustRegister(&Filter{
		Name:    FilterNameConcat,
		MinArgs: 1,
		MaxArgs: 1,
		Fn: func(input Value, args []Value, kwargs map[string]Value) (Value, error) {
			if args[0].Kind() != KindArray {
				return Nil(), errors.New(ErrMsgExpectedArray)
			}
			elems := toElements(input)
			out := make([]Value, 0, len(elems)+len(args[0].AsArray()))
			out = append(out, elems...)
			out = append(out, args[0].AsArray()...)
			return Array(out...), nil
		},
	})

	r.MustRegister(&Filter{
		Name: FilterNameReverse,
		Fn: func(input Value, args []Value, kwargs map[string]Value) (Value, error) {
			elems := toElements(input)
			out := make([]Value, len(elems))
			for i, e := range elems {
				out[len(elems)-1-i] = e
			}
			return Array(out...), nil
		},
	})

	r.MustRegister(&Filter{
		Name:    FilterNameSort,
		MinArgs: 0,
		MaxArgs: 1,
		Fn: func(input Value, args []Value, kwargs map[string]Value) (Value, error) {
			elems := toElements(input)
			out := make([]Value, len(elems))
			copy(out, elems)

			key := StringValueEmpty
			if len(args) > 0 {
				key = args[0].Render()
			}
			sort.SliceStable(out, func(i, j int) bool {
				a, b := out[i], out[j]
				if key != StringValueEmpty {
					a, b = a.Key(key), b.Key(key)
				}
				cmp, ok := a.Compare(b)
				if !ok {
					// Unorderable pairs fall back to textual order so the
					// sort stays total.
					return a.Render() < b.Render()
				}
				return cmp < 0
			})
			return Array(out...), nil
		},
	})

	r.MustRegister(&Filter{
		Name:    FilterNameSortNatural,
		MinArgs: 0,
		MaxArgs: 1,
		Fn: func(input Value, args []Value, kwargs map[string]Value) (Value, error) {
			elems := toElements(input)
			out := make([]Value, len(elems))
			copy(out, elems)

			key := StringValueEmpty
			if len(args) > 0 {
				key = args[0].Render()
			}
			sort.SliceStable(out, func(i, j int) bool {
				a, b := out[i], out[j]
				if key != StringValueEmpty {
					a, b = a.Key(key), b.Key(key)
				}
				return strings.ToLower(a.Render()) < strings.ToLower(b.Render())
			})
			return Array(out...), nil
		},
	})

	r.MustRegister(&Filter{
		Name:    FilterNameWhere,
		MinArgs: 1,
		MaxArgs: 2,
		Fn: func(input Value, args []Value, kwargs map[string]Value) (Value, error) {
			property := args[0].Render()
			elems := toElements(input)
			var out []Value
			for _, e := range elems {
				prop := e.Key(property)
				if len(args) > 1 {
					if prop.Equal(args[1]) {
						out = append(out, e)
					}
					continue
				}
				// Without a target value any truthy property matches.
				if prop.Truthy() {
					out = append(out, e)
				}
			}
			return Array(out...), nil
		},
	})

	r.MustRegister(&Filter{
		Name: FilterNameUniq,
		Fn: func(input Value, args []Value, kwargs map[string]Value) (Value, error) {
			elems := toElements(input)
			var out []Value
			for _, e := range elems {
				dup := false
				for _, seen := range out {
					if seen.Equal(e) {
						dup = true
						break
					}
				}
				if !dup {
					out = append(out, e)
				}
			}
			return Array(out...), nil
		},
	})

	r.MustRegister(&Filter{
		Name: FilterNameCompact,
		Fn: func(input Value, args []Value, kwargs map[string]Value) (Value, error) {
			elems := toElements(input)
			var out []Value
			for _, e := range elems {
				if !e.IsNil() {
					out = append(out, e)
				}
			}
			return Array(out...), nil
		},
	})

	r.MustRegister(&Filter{
		Name:    FilterNameMap,
		MinArgs: 1,
		MaxArgs: 1,
		Fn: func(input Value, args []Value, kwargs map[string]Value) (Value, error) {
			key := args[0].Render()
			elems := toElements(input)
			out := make([]Value, len(elems))
			for i, e := range elems {
				out[i] = e.Key(key)
			}
			return Array(out...), nil
		},
	})

	r.MustRegister(&Filter{
		Name: FilterNameSize,
		Fn: func(input Value, args []Value, kwargs map[string]Value) (Value, error) {
			return Int(int64(input.Len())), nil
		},
	})
}

// toElements adapts any input for array filters: arrays pass through, Nil
// is empty and scalars become single-element sequences.
func toElements(v Value) []Value {
	switch v.Kind() {
	case KindArray:
		return v.AsArray()
	case KindNil:
		return nil
	default:
		return []Value{v}
	}
}
