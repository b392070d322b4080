package internal

import (
	"errors"
	"math"
)

// registerNumberFilters registers the arithmetic filters. Integer inputs
// with integer arguments stay integers; a float anywhere widens the result
// to float, matching the value model's numeric tower.
func registerNumberFilters(r *FilterRegistry) {
	r.MustRegister(&Filter{
		Name:    FilterNamePlus,
		MinArgs: 1,
		MaxArgs: 1,
		Fn: func(input Value, args []Value, kwargs map[string]Value) (Value, error) {
			return numericBinop(input, args[0],
				func(a, b int64) (int64, error) { return a + b, nil },
				func(a, b float64) (float64, error) { return a + b, nil })
		},
	})

	r.MustRegister(&Filter{
		Name:    FilterNameMinus,
		MinArgs: 1,
		MaxArgs: 1,
		Fn: func(input Value, args []Value, kwargs map[string]Value) (Value, error) {
			return numericBinop(input, args[0],
				func(a, b int64) (int64, error) { return a - b, nil },
				func(a, b float64) (float64, error) { return a - b, nil })
		},
	})

	r.MustRegister(&Filter{
		Name:    FilterNameTimes,
		MinArgs: 1,
		MaxArgs: 1,
		Fn: func(input Value, args []Value, kwargs map[string]Value) (Value, error) {
			return numericBinop(input, args[0],
				func(a, b int64) (int64, error) { return a * b, nil },
				func(a, b float64) (float64, error) { return a * b, nil })
		},
	})

	r.MustRegister(&Filter{
		Name:    FilterNameDividedBy,
		MinArgs: 1,
		MaxArgs: 1,
		Fn: func(input Value, args []Value, kwargs map[string]Value) (Value, error) {
			return numericBinop(input, args[0],
				func(a, b int64) (int64, error) {
					if b == 0 {
						return 0, errors.New(ErrMsgDivideByZero)
					}
					// Integer division floors toward negative infinity.
					q := a / b
					if (a%b != 0) && ((a < 0) != (b < 0)) {
						q--
					}
					return q, nil
				},
				func(a, b float64) (float64, error) {
					if b == 0 {
						return 0, errors.New(ErrMsgDivideByZero)
					}
					return a / b, nil
				})
		},
	})

	r.MustRegister(&Filter{
		Name:    FilterNameModulo,
		MinArgs: 1,
		MaxArgs: 1,
		Fn: func(input Value, args []Value, kwargs map[string]Value) (Value, error) {
			return numericBinop(input, args[0],
				func(a, b int64) (int64, error) {
					if b == 0 {
						return 0, errors.New(ErrMsgDivideByZero)
					}
					return a % b, nil
				},
				func(a, b float64) (float64, error) {
					if b == 0 {
						return 0, errors.New(ErrMsgDivideByZero)
					}
					return math.Mod(a, b), nil
				})
		},
	})

	r.MustRegister(&Filter{
		Name: FilterNameAbs,
		Fn: func(input Value, args []Value, kwargs map[string]Value) (Value, error) {
			if input.Kind() == KindInt {
				i := input.AsInt()
				if i < 0 {
					i = -i
				}
				return Int(i), nil
			}
			f, err := input.ToFloat()
			if err != nil {
				return Nil(), err
			}
			return Float(math.Abs(f)), nil
		},
	})

	r.MustRegister(&Filter{
		Name: FilterNameCeil,
		Fn: func(input Value, args []Value, kwargs map[string]Value) (Value, error) {
			if input.Kind() == KindInt {
				return input, nil
			}
			f, err := input.ToFloat()
			if err != nil {
				return Nil(), err
			}
			return Int(int64(math.Ceil(f))), nil
		},
	})

	r.MustRegister(&Filter{
		Name: FilterNameFloor,
		Fn: func(input Value, args []Value, kwargs map[string]Value) (Value, error) {
			if input.Kind() == KindInt {
				return input, nil
			}
			f, err := input.ToFloat()
			if err != nil {
				return Nil(), err
			}
			return Int(int64(math.Floor(f))), nil
		},
	})

	r.MustRegister(&Filter{
		Name:    FilterNameRound,
		MinArgs: 0,
		MaxArgs: 1,
		Fn: func(input Value, args []Value, kwargs map[string]Value) (Value, error) {
			f, err := input.ToFloat()
			if err != nil {
				return Nil(), err
			}
			if len(args) == 0 {
				return Int(int64(math.Round(f))), nil
			}
			places, err := args[0].ToInt()
			if err != nil {
				return Nil(), err
			}
			if places <= 0 {
				return Int(int64(math.Round(f))), nil
			}
			scale := math.Pow(10, float64(places))
			return Float(math.Round(f*scale) / scale), nil
		},
	})

	r.MustRegister(&Filter{
		Name:    FilterNameAtLeast,
		MinArgs: 1,
		MaxArgs: 1,
		Fn: func(input Value, args []Value, kwargs map[string]Value) (Value, error) {
			return clampFilter(input, args[0], false)
		},
	})

	r.MustRegister(&Filter{
		Name:    FilterNameAtMost,
		MinArgs: 1,
		MaxArgs: 1,
		Fn: func(input Value, args []Value, kwargs map[string]Value) (Value, error) {
			return clampFilter(input, args[0], true)
		},
	})
}

// numericBinop applies an arithmetic operation, keeping integers integral
// when both operands are integral.
func numericBinop(a, b Value, intOp func(a, b int64) (int64, error), floatOp func(a, b float64) (float64, error)) (Value, error) {
	if isIntegral(a) && isIntegral(b) {
		ai, err := a.ToInt()
		if err != nil {
			return Nil(), err
		}
		bi, err := b.ToInt()
		if err != nil {
			return Nil(), err
		}
		out, err := intOp(ai, bi)
		if err != nil {
			return Nil(), err
		}
		return Int(out), nil
	}

	af, err := a.ToFloat()
	if err != nil {
		return Nil(), err
	}
	bf, err := b.ToFloat()
	if err != nil {
		return Nil(), err
	}
	out, err := floatOp(af, bf)
	if err != nil {
		return Nil(), err
	}
	return Float(out), nil
}

// isIntegral reports whether a value participates in integer arithmetic:
// actual integers and strings that parse as integers.
func isIntegral(v Value) bool {
	switch v.Kind() {
	case KindInt:
		return true
	case KindFloat:
		return false
	case KindString:
		if _, err := v.ToFloat(); err != nil {
			return false
		}
		f, _ := v.ToFloat()
		i, err := v.ToInt()
		return err == nil && float64(i) == f
	default:
		return false
	}
}

// clampFilter implements at_least / at_most.
func clampFilter(input, bound Value, upper bool) (Value, error) {
	return numericBinop(input, bound,
		func(a, b int64) (int64, error) {
			if upper && a > b {
				return b, nil
			}
			if !upper && a < b {
				return b, nil
			}
			return a, nil
		},
		func(a, b float64) (float64, error) {
			if upper {
				return math.Min(a, b), nil
			}
			return math.Max(a, b), nil
		})
}
