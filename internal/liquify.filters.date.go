package internal

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// Special date input strings
const (
	dateInputNow   = "now"
	dateInputToday = "today"
)

// dateParseLayouts are tried in order when the date filter receives a
// string input.
var dateParseLayouts = []string{
	TimeRenderLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02 Jan 2006",
	"January 2, 2006",
	time.RFC1123Z,
	time.RFC1123,
}

// registerDateFilter registers the strftime-style date formatter.
func registerDateFilter(r *FilterRegistry) {
	r.MustRegister(&Filter{
		Name:    FilterNameDate,
		MinArgs: 1,
		MaxArgs: 1,
		Fn: func(input Value, args []Value, kwargs map[string]Value) (Value, error) {
			t, err := coerceTime(input)
			if err != nil {
				return Nil(), err
			}
			return Str(formatStrftime(t, args[0].Render())), nil
		},
	})
}

// coerceTime extracts a time from the filter input: datetimes pass
// through, the strings "now"/"today" give the current moment, numeric
// values read as Unix seconds, and other strings are parsed against the
// known layouts.
func coerceTime(v Value) (time.Time, error) {
	switch v.Kind() {
	case KindTime:
		return v.AsTime(), nil
	case KindInt:
		return time.Unix(v.AsInt(), 0).UTC(), nil
	case KindString:
		s := strings.TrimSpace(v.AsString())
		if s == dateInputNow || s == dateInputToday {
			return time.Now(), nil
		}
		if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.Unix(unix, 0).UTC(), nil
		}
		for _, layout := range dateParseLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return time.Time{}, errors.New(ErrMsgDateUnparseable)
	default:
		return time.Time{}, errors.New(ErrMsgDateUnparseable)
	}
}

// formatStrftime renders t against an strftime-style format string,
// supporting the directives templates commonly use. Unknown directives
// pass through literally.
func formatStrftime(t time.Time, format string) string {
	var sb strings.Builder
	for i := 0; i < len(format); i++ {
		if format[i] != '%' || i+1 >= len(format) {
			sb.WriteByte(format[i])
			continue
		}
		i++
		switch format[i] {
		case 'Y':
			sb.WriteString(strconv.Itoa(t.Year()))
		case 'y':
			sb.WriteString(pad2(t.Year() % 100))
		case 'm':
			sb.WriteString(pad2(int(t.Month())))
		case 'd':
			sb.WriteString(pad2(t.Day()))
		case 'e':
			sb.WriteString(strconv.Itoa(t.Day()))
		case 'H':
			sb.WriteString(pad2(t.Hour()))
		case 'I':
			h := t.Hour() % 12
			if h == 0 {
				h = 12
			}
			sb.WriteString(pad2(h))
		case 'M':
			sb.WriteString(pad2(t.Minute()))
		case 'S':
			sb.WriteString(pad2(t.Second()))
		case 'p':
			if t.Hour() < 12 {
				sb.WriteString("AM")
			} else {
				sb.WriteString("PM")
			}
		case 'B':
			sb.WriteString(t.Month().String())
		case 'b', 'h':
			sb.WriteString(t.Format("Jan"))
		case 'A':
			sb.WriteString(t.Weekday().String())
		case 'a':
			sb.WriteString(t.Format("Mon"))
		case 'j':
			sb.WriteString(pad3(t.YearDay()))
		case 'z':
			sb.WriteString(t.Format("-0700"))
		case 'Z':
			sb.WriteString(t.Format("MST"))
		case 's':
			sb.WriteString(strconv.FormatInt(t.Unix(), 10))
		case '%':
			sb.WriteByte('%')
		default:
			sb.WriteByte('%')
			sb.WriteByte(format[i])
		}
	}
	return sb.String()
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

func pad3(n int) string {
	s := strconv.Itoa(n)
	for len(s) < 3 {
		s = "0" + s
	}
	return s
}
