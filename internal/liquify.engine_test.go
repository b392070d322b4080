package internal

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapResolver serves partials from an in-memory map.
type mapResolver map[string]string

func (m mapResolver) Resolve(ctx context.Context, name string) (string, bool, error) {
	source, ok := m[name]
	return source, ok, nil
}

// render compiles and renders source against data, failing the test on any
// error.
func render(t *testing.T, source string, data map[string]any) string {
	t.Helper()
	return renderWith(t, source, data, nil)
}

func renderWith(t *testing.T, source string, data map[string]any, resolver PartialResolver) string {
	t.Helper()
	core := NewEngineCore(nil)
	tmpl, err := core.Compile(source, "test")
	require.NoError(t, err)

	var sb strings.Builder
	err = core.Render(context.Background(), tmpl, FromAny(data).AsObject(), resolver, &sb)
	require.NoError(t, err)
	return sb.String()
}

// renderErr compiles source and returns the render error, requiring the
// compile itself to succeed.
func renderErr(t *testing.T, source string, data map[string]any) error {
	t.Helper()
	core := NewEngineCore(nil)
	tmpl, err := core.Compile(source, "test")
	require.NoError(t, err)

	var sb strings.Builder
	err = core.Render(context.Background(), tmpl, FromAny(data).AsObject(), nil, &sb)
	require.Error(t, err)
	return err
}

func TestEngine_Render_Output(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		data     map[string]any
		expected string
	}{
		{"literal text", "hello", nil, "hello"},
		{"variable", "{{ name }}", map[string]any{"name": "ada"}, "ada"},
		{"missing variable renders empty", "[{{ missing }}]", nil, "[]"},
		{"nested path", "{{ a.b.c }}", map[string]any{"a": map[string]any{"b": map[string]any{"c": 7}}}, "7"},
		{"filter chain", `{{ "ab" | upcase | append: "!" }}`, nil, "AB!"},
		{"integral float", "{{ x }}", map[string]any{"x": 2.0}, "2.0"},
		{"whitespace control", "a   {{- x -}}   b", map[string]any{"x": "Z"}, "aZb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, render(t, tt.source, tt.data))
		})
	}
}

func TestEngine_Render_If(t *testing.T) {
	source := `{% if x > 5 %}big{% elsif x > 1 %}mid{% else %}small{% endif %}`

	assert.Equal(t, "big", render(t, source, map[string]any{"x": 9}))
	assert.Equal(t, "mid", render(t, source, map[string]any{"x": 3}))
	assert.Equal(t, "small", render(t, source, map[string]any{"x": 0}))
}

func TestEngine_Render_If_TruthinessEdges(t *testing.T) {
	// Zero and the empty string are truthy; only nil and false are falsy.
	assert.Equal(t, "y", render(t, `{% if x %}y{% else %}n{% endif %}`, map[string]any{"x": 0}))
	assert.Equal(t, "y", render(t, `{% if x %}y{% else %}n{% endif %}`, map[string]any{"x": ""}))
	assert.Equal(t, "n", render(t, `{% if x %}y{% else %}n{% endif %}`, nil))
	assert.Equal(t, "n", render(t, `{% if x %}y{% else %}n{% endif %}`, map[string]any{"x": false}))
}

func TestEngine_Render_Unless(t *testing.T) {
	source := `{% unless done %}pending{% else %}done{% endunless %}`

	assert.Equal(t, "pending", render(t, source, nil))
	assert.Equal(t, "done", render(t, source, map[string]any{"done": true}))
}

func TestEngine_Render_Case(t *testing.T) {
	source := `{% case kind %}{% when "a" %}alpha{% when "b", "c" %}bc{% else %}other{% endcase %}`

	assert.Equal(t, "alpha", render(t, source, map[string]any{"kind": "a"}))
	assert.Equal(t, "bc", render(t, source, map[string]any{"kind": "c"}))
	assert.Equal(t, "other", render(t, source, map[string]any{"kind": "z"}))
}

func TestEngine_Render_Case_ElseWithoutWhen(t *testing.T) {
	// A case with no when arms falls straight to its else.
	assert.Equal(t, "d", render(t, `{% case x %}{% else %}d{% endcase %}`, nil))
	// An empty case renders nothing.
	assert.Equal(t, "", render(t, `{% case x %}{% endcase %}`, nil))
}

func TestEngine_Render_For(t *testing.T) {
	data := map[string]any{"items": []any{"a", "b", "c"}}

	assert.Equal(t, "abc", render(t, `{% for x in items %}{{ x }}{% endfor %}`, data))
	assert.Equal(t, "123", render(t, `{% for x in (1..3) %}{{ x }}{% endfor %}`, nil))
}

func TestEngine_Render_For_Modifiers(t *testing.T) {
	// offset selects first, then limit, then reversed reverses the
	// selected window.
	assert.Equal(t, "23", render(t, `{% for x in (1..5) limit: 2 offset: 1 %}{{ x }}{% endfor %}`, nil))
	assert.Equal(t, "32", render(t, `{% for x in (1..5) limit: 2 offset: 1 reversed %}{{ x }}{% endfor %}`, nil))
	assert.Equal(t, "54321", render(t, `{% for x in (1..5) reversed %}{{ x }}{% endfor %}`, nil))
	assert.Equal(t, "", render(t, `{% for x in (1..5) offset: 9 %}{{ x }}{% endfor %}`, nil))
}

func TestEngine_Render_For_Else(t *testing.T) {
	source := `{% for x in items %}{{ x }}{% else %}none{% endfor %}`

	assert.Equal(t, "none", render(t, source, nil))
	assert.Equal(t, "none", render(t, source, map[string]any{"items": []any{}}))
	assert.Equal(t, "a", render(t, source, map[string]any{"items": []any{"a"}}))
}

func TestEngine_Render_For_ForloopMetadata(t *testing.T) {
	source := `{% for x in (1..3) %}{{ forloop.index }}:{{ forloop.rindex }}:{{ forloop.first }}:{{ forloop.last }};{% endfor %}`
	expected := "1:3:true:false;2:2:false:false;3:1:false:true;"

	assert.Equal(t, expected, render(t, source, nil))
	assert.Equal(t, "3", render(t, `{% for x in (1..3) %}{% if forloop.last %}{{ forloop.length }}{% endif %}{% endfor %}`, nil))
}

func TestEngine_Render_For_BreakContinue(t *testing.T) {
	assert.Equal(t, "12", render(t, `{% for x in (1..5) %}{% if x == 3 %}{% break %}{% endif %}{{ x }}{% endfor %}`, nil))
	assert.Equal(t, "1245", render(t, `{% for x in (1..5) %}{% if x == 3 %}{% continue %}{% endif %}{{ x }}{% endfor %}`, nil))
}

func TestEngine_Render_For_BreakOnlyInnermost(t *testing.T) {
	source := `{% for i in (1..2) %}{% for j in (1..3) %}{% if j == 2 %}{% break %}{% endif %}{{ i }}{{ j }}{% endfor %}{% endfor %}`
	assert.Equal(t, "1121", render(t, source, nil))
}

func TestEngine_Render_For_ObjectIteratesPairs(t *testing.T) {
	obj := NewObject()
	obj.Set("a", Int(1))
	obj.Set("b", Int(2))

	core := NewEngineCore(nil)
	tmpl, err := core.Compile(`{% for pair in m %}{{ pair[0] }}={{ pair[1] }};{% endfor %}`, "test")
	require.NoError(t, err)

	data := NewObject()
	data.Set("m", ObjectValue(obj))
	var sb strings.Builder
	require.NoError(t, core.Render(context.Background(), tmpl, data, nil, &sb))
	assert.Equal(t, "a=1;b=2;", sb.String())
}

func TestEngine_Render_For_ScalarNotIterable(t *testing.T) {
	err := renderErr(t, `{% for x in n %}{{ x }}{% endfor %}`, map[string]any{"n": 5})

	var re *RenderError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrMsgNotIterable, re.Message)
}

func TestEngine_Render_For_VariableScopedToLoop(t *testing.T) {
	// The loop variable lives in the per-iteration scope and is gone
	// after endfor, unlike assign bindings made inside the body.
	assert.Equal(t, "1[]", render(t, `{% for i in (1..1) %}{{ i }}{% endfor %}[{{ i }}]`, nil))
	assert.Equal(t, "[]", render(t, `{% for i in (1..1) %}{% endfor %}[{{ i }}]`, nil))
	// forloop metadata is scoped the same way.
	assert.Equal(t, "[]", render(t, `{% for i in (1..1) %}{% endfor %}[{{ forloop.index }}]`, nil))
}

func TestEngine_Render_Assign(t *testing.T) {
	assert.Equal(t, "HI", render(t, `{% assign x = "hi" | upcase %}{{ x }}`, nil))
	// Rebinding inside a loop lands in the outermost scope and survives it.
	assert.Equal(t, "2", render(t, `{% for i in (1..2) %}{% assign last = i %}{% endfor %}{{ last }}`, nil))
	// Assign shadows seeded data.
	assert.Equal(t, "new", render(t, `{% assign x = "new" %}{{ x }}`, map[string]any{"x": "old"}))
}

func TestEngine_Render_Capture(t *testing.T) {
	source := `{% capture greeting %}Hello, {{ name }}!{% endcapture %}[{{ greeting }}]`

	assert.Equal(t, "[Hello, ada!]", render(t, source, map[string]any{"name": "ada"}))
	// The capture body itself writes nothing.
	assert.Equal(t, "", render(t, `{% capture x %}invisible{% endcapture %}`, nil))
}

func TestEngine_Render_IncrementDecrement(t *testing.T) {
	assert.Equal(t, "0 1 2", render(t, `{% increment c %} {% increment c %} {% increment c %}`, nil))
	assert.Equal(t, "-1 -2", render(t, `{% decrement c %} {% decrement c %}`, nil))
	// Counters are independent of assign bindings of the same name.
	assert.Equal(t, "9 0 9", render(t, `{% assign c = 9 %}{{ c }} {% increment c %} {{ c }}`, nil))
}

func TestEngine_Render_Cycle(t *testing.T) {
	source := `{% for x in (1..4) %}{% cycle "odd", "even" %}{% endfor %}`
	assert.Equal(t, "oddevenoddeven", render(t, source, nil))

	grouped := `{% cycle "g": "a", "b" %}{% cycle "g": "x", "y" %}`
	assert.Equal(t, "ay", render(t, grouped, nil))
}

func TestEngine_Render_IfChanged(t *testing.T) {
	source := `{% for x in items %}{% ifchanged %}{{ x }}{% endifchanged %}{% endfor %}`
	data := map[string]any{"items": []any{"a", "a", "b", "b", "a"}}

	assert.Equal(t, "aba", render(t, source, data))
}

func TestEngine_Render_RawAndComment(t *testing.T) {
	assert.Equal(t, "{{ not rendered }}", render(t, `{% raw %}{{ not rendered }}{% endraw %}`, nil))
	assert.Equal(t, "ab", render(t, `a{% comment %} anything {{ at }} {% all %} {% endcomment %}b`, nil))
}

func TestEngine_Render_Include(t *testing.T) {
	resolver := mapResolver{
		"greeting": `Hello, {{ who }}!`,
		"outer":    `[{% include "greeting", who: name %}]`,
	}

	out := renderWith(t, `{% include "outer" %}`, map[string]any{"name": "ada"}, resolver)
	assert.Equal(t, "[Hello, ada!]", out)
}

func TestEngine_Render_Include_ArgsAreLocal(t *testing.T) {
	resolver := mapResolver{"p": `{{ v }}`}

	// The include-scope binding must not leak back out.
	out := renderWith(t, `{% include "p", v: "in" %}{{ v }}`, nil, resolver)
	assert.Equal(t, "in", out)
}

func TestEngine_Render_Include_Missing(t *testing.T) {
	core := NewEngineCore(nil)
	tmpl, err := core.Compile(`{% include "ghost" %}`, "test")
	require.NoError(t, err)

	var sb strings.Builder
	err = core.Render(context.Background(), tmpl, nil, mapResolver{}, &sb)
	require.Error(t, err)

	var re *RenderError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrMsgPartialNotFound, re.Message)
	assert.Equal(t, "ghost", re.Detail)
}

func TestEngine_Render_Include_NoResolver(t *testing.T) {
	err := renderErr(t, `{% include "x" %}`, nil)

	var re *RenderError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrMsgNoResolver, re.Message)
}

func TestEngine_Render_Include_RecursionDepthGuard(t *testing.T) {
	resolver := mapResolver{"loop": `{% include "loop" %}`}

	core := NewEngineCore(nil)
	tmpl, err := core.Compile(`{% include "loop" %}`, "test")
	require.NoError(t, err)

	var sb strings.Builder
	err = core.Render(context.Background(), tmpl, nil, resolver, &sb)
	require.Error(t, err)

	var re *RenderError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrMsgMaxDepthExceeded, re.Message)
}

func TestEngine_Render_IterationCap(t *testing.T) {
	core := NewEngineCore(nil)
	core.MaxIterations = 10
	tmpl, err := core.Compile(`{% for x in (1..100) %}.{% endfor %}`, "test")
	require.NoError(t, err)

	var sb strings.Builder
	err = core.Render(context.Background(), tmpl, nil, nil, &sb)
	require.Error(t, err)

	var re *RenderError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrMsgMaxIterExceeded, re.Message)
}

func TestEngine_Render_Cancellation(t *testing.T) {
	core := NewEngineCore(nil)
	tmpl, err := core.Compile(`{% for x in (1..1000) %}.{% endfor %}`, "test")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var sb strings.Builder
	err = core.Render(ctx, tmpl, nil, nil, &sb)
	require.Error(t, err)

	var re *RenderError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrMsgRenderCanceled, re.Message)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_Render_ErrorTraceInnermostFirst(t *testing.T) {
	source := `{% for x in (1..2) %}{% if true %}{{ x | nosuch }}{% endif %}{% endfor %}`
	err := renderErr(t, source, nil)

	var re *RenderError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrMsgUnknownFilter, re.Message)

	require.GreaterOrEqual(t, len(re.Trace), 3)
	assert.Contains(t, re.Trace[0].Description, "x | nosuch")
	assert.Contains(t, re.Trace[1].Description, "if")
	assert.Contains(t, re.Trace[2].Description, "for")
}

func TestEngine_Compile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		message string
	}{
		{"unknown tag", `{% bogus %}`, ErrMsgUnknownTag},
		{"orphan terminator", `{% endif %}`, ErrMsgOrphanTag},
		{"orphan continuation", `{% else %}`, ErrMsgOrphanTag},
		{"unclosed block", `{% if x %}a`, ErrMsgMissingTerminator},
		{"unclosed nested block", `{% for x in (1..2) %}{% if x %}{% endfor %}`, ErrMsgOrphanTag},
		{"content before first when", `{% case x %}stray{% when 1 %}a{% endcase %}`, ErrMsgWhenExpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core := NewEngineCore(nil)
			_, err := core.Compile(tt.source, "bad.liquid")

			require.Error(t, err)
			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.message, pe.Message)
			assert.Equal(t, "bad.liquid", pe.Template)
		})
	}
}

func TestEngine_Compile_UnclosedBlockNamesOpener(t *testing.T) {
	core := NewEngineCore(nil)
	_, err := core.Compile("text\n{% if x %}never closed", "test")

	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, ErrMsgMissingTerminator, pe.Message)
	assert.Equal(t, TagNameEndIf, pe.Detail)
	assert.Equal(t, 2, pe.Position.Line)
}

func TestEngine_Render_ConcurrentSharedTemplate(t *testing.T) {
	core := NewEngineCore(nil)
	tmpl, err := core.Compile(`{% for x in (1..10) %}{{ x }}{% endfor %}-{{ name }}`, "test")
	require.NoError(t, err)

	done := make(chan string, 8)
	for i := 0; i < 8; i++ {
		go func(n int) {
			data := NewObject()
			data.Set("name", Int(int64(n)))
			var sb strings.Builder
			if err := core.Render(context.Background(), tmpl, data, nil, &sb); err != nil {
				done <- "error"
				return
			}
			done <- sb.String()
		}(i)
	}

	for i := 0; i < 8; i++ {
		out := <-done
		assert.True(t, strings.HasPrefix(out, "12345678910-"))
	}
}

func TestEngine_CustomTagRegistration(t *testing.T) {
	core := NewEngineCore(nil)
	err := core.Tags.Register(&BreakTag{})

	require.Error(t, err)
	var regErr *RegistryError
	require.ErrorAs(t, err, &regErr)
	assert.Equal(t, ErrMsgTagExists, regErr.Message)
}
