// Package liquify provides an embeddable templating engine with a
// Liquid-style surface syntax: {{ ... }} output spans and {% ... %} tag
// spans over host-supplied structured data.
//
// # Basic Usage
//
// Create an engine, compile a template once and render it many times:
//
//	engine := liquify.MustNew()
//	tmpl, err := engine.Parse("Hello, {{ user.name }}!", "greeting")
//	out, err := tmpl.Render(ctx, map[string]any{
//	    "user": map[string]any{"name": "Alice"},
//	})
//	// out: "Hello, Alice!"
//
// # Template Syntax
//
// Output spans evaluate an expression, apply its filter chain and write
// the result:
//
//	{{ user.name | upcase | append: "!" }}
//
// Tag spans drive control flow:
//
//	{% for item in items limit: 3 %}{{ item }}{% endfor %}
//	{% if score > 90 %}excellent{% elsif score > 50 %}ok{% else %}poor{% endif %}
//	{% assign title = page.title | capitalize %}
//
// Both span kinds accept trim markers ({{- -}}, {%- -%}) that strip
// adjacent literal whitespace.
//
// # Partials
//
// {% include "name" %} resolves templates at render time through a
// PartialResolver. Resolvers over an in-memory map, a directory tree and
// a PostgreSQL table ship with the package:
//
//	engine := liquify.MustNew(
//	    liquify.WithResolver(liquify.NewFilesystemResolver("./partials")),
//	)
//
// # Custom Filters and Tags
//
// Extend the engine with filters:
//
//	engine.MustRegisterFilter(&liquify.Filter{
//	    Name: "shout",
//	    Fn: func(input liquify.Value, args []liquify.Value, kwargs map[string]liquify.Value) (liquify.Value, error) {
//	        return liquify.Str(strings.ToUpper(input.Render()) + "!"), nil
//	    },
//	})
//
// Custom tags and blocks implement the TagParser and BlockParser
// interfaces; they receive a cursor over the argument grammar (and the
// body, for blocks) and produce executable nodes.
//
// # Concurrency
//
// A compiled Template is immutable and safe for concurrent renders. All
// per-render state lives in the render call. Register filters and tags
// during setup, before the engine is shared.
//
// # Error Handling
//
// Compile and render failures carry source positions and, for render
// errors, an innermost-first trace of the enclosing constructs. Errors
// are cuserr.CustomError values with line, column and template metadata.
package liquify
