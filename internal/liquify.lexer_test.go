package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexer_Tokenize_PlainText(t *testing.T) {
	tokens, err := NewLexer("hello world", nil).Tokenize()

	require.NoError(t, err)
	require.Len(t, tokens, 2) // TEXT + EOF
	assert.Equal(t, TokenTypeText, tokens[0].Type)
	assert.Equal(t, "hello world", tokens[0].Value)
	assert.Equal(t, TokenTypeEOF, tokens[1].Type)
}

func TestLexer_Tokenize_OutputSpan(t *testing.T) {
	tokens, err := NewLexer("a {{ user.name }} b", nil).Tokenize()

	require.NoError(t, err)
	require.Len(t, tokens, 4)
	assert.Equal(t, TokenTypeText, tokens[0].Type)
	assert.Equal(t, TokenTypeOutput, tokens[1].Type)
	assert.Equal(t, "user.name", tokens[1].Value)
	assert.Equal(t, TokenTypeText, tokens[2].Type)
}

func TestLexer_Tokenize_TagSpan(t *testing.T) {
	tokens, err := NewLexer(`{% assign x = 1 %}`, nil).Tokenize()

	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, TokenTypeTag, tokens[0].Type)
	assert.Equal(t, TagNameAssign, tokens[0].Name)
	assert.Equal(t, "x = 1", tokens[0].Args)
}

func TestLexer_Tokenize_Positions(t *testing.T) {
	tokens, err := NewLexer("ab\ncd{{ x }}", nil).Tokenize()

	require.NoError(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, 1, tokens[0].Position.Line)
	assert.Equal(t, 1, tokens[0].Position.Column)
	assert.Equal(t, 2, tokens[1].Position.Line)
	assert.Equal(t, 3, tokens[1].Position.Column)
	assert.Equal(t, 5, tokens[1].Position.Offset)
}

func TestLexer_Tokenize_TrimMarkers(t *testing.T) {
	tests := []struct {
		name   string
		source string
		before string
		after  string
	}{
		{"left trim", "a  {{- x }}  b", "a", "  b"},
		{"right trim", "a  {{ x -}}  b", "a  ", "b"},
		{"both sides", "a \t\n {{- x -}} \n b", "a", "b"},
		{"tag trim", "a  {%- break -%}  b", "a", "b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := NewLexer(tt.source, nil).Tokenize()

			require.NoError(t, err)
			require.Len(t, tokens, 4)
			assert.Equal(t, tt.before, tokens[0].Value)
			assert.Equal(t, tt.after, tokens[2].Value)
		})
	}
}

func TestLexer_Tokenize_DelimiterInsideString(t *testing.T) {
	tokens, err := NewLexer(`{{ "a }} b" }}`, nil).Tokenize()

	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, TokenTypeOutput, tokens[0].Type)
	assert.Equal(t, `"a }} b"`, tokens[0].Value)
}

func TestLexer_Tokenize_RawBodyIsLiteral(t *testing.T) {
	tokens, err := NewLexer(`{% raw %}{{ not.parsed }}{% endraw %}`, nil).Tokenize()

	require.NoError(t, err)
	require.Len(t, tokens, 4)
	assert.Equal(t, TagNameRaw, tokens[0].Name)
	assert.Equal(t, TokenTypeText, tokens[1].Type)
	assert.Equal(t, "{{ not.parsed }}", tokens[1].Value)
	assert.Equal(t, TagNameEndRaw, tokens[2].Name)
}

func TestLexer_Tokenize_Errors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		message string
	}{
		{"unterminated output", "{{ x", ErrMsgUnterminatedOutput},
		{"unterminated tag", "{% if x", ErrMsgUnterminatedTag},
		{"empty output", "{{ }}", ErrMsgEmptyOutput},
		{"empty tag", "{% %}", ErrMsgEmptyTag},
		{"unclosed raw", "{% raw %}abc", ErrMsgMissingTerminator},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLexer(tt.source, nil).Tokenize()

			require.Error(t, err)
			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.message, pe.Message)
		})
	}
}

func TestLexer_Tokenize_UnterminatedErrorPosition(t *testing.T) {
	_, err := NewLexer("line one\n  {{ broken", nil).Tokenize()

	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 2, pe.Position.Line)
	assert.Equal(t, 3, pe.Position.Column)
}
