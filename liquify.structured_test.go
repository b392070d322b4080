package liquify

import (
	"context"
	"testing"

	"github.com/itsatony/go-cuserr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromYAML(t *testing.T) {
	data, err := FromYAML([]byte("user:\n  name: ada\n  tags:\n    - a\n    - b\n"))
	require.NoError(t, err)

	engine := MustNew()
	out, err := engine.RenderString(context.Background(), `{{ user.name }}: {{ user.tags | join: "," }}`, data)
	require.NoError(t, err)
	assert.Equal(t, "ada: a,b", out)
}

func TestFromYAML_Invalid(t *testing.T) {
	_, err := FromYAML([]byte(":\n  - ["))
	require.Error(t, err)

	var customErr *cuserr.CustomError
	require.ErrorAs(t, err, &customErr)
	format, ok := customErr.GetMetadata(MetaKeyFormat)
	require.True(t, ok)
	assert.Equal(t, FormatYAML, format)
}

func TestFromJSON(t *testing.T) {
	data, err := FromJSON([]byte(`{"n": 2, "items": ["x", "y"]}`))
	require.NoError(t, err)

	engine := MustNew()
	out, err := engine.RenderString(context.Background(), `{{ items | size }}/{{ n | times: 3 }}`, data)
	require.NoError(t, err)
	assert.Equal(t, "2/6.0", out)
}

func TestFromJSON_Invalid(t *testing.T) {
	_, err := FromJSON([]byte(`{"n":`))
	require.Error(t, err)

	var customErr *cuserr.CustomError
	require.ErrorAs(t, err, &customErr)
	format, ok := customErr.GetMetadata(MetaKeyFormat)
	require.True(t, ok)
	assert.Equal(t, FormatJSON, format)
}

func TestToYAML(t *testing.T) {
	obj := NewObject()
	obj.Set("name", Str("ada"))
	obj.Set("count", Int(3))

	out, err := ToYAML(ObjectOf(obj))
	require.NoError(t, err)
	assert.Contains(t, string(out), "name: ada")
	assert.Contains(t, string(out), "count: 3")
}

func TestToJSON(t *testing.T) {
	out, err := ToJSON(ArrayOf(Int(1), Str("two"), Bool(true)))
	require.NoError(t, err)
	assert.JSONEq(t, `[1, "two", true]`, string(out))
}
