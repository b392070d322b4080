package liquify

import (
	"encoding/json"

	"github.com/itsatony/go-cuserr"
	"gopkg.in/yaml.v3"
)

// FromYAML decodes a YAML document into render data. The top-level node
// must be a mapping.
func FromYAML(source []byte) (map[string]any, error) {
	var data map[string]any
	if err := yaml.Unmarshal(source, &data); err != nil {
		return nil, cuserr.WrapStdError(err, ErrCodeData, ErrMsgDataDecodeFailed).
			WithMetadata(MetaKeyFormat, FormatYAML)
	}
	return data, nil
}

// ToYAML encodes a rendered Value back into YAML.
func ToYAML(v Value) ([]byte, error) {
	out, err := yaml.Marshal(v.ToAny())
	if err != nil {
		return nil, cuserr.WrapStdError(err, ErrCodeData, ErrMsgDataEncodeFailed).
			WithMetadata(MetaKeyFormat, FormatYAML)
	}
	return out, nil
}

// FromJSON decodes a JSON document into render data. The top-level value
// must be an object. Numbers decode as float64 per encoding/json and map
// onto float values.
func FromJSON(source []byte) (map[string]any, error) {
	var data map[string]any
	if err := json.Unmarshal(source, &data); err != nil {
		return nil, cuserr.WrapStdError(err, ErrCodeData, ErrMsgDataDecodeFailed).
			WithMetadata(MetaKeyFormat, FormatJSON)
	}
	return data, nil
}

// ToJSON encodes a rendered Value back into JSON.
func ToJSON(v Value) ([]byte, error) {
	out, err := json.Marshal(v.ToAny())
	if err != nil {
		return nil, cuserr.WrapStdError(err, ErrCodeData, ErrMsgDataEncodeFailed).
			WithMetadata(MetaKeyFormat, FormatJSON)
	}
	return out, nil
}
