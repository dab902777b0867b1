package mcp

import (
	"fmt"

	segerrors "seg-mcp-server/internal/errors"

	"github.com/go-viper/mapstructure/v2"
)

// decodeArgs decodes loosely typed JSON arguments into out. Weak typing lets
// clients send numbers as strings and a lone string where a list is
// expected.
func decodeArgs(args map[string]interface{}, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
		TagName:          "mapstructure",
	})
	if err != nil {
		return segerrors.NewInternalError("failed to build argument decoder", err)
	}
	if err := dec.Decode(args); err != nil {
		return segerrors.NewValidationError("arguments", err.Error(), nil)
	}
	return nil
}

// stringArgs flattens prompt arguments to strings, dropping nils
func stringArgs(args map[string]interface{}) map[string]string {
	out := make(map[string]string, len(args))
	for k, v := range args {
		switch t := v.(type) {
		case nil:
		case string:
			out[k] = t
		case float64:
			out[k] = fmt.Sprintf("%g", t)
		default:
			out[k] = fmt.Sprint(t)
		}
	}
	return out
}
