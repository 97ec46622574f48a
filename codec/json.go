package codec

import (
	"bytes"
	"encoding/json"
	"errors"
)

var errEmptyJSON = errors.New("codec: empty json payload")

// JSON serializes values with encoding/json. The zero value is ready to use.
type JSON[V any] struct{}

func (JSON[V]) Encode(v V) ([]byte, error) { return json.Marshal(v) }

// Decode rejects blank input instead of returning the zero value, so an empty
// snapshot file reads as corrupt rather than as "no configuration".
func (JSON[V]) Decode(b []byte) (V, error) {
	var v V
	if len(bytes.TrimSpace(b)) == 0 {
		return v, errEmptyJSON
	}
	err := json.Unmarshal(b, &v)
	return v, err
}
