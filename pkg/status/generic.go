package status

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Mapper is implemented by payloads able to render themselves as a generic map,
// such as generated API client models.
type Mapper interface {
	ToMap() map[string]interface{}
}

// toGeneric converts a payload into nested map[string]interface{} and []interface{} values.
// Strings and byte slices holding JSON are decoded. Anything else is converted through a JSON round trip.
func toGeneric(payload interface{}) (interface{}, bool) {
	switch p := payload.(type) {
	case nil:
		return nil, false
	case map[string]interface{}, []interface{}:
		return p, true
	case Mapper:
		m := p.ToMap()
		return m, m != nil
	case json.RawMessage:
		return decodeJSON(p)
	case []byte:
		return decodeJSON(p)
	case string:
		return decodeJSON([]byte(p))
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return nil, false
	}
	return decodeJSON(b)
}

func decodeJSON(b []byte) (interface{}, bool) {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, false
	}
	switch v.(type) {
	case map[string]interface{}, []interface{}:
		return v, true
	}
	return nil, false
}

// scalar returns the string representation of a scalar value.
func scalar(v interface{}) (string, bool) {
	switch s := v.(type) {
	case string:
		s = strings.TrimSpace(s)
		return s, s != ""
	case float64, bool, int, int64:
		return fmt.Sprint(s), true
	}
	return "", false
}

// firstScalar returns the first scalar value found among keys.
func firstScalar(m map[string]interface{}, keys ...string) (string, bool) {
	for _, k := range keys {
		if s, ok := scalar(m[k]); ok {
			return s, true
		}
	}
	return "", false
}
