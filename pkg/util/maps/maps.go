package maps

import (
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Get returns the value for the given dotted key
func Get(m interface{}, key string) interface{} {
	var obj interface{} = m
	var val interface{} = nil

	parts := strings.Split(key, ".")
	for _, p := range parts {
		if v, ok := obj.(map[string]interface{}); ok {
			obj = v[p]
			val = obj
		} else {
			return nil
		}
	}
	return val
}

// GetString returns the value for the given dotted key if it is a non empty string.
func GetString(m interface{}, key string) (string, bool) {
	s, ok := Get(m, key).(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// FirstString returns the first non empty string value found among the given keys.
func FirstString(m interface{}, keys ...string) (string, bool) {
	for _, k := range keys {
		if s, ok := GetString(m, k); ok {
			return s, true
		}
	}
	return "", false
}

// Decode takes an input structure and uses reflection to translate it to the output structure. output must be a pointer to a map or struct.
func Decode(in, out interface{}) error {
	return mapstructure.Decode(in, out)
}

// WeakDecode is the same as Decode but is tolerant to scalar type mismatches (e.g. numbers for strings).
func WeakDecode(in, out interface{}) error {
	return mapstructure.WeakDecode(in, out)
}
