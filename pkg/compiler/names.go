package compiler

import (
	"strings"
	"unicode"

	"github.com/qiuchen001/kubeflow-ground/pkg/api"
)

// Sanitize turns a port name into an identifier accepted by the component grammar.
// Every character that is not a letter, a digit or an underscore is replaced by an underscore,
// and the result is prefixed by an underscore if it starts with a digit.
func Sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 1)
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	s := b.String()
	for _, r := range s {
		if unicode.IsDigit(r) {
			return "_" + s
		}
		break
	}
	return s
}

// nameMap maps raw port names to sanitized names for one component instantiation.
type nameMap map[string]string

func newNameMap(ports []api.Port) nameMap {
	m := make(nameMap, len(ports))
	for _, p := range ports {
		m[p.Name] = Sanitize(p.Name)
	}
	return m
}

// get returns the sanitized name of a declared port, falling back to sanitizing the raw name.
func (m nameMap) get(raw string) string {
	if s, ok := m[raw]; ok {
		return s
	}
	return Sanitize(raw)
}

func (m nameMap) has(raw string) bool {
	_, ok := m[raw]
	return ok
}
