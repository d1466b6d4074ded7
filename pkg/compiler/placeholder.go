package compiler

import (
	"strings"
)

const (
	placeholderOpen   = "{{"
	placeholderClose  = "}}"
	parametersKeyword = "inputs.parameters."
)

// TokenKind is the classification of a component argument.
type TokenKind int

const (
	// TokenParameter is a {{inputs.parameters.<name>}} placeholder.
	TokenParameter TokenKind = iota
	// TokenOutputPath is a <staging-root>/<output> path.
	TokenOutputPath
	// TokenLiteral is anything else.
	TokenLiteral
)

func (k TokenKind) String() string {
	switch k {
	case TokenParameter:
		return "parameter"
	case TokenOutputPath:
		return "outputPath"
	}
	return "literal"
}

// Token is a classified component argument.
type Token struct {
	Kind TokenKind
	// Name is the raw port name referenced by the token, empty for literals.
	Name string
	Raw  string
}

// ParseToken classifies an argument. Exactly one kind applies, first match wins in the order:
// parameter placeholder, output path, literal.
// outputs are the raw names of the declared outputs, in declaration order.
func ParseToken(arg string, outputs []string, stagingRoot string) Token {
	if name, ok := parameterName(arg); ok {
		return Token{Kind: TokenParameter, Name: name, Raw: arg}
	}
	for _, out := range outputs {
		if arg == outputPathToken(stagingRoot, out) {
			return Token{Kind: TokenOutputPath, Name: out, Raw: arg}
		}
	}
	return Token{Kind: TokenLiteral, Raw: arg}
}

// parameterName extracts <name> from a token starting with {{ and containing inputs.parameters.<name>.
func parameterName(arg string) (string, bool) {
	if !strings.HasPrefix(arg, placeholderOpen) {
		return "", false
	}
	i := strings.Index(arg, parametersKeyword)
	if i < 0 {
		return "", false
	}
	name := arg[i+len(parametersKeyword):]
	if j := strings.Index(name, placeholderClose); j >= 0 {
		name = name[:j]
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	return name, true
}

func outputPathToken(root, output string) string {
	return strings.TrimRight(root, "/") + "/" + output
}

// escapeLiteral escapes backslashes and double quotes.
func escapeLiteral(s string) string {
	s = strings.Replace(s, `\`, `\\`, -1)
	return strings.Replace(s, `"`, `\"`, -1)
}
