package dispatch

import (
	"fmt"
	"regexp"
	"strings"
)

// defaultPlaceholderExpr matches one or more characters excluding the
// path separator. Used for placeholders without a constraint.
const defaultPlaceholderExpr = `[^/]+`

// compiledPattern stores an anchored regexp built from a route pattern
// together with the placeholder names in left-to-right pattern order.
type compiledPattern struct {
	// pattern is the original pattern text.
	pattern string
	// re is the compiled regular expression, anchored to the full path.
	re *regexp.Regexp
	// names are the placeholder names in order. Invariant: len(names)
	// always equals the number of capture groups in re.
	names []string
}

// newCompiledPattern parses a route pattern and returns its compiled form.
//
// Placeholders are written as ":name:" and match one or more non-separator
// characters. A constraint can follow the name after a pipe, ":name|expr:",
// where expr is either a named macro (see macros.go) or a raw regular
// expression. All other pattern bytes match literally.
func newCompiledPattern(pattern string) (*compiledPattern, error) {
	var (
		expr  strings.Builder
		names []string
	)

	expr.WriteByte('^')

	for i := 0; i < len(pattern); {
		if pattern[i] != ':' {
			// Literal run up to the next placeholder.
			j := strings.IndexByte(pattern[i:], ':')
			var raw string
			if j < 0 {
				raw = pattern[i:]
				i = len(pattern)
			} else {
				raw = pattern[i : i+j]
				i += j
			}
			expr.WriteString(regexp.QuoteMeta(raw))
			continue
		}

		end := strings.IndexByte(pattern[i+1:], ':')
		if end < 0 {
			return nil, fmt.Errorf("dispatch: unterminated placeholder in %q", pattern)
		}

		token := pattern[i+1 : i+1+end]
		i += end + 2

		name := token
		sub := defaultPlaceholderExpr
		if k := strings.IndexByte(token, '|'); k >= 0 {
			name = token[:k]
			sub = expandMacro(token[k+1:])
		}

		if name == "" {
			return nil, fmt.Errorf("dispatch: missing placeholder name in %q", pattern)
		}
		if strings.ContainsRune(name, '/') {
			return nil, fmt.Errorf("dispatch: placeholder %q in %q spans a path separator", name, pattern)
		}

		fmt.Fprintf(&expr, "(%s)", sub)
		names = append(names, name)
	}

	expr.WriteByte('$')

	re, err := regexp.Compile(expr.String())
	if err != nil {
		return nil, fmt.Errorf("dispatch: invalid pattern %q: %w", pattern, err)
	}

	// A constraint expression with its own capture groups would desync
	// the capture-to-name zip.
	if re.NumSubexp() != len(names) {
		return nil, fmt.Errorf("dispatch: pattern %q: constraint expressions must not contain capture groups", pattern)
	}

	if err := checkDuplicateNames(names); err != nil {
		return nil, err
	}

	return &compiledPattern{
		pattern: pattern,
		re:      re,
		names:   names,
	}, nil
}

// capture applies the pattern to path and returns the captured placeholder
// values in pattern order. The boolean reports whether the path matched.
func (p *compiledPattern) capture(path string) ([]string, bool) {
	m := p.re.FindStringSubmatch(path)
	if m == nil {
		return nil, false
	}
	return m[1:], true
}

// matches reports whether the path matches the pattern without extracting
// placeholder values.
func (p *compiledPattern) matches(path string) bool {
	return p.re.MatchString(path)
}

// checkDuplicateNames returns an error if any placeholder name is repeated.
func checkDuplicateNames(names []string) error {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			return fmt.Errorf("dispatch: duplicated placeholder %q", n)
		}
		seen[n] = true
	}
	return nil
}
