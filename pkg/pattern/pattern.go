package pattern

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultRule is the capture body used by placeholders without a rule.
// It is non-greedy and never crosses a path separator.
const DefaultRule = `[^/]+?`

// Rules maps placeholder names to regexp fragments overriding DefaultRule.
type Rules map[string]string

// Pattern is a compiled route pattern. It is immutable and safe for
// concurrent use.
type Pattern struct {
	re       *regexp.Regexp
	raw      string
	literal  string
	names    []string
	named    []int // submatch index of each entry in names
	wildcard []int // submatch indexes of positional captures
	isLit    bool
	isRegex  bool
}

// Match holds the values captured from a request path.
type Match struct {
	// Params holds named captures. Captures that did not participate
	// in the match are present with an empty value.
	Params map[string]string

	// Args holds positional captures in pattern order.
	Args []string
}

// Compile turns a pattern string into a Pattern.
// Compiling the same pattern and rules twice yields equivalent values.
func Compile(raw string, rules Rules) (*Pattern, error) {
	if strings.HasPrefix(raw, "^") {
		return compileRegex(raw)
	}
	if IsLiteral(raw) {
		return &Pattern{
			raw:     raw,
			literal: trimSlash(raw),
			isLit:   true,
		}, nil
	}
	return compileTemplate(raw, rules)
}

// MustCompile is like Compile but panics if the pattern cannot be compiled.
func MustCompile(raw string, rules Rules) *Pattern {
	p, err := Compile(raw, rules)
	if err != nil {
		panic(err)
	}
	return p
}

// IsLiteral reports whether raw takes the exact-match fast path.
func IsLiteral(raw string) bool {
	return !strings.HasPrefix(raw, "^") && !strings.ContainsAny(raw, ":*(")
}

func compileRegex(raw string) (*Pattern, error) {
	re, err := regexp.Compile(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidPattern, raw, err)
	}
	p := &Pattern{raw: raw, re: re, isRegex: true}
	for i, name := range re.SubexpNames() {
		if i == 0 {
			continue
		}
		if name == "" {
			p.wildcard = append(p.wildcard, i)
			continue
		}
		p.names = append(p.names, name)
		p.named = append(p.named, i)
	}
	return p, nil
}

func compileTemplate(raw string, rules Rules) (*Pattern, error) {
	p := &Pattern{raw: raw}
	var b strings.Builder
	b.WriteString("^")

	group := 0
	seen := make(map[string]struct{})
	for i := 0; i < len(raw); i++ {
		switch ch := raw[i]; ch {
		case '/':
			b.WriteString(`\/`)
		case '(':
			b.WriteString("(?:")
		case ')':
			b.WriteString(")?")
		case '*':
			group++
			p.wildcard = append(p.wildcard, group)
			b.WriteString("(" + DefaultRule + ")")
		case ':':
			name := scanName(raw[i+1:])
			if name == "" {
				b.WriteByte(ch)
				continue
			}
			i += len(name)
			if _, dup := seen[name]; dup {
				return nil, fmt.Errorf("%w: %q: duplicate parameter %q", ErrInvalidPattern, raw, name)
			}
			seen[name] = struct{}{}

			body, inner := DefaultRule, 0
			if rule := rules[name]; rule != "" {
				n, err := ruleCaptures(rule)
				if err != nil {
					return nil, fmt.Errorf("%w: %q: rule for %q: %w", ErrInvalidPattern, raw, name, err)
				}
				body, inner = rule, n
			}
			group++
			p.names = append(p.names, name)
			p.named = append(p.named, group)
			group += inner
			b.WriteString("(?P<" + name + ">" + body + ")")
		default:
			b.WriteByte(ch)
		}
	}
	b.WriteString(`\/?$`)

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidPattern, raw, err)
	}
	p.re = re
	return p, nil
}

// Raw returns the source string the pattern was compiled from.
func (p *Pattern) Raw() string { return p.raw }

// Names returns the named placeholders in the order they appear.
func (p *Pattern) Names() []string {
	return append([]string(nil), p.names...)
}

// IsRegex reports whether the pattern is a verbatim regular expression.
func (p *Pattern) IsRegex() bool { return p.isRegex }

// IsLiteral reports whether the pattern matches by plain string comparison.
func (p *Pattern) IsLiteral() bool { return p.isLit }

// String returns the compiled regular expression, or the normalized literal
// for exact-match patterns.
func (p *Pattern) String() string {
	if p.isLit {
		return p.literal
	}
	return p.re.String()
}

// Match runs the pattern against a request path.
func (p *Pattern) Match(path string) (Match, bool) {
	if p.isLit {
		if trimSlash(path) != p.literal {
			return Match{}, false
		}
		return Match{}, true
	}

	idx := p.re.FindStringSubmatchIndex(path)
	if idx == nil {
		return Match{}, false
	}

	var m Match
	if len(p.names) > 0 {
		m.Params = make(map[string]string, len(p.names))
		for i, name := range p.names {
			m.Params[name] = submatch(path, idx, p.named[i])
		}
	}
	if len(p.wildcard) > 0 {
		m.Args = make([]string, 0, len(p.wildcard))
		for _, g := range p.wildcard {
			m.Args = append(m.Args, submatch(path, idx, g))
		}
	}
	return m, true
}

func submatch(s string, idx []int, group int) string {
	lo, hi := idx[2*group], idx[2*group+1]
	if lo < 0 {
		return ""
	}
	return s[lo:hi]
}

// scanName returns the placeholder identifier at the start of s.
func scanName(s string) string {
	n := 0
	for n < len(s) {
		c := s[n]
		if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			n++
			continue
		}
		break
	}
	return s[:n]
}

// ruleCaptures validates a rule fragment and returns how many capture
// groups it opens. Named groups are rejected so that placeholder names
// stay the only named captures in a compiled pattern.
func ruleCaptures(rule string) (int, error) {
	re, err := regexp.Compile(rule)
	if err != nil {
		return 0, err
	}
	for _, name := range re.SubexpNames() {
		if name != "" {
			return 0, fmt.Errorf("named group %q not allowed in rule", name)
		}
	}
	return re.NumSubexp(), nil
}

// trimSlash strips one trailing slash; the root path normalizes to "".
func trimSlash(s string) string {
	return strings.TrimSuffix(s, "/")
}
