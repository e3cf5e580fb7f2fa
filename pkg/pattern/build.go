package pattern

import (
	"fmt"
	"strings"
)

// Build substitutes values into the pattern's source string.
// Named placeholders take their value from params; positional captures
// consume args in order. An optional segment is kept only when every
// placeholder inside it has a value. Values are inserted as given.
func (p *Pattern) Build(params map[string]string, args []string) (string, error) {
	if p.isRegex {
		return "", fmt.Errorf("%w: %q", ErrNotReversible, p.raw)
	}
	if p.isLit {
		if p.raw == "" {
			return "/", nil
		}
		return p.raw, nil
	}

	b := &builder{src: p.raw, params: params, args: args}
	out, missing := b.segment(0)
	if missing != "" {
		return "", fmt.Errorf("%w: %q in %q", ErrMissingParam, missing, p.raw)
	}
	if out == "" {
		return "/", nil
	}
	return out, nil
}

type builder struct {
	params map[string]string
	src    string
	args   []string
	pos    int
}

// segment renders src from the current position up to the closing paren
// of the current depth (or the end of input). It reports the first
// placeholder that had no value.
func (b *builder) segment(depth int) (string, string) {
	var (
		out     strings.Builder
		missing string
	)
	for b.pos < len(b.src) {
		ch := b.src[b.pos]
		b.pos++
		switch ch {
		case '(':
			saved := b.args
			inner, innerMissing := b.segment(depth + 1)
			if innerMissing == "" {
				out.WriteString(inner)
			} else {
				// a dropped group gives its wildcard values back
				b.args = saved
			}
		case ')':
			if depth > 0 {
				return out.String(), missing
			}
			out.WriteByte(ch)
		case '*':
			if len(b.args) == 0 {
				if missing == "" {
					missing = "*"
				}
				continue
			}
			out.WriteString(b.args[0])
			b.args = b.args[1:]
		case ':':
			name := scanName(b.src[b.pos:])
			if name == "" {
				out.WriteByte(ch)
				continue
			}
			b.pos += len(name)
			v := b.params[name]
			if v == "" && missing == "" {
				missing = name
			}
			out.WriteString(v)
		default:
			out.WriteByte(ch)
		}
	}
	return out.String(), missing
}
