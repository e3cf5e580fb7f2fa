// Package pattern compiles route patterns into anchored matchers and builds
// paths back from them.
//
// # Pattern Syntax
//
// A pattern is a request path with optional placeholders:
//
//	/user/:id            named capture, body [^/]+? unless a rule overrides it
//	/files/*             positional capture, same default body
//	/blog(/:page)        optional segment, compiled to (?:...)?
//	^/raw/(?P<id>\d+)$   leading ^ means the pattern is a regular expression used verbatim
//	/about               no special characters: exact match, no regexp involved
//
// Every translated pattern is anchored and accepts one optional trailing
// slash. Captures never cross a "/" unless a rule says otherwise.
//
// # Usage
//
//	p, err := pattern.Compile("/user/:id", pattern.Rules{"id": `\d+`})
//	if err != nil {
//	    return err
//	}
//	m, ok := p.Match("/user/42")
//	// ok == true, m.Params["id"] == "42"
//
//	path, err := p.Build(map[string]string{"id": "7"}, nil)
//	// path == "/user/7"
package pattern
