package classify

import "strings"

type tokenKind int

const (
	tokenSample tokenKind = iota
	tokenRole
	tokenLane
	tokenSampleIndex
	tokenRun
)

type token struct {
	text string
	kind tokenKind
}

// rule recognises one token kind; rules are tried in order and the first match wins
type rule struct {
	name  string
	kind  tokenKind
	match func(string) bool
}

var rules = []rule{
	{name: "role", kind: tokenRole, match: isRole},
	{name: "lane", kind: tokenLane, match: isLane},
	{name: "sample-index", kind: tokenSampleIndex, match: isSampleIndex},
}

// isRole accepts lowercase roles too; callers normalise with strings.ToUpper
func isRole(s string) bool {
	switch strings.ToUpper(s) {
	case "R1", "R2", "I1", "I2":
		return true
	}
	return false
}

func isLane(s string) bool {
	return len(s) == 4 && s[0] == 'L' && isDigits(s[1:])
}

func isSampleIndex(s string) bool {
	return len(s) > 1 && s[0] == 'S' && isDigits(s[1:])
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func matchRule(s string) tokenKind {
	for _, r := range rules {
		if r.match(s) {
			return r.kind
		}
	}
	return tokenSample
}

// tokenize splits stem on '_' and assigns each token a kind. The first token
// is always part of the sample name, only the last role token counts, and a
// trailing all-digit token directly after the role is a run number.
func tokenize(stem string) []token {
	var toks []token
	for _, part := range strings.Split(stem, "_") {
		if part == "" {
			continue
		}
		toks = append(toks, token{text: part, kind: matchRule(part)})
	}
	if len(toks) == 0 {
		return nil
	}
	toks[0].kind = tokenSample

	roleAt := -1
	for i := len(toks) - 1; i >= 0; i-- {
		if toks[i].kind != tokenRole {
			continue
		}
		if roleAt < 0 {
			roleAt = i
		} else {
			toks[i].kind = tokenSample
		}
	}

	last := len(toks) - 1
	if roleAt >= 0 && roleAt == last-1 && isDigits(toks[last].text) {
		toks[last].kind = tokenRun
	}
	return toks
}

func (k tokenKind) String() string {
	for _, r := range rules {
		if r.kind == k {
			return r.name
		}
	}
	if k == tokenRun {
		return "run"
	}
	return "sample"
}
