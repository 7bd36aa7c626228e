package program

import (
	"regexp"
	"strings"
)

var (
	ruleRe     = regexp.MustCompile(`^[\s#>*_\-•]+$`)
	headingRe  = regexp.MustCompile(`^#+\s*`)
	quoteRe    = regexp.MustCompile(`^>\s*`)
	listMarkRe = regexp.MustCompile(`^(?:-+\s*|[*+]\s+|•\s*)`) // "*" needs a space, "*x*" is emphasis
	starWrapRe = regexp.MustCompile(`^\*{1,3}\s*(.*?)\s*\*{1,3}$`)
	lineWrapRe = regexp.MustCompile(`^_{1,3}\s*(.*?)\s*_{1,3}$`)
)

// CleanMarkdownLine strips the markdown decoration coaches paste along with
// their programs: headings, quotes, list markers and bold/italic wrappers.
func CleanMarkdownLine(line string) string {
	s, _ := cleanLine(line)
	return s
}

// cleanLine is CleanMarkdownLine that also reports whether the line was a
// list item.
func cleanLine(line string) (string, bool) {
	s := strings.TrimSpace(line)
	if ruleRe.MatchString(s) {
		return "", false
	}

	bullet := false
	for {
		if loc := headingRe.FindStringIndex(s); loc != nil {
			s = s[loc[1]:]
			continue
		}
		if loc := quoteRe.FindStringIndex(s); loc != nil {
			s = s[loc[1]:]
			continue
		}
		if loc := listMarkRe.FindStringIndex(s); loc != nil {
			s = s[loc[1]:]
			bullet = true
			continue
		}
		break
	}

	s = strings.TrimSpace(s)
	s = starWrapRe.ReplaceAllString(s, "$1")
	s = lineWrapRe.ReplaceAllString(s, "$1")
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	return strings.TrimSpace(s), bullet
}
