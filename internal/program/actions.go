package program

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// MaxActions caps the actions picked for one week.
	MaxActions = 3
	// ObjectiveWindow is how many leading lines are searched for an
	// explicit objective label.
	ObjectiveWindow = 15
)

var (
	objectiveRe   = regexp.MustCompile(`(?i)^objectif(?:\s+de\s+la\s+semaine)?\s*:\s*(.*)$`)
	numberedRe    = regexp.MustCompile(`^(?:\d+\.\s+|\d+\)\s+)(.+)$`)
	actionsHdrRe  = regexp.MustCompile(`(?i)^actions?\b\s*:?\s*$`)
	terrainHdrRe  = regexp.MustCompile(`(?i)^actions?\s+terrain\s*:?\s*$`)
	labeledLineRe = regexp.MustCompile(`(?i)^(objectif|rappel|indicateur)\b`)
)

// ActionPicker reads the objective and actions out of one week's lines.
type ActionPicker interface {
	Pick(lines []string) (objective string, actions []string)
}

// BulletPicker takes the "Objectif:" line (or the first line) as objective
// and up to MaxActions list items as actions. Inside an "Actions:" block,
// plain sentences count as actions too.
type BulletPicker struct{}

type pickedLine struct {
	text   string
	bullet bool
}

func (BulletPicker) Pick(lines []string) (string, []string) {
	clean := make([]pickedLine, 0, len(lines))
	for _, raw := range lines {
		text, bullet := cleanLine(raw)
		if text != "" {
			clean = append(clean, pickedLine{text: text, bullet: bullet})
		}
	}
	if len(clean) == 0 {
		return "", nil
	}

	objective := ""
	for i, ln := range clean {
		if i >= ObjectiveWindow {
			break
		}
		if m := objectiveRe.FindStringSubmatch(ln.text); m != nil {
			if cand := strings.TrimSpace(m[1]); cand != "" {
				objective = cand
				break
			}
		}
	}
	if objective == "" {
		objective = clean[0].text
	}

	var actions []string
	inBlock := false
	for _, ln := range clean {
		if actionsHdrRe.MatchString(ln.text) || terrainHdrRe.MatchString(ln.text) {
			inBlock = true
			continue
		}

		switch {
		case ln.bullet && !objectiveRe.MatchString(ln.text):
			actions = append(actions, ln.text)
		case numberedRe.MatchString(ln.text):
			if t := strings.TrimSpace(numberedRe.FindStringSubmatch(ln.text)[1]); t != "" {
				actions = append(actions, t)
			}
		case inBlock:
			if utf8.RuneCountInString(ln.text) > 5 && !labeledLineRe.MatchString(ln.text) {
				actions = append(actions, ln.text)
			}
		}

		if len(actions) >= MaxActions {
			break
		}
	}
	return strings.TrimSpace(objective), actions
}
