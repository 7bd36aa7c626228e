package program

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// MaxWeek is the highest week number a program header may announce.
const MaxWeek = 52

var weekHeaderRe = regexp.MustCompile(`(?i)^semaine\s*(\d{1,2})\s*(?:[:\-.–—]\s*(.*))?$`)

// Sections groups program lines by week number, in source order.
type Sections map[int][]string

// Weeks returns the week numbers present, ascending.
func (s Sections) Weeks() []int {
	weeks := make([]int, 0, len(s))
	for w := range s {
		weeks = append(weeks, w)
	}
	sort.Ints(weeks)
	return weeks
}

// SectionExtractor splits free program text into weekly blocks.
type SectionExtractor interface {
	Extract(programText string) Sections
}

// WeekHeaderExtractor recognizes "Semaine N: ..." headers.
//
// Lines before the first header are dropped. A header outside 1..MaxWeek
// closes the current week, and the lines that follow it are dropped until
// the next valid header. List items keep a "- " marker so that the action
// picker can still recognize them after cleaning.
type WeekHeaderExtractor struct{}

func (WeekHeaderExtractor) Extract(programText string) Sections {
	sections := Sections{}
	text := strings.TrimSpace(programText)
	if text == "" {
		return sections
	}

	current := 0
	for _, raw := range strings.Split(text, "\n") {
		line, bullet := cleanLine(raw)
		if line == "" {
			continue
		}
		if m := weekHeaderRe.FindStringSubmatch(line); m != nil {
			n, err := strconv.Atoi(m[1])
			if err != nil || n < 1 || n > MaxWeek {
				current = 0
				continue
			}
			current = n
			if _, ok := sections[n]; !ok {
				sections[n] = []string{}
			}
			if rest := strings.TrimSpace(m[2]); rest != "" {
				sections[n] = append(sections[n], rest)
			}
			continue
		}
		if current == 0 {
			continue
		}
		if bullet {
			line = "- " + line
		}
		sections[current] = append(sections[current], line)
	}
	return sections
}
