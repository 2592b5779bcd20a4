package usecase

import (
	"regexp"
	"strings"
	"unicode"
)

// minStepLength is the shortest single-word fragment kept as a step
const minStepLength = 10

var (
	// Matches "1. ", "2) ", "Step 3: " at the start of a line but not "1.5 cups"
	numberedStepPattern = regexp.MustCompile(`(?im)^[ \t]*(?:step[ \t]*)?\d+[.):](?:[ \t]+|$)`)

	// Matches blank lines and sentence terminators followed by whitespace
	stepBoundaryPattern = regexp.MustCompile(`\n[ \t]*\n|[.!?]\s+`)

	whitespacePattern = regexp.MustCompile(`\s+`)
)

// SegmentInstructions splits an instructions blob into ordered steps, each
// ending with a period. Input shorter than ten characters yields no steps.
func SegmentInstructions(raw string) []string {
	text := strings.TrimSpace(raw)
	if len(text) < minStepLength || !strings.ContainsFunc(text, isAlphanumeric) {
		return []string{}
	}

	marked := numberedStepPattern.ReplaceAllString(text, "\n\n")
	steps := collectSteps(stepBoundaryPattern.Split(marked, -1))

	if len(steps) <= 1 {
		fallback := collectSteps(strings.Split(marked, ". "))
		if len(fallback) > len(steps) {
			steps = fallback
		}
	}

	if len(steps) == 0 {
		steps = []string{normalizeStep(text)}
	}
	return steps
}

// collectSteps normalizes fragments and drops noise
func collectSteps(fragments []string) []string {
	steps := make([]string, 0, len(fragments))
	for _, fragment := range fragments {
		step := whitespacePattern.ReplaceAllString(strings.TrimSpace(fragment), " ")
		if isNoiseFragment(step) {
			continue
		}
		steps = append(steps, normalizeStep(step))
	}
	return steps
}

// isNoiseFragment reports fragments too short to be a step. Fragments of
// two or more words such as "Serve hot" are kept regardless of length;
// bare numbers left over from list markers do not count as words.
func isNoiseFragment(fragment string) bool {
	core := strings.TrimRight(fragment, ".!?;:, ")
	words := make([]string, 0, 4)
	for _, word := range strings.Fields(core) {
		if strings.Trim(word, "0123456789.):") != "" {
			words = append(words, word)
		}
	}
	switch len(words) {
	case 0:
		return true
	case 1:
		return len(words[0]) < minStepLength
	default:
		return false
	}
}

func isAlphanumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}

func normalizeStep(step string) string {
	step = strings.TrimRight(strings.TrimSpace(step), ".!?;:, ")
	return step + "."
}
