package document

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	maxTitleRunes     = 100
	minPatternRunes   = 10
	minFirstLineRunes = 20
)

// Opening phrases of Lithuanian procurement notices. The capture is the rest
// of the line.
var titlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)KVIETIMAS\s+(?:pateikti\s+)?(?:pasiūlymą?|pasiūlymus?)\s+(.+?)(?:\n|$)`),
	regexp.MustCompile(`(?i)PRANEŠIMAS\s+(.+?)(?:\n|$)`),
	regexp.MustCompile(`(?i)KONKURSAS\s+(.+?)(?:\n|$)`),
	regexp.MustCompile(`(?i)SKELBIAMAS\s+(.+?)(?:\n|$)`),
}

var trailingPunctuation = regexp.MustCompile(`\s*[.,;:]\s*$`)

// ExtractTitle recovers a readable title from free text: first an opening
// phrase match, then the first line longer than 20 characters.
func ExtractTitle(content string) (string, bool) {
	if strings.TrimSpace(content) == "" {
		return "", false
	}
	if t, ok := titleFromPattern(content); ok {
		return t, true
	}
	return firstMeaningfulLine(content)
}

func titleFromPattern(content string) (string, bool) {
	for _, p := range titlePatterns {
		m := p.FindStringSubmatch(content)
		if m == nil {
			continue
		}
		extracted := strings.TrimSpace(m[1])
		if utf8.RuneCountInString(extracted) <= minPatternRunes {
			continue
		}
		extracted = trailingPunctuation.ReplaceAllString(extracted, "")
		return truncateTitle(extracted), true
	}
	return "", false
}

func firstMeaningfulLine(content string) (string, bool) {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) > minFirstLineRunes {
			return truncateTitle(line), true
		}
	}
	return "", false
}

// truncateTitle cuts titles over 100 characters to 97 plus "...".
func truncateTitle(s string) string {
	if utf8.RuneCountInString(s) <= maxTitleRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxTitleRunes-3]) + "..."
}
