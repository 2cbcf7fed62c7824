package query

import (
	"regexp"
	"strings"

	"github.com/kalasangam/search-service/internal/models"
)

// intentRule pairs a pattern with the intent it signals and an extractor that
// turns the regex captures into a typed payload.
type intentRule struct {
	pattern *regexp.Regexp
	intent  models.Intent
	extract func(groups []string) models.Extraction
}

// IntentMatcher applies an ordered rule list against the raw query text. The
// first matching rule wins and evaluation stops; rules never merge.
type IntentMatcher struct {
	rules []intentRule
}

func subjectExtractor(idx int) func([]string) models.Extraction {
	return func(groups []string) models.Extraction {
		return models.SubjectExtraction{Subject: strings.TrimSpace(groups[idx])}
	}
}

func NewIntentMatcher() *IntentMatcher {
	return &IntentMatcher{
		rules: []intentRule{
			{
				pattern: regexp.MustCompile(`(?i)show me (.+?) art`),
				intent:  models.IntentArtform,
				extract: subjectExtractor(1),
			},
			{
				pattern: regexp.MustCompile(`(?i)paintings? (?:of|from|by) (.+)`),
				intent:  models.IntentPainting,
				extract: subjectExtractor(1),
			},
			{
				pattern: regexp.MustCompile(`(?i)dances? (?:of|from) (.+)`),
				intent:  models.IntentDance,
				extract: subjectExtractor(1),
			},
			{
				pattern: regexp.MustCompile(`(?i)(.+?) from ([a-z ]+)$`),
				intent:  models.IntentRegional,
				extract: func(groups []string) models.Extraction {
					return models.ArtformRegionExtraction{
						Artform: strings.TrimSpace(groups[1]),
						Region:  strings.TrimSpace(groups[2]),
					}
				},
			},
			{
				pattern: regexp.MustCompile(`(?i)^(?:what is|what are|tell me about|who is) (.+)`),
				intent:  models.IntentInformation,
				extract: subjectExtractor(1),
			},
		},
	}
}

// Match runs the rules against the query. The boolean reports whether any
// rule matched; on a miss the caller keeps its default intent.
func (m *IntentMatcher) Match(query string) (models.Intent, models.Extraction, bool) {
	for _, rule := range m.rules {
		groups := rule.pattern.FindStringSubmatch(query)
		if groups == nil {
			continue
		}
		return rule.intent, rule.extract(groups), true
	}
	return models.IntentGeneral, nil, false
}
