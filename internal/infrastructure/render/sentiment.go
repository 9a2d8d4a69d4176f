package render

import (
	"math"
	"regexp"
	"strings"

	"tvsignal/internal/domain"
)

var wordExpr = regexp.MustCompile(`[a-z]+`)

var positiveWords = wordSet(
	"amazing", "masterpiece", "brilliant", "fantastic", "incredible", "love",
	"loved", "perfect", "excellent", "outstanding", "phenomenal", "superb",
	"beautiful", "gorgeous", "stunning", "best", "favorite", "favourite",
	"great", "wonderful", "awesome", "enjoy", "enjoyed", "impressive",
)

var negativeWords = wordSet(
	"terrible", "awful", "horrible", "disappointing", "boring", "worst",
	"hate", "hated", "trash", "garbage", "mediocre", "bad", "poor",
	"painful", "unwatchable", "cringe", "annoying", "overrated", "weak",
	"bland", "dull", "forgettable", "disaster", "ruined",
)

var mixedWords = wordSet(
	"but", "however", "although", "conflicted", "mixed", "uneven",
	"inconsistent", "divisive", "controversial", "overrated",
)

// sentiment summarizes the tone of a post's comments with a coarse keyword
// scan. Purely presentational.
type sentiment struct {
	Label string
	CSS   string
}

func computeSentiment(comments []domain.Comment) sentiment {
	neutral := sentiment{Label: "Neutral discussion", CSS: "neutral"}
	if len(comments) == 0 {
		return neutral
	}

	var pos, neg, mix int
	for _, c := range comments {
		words := wordExpr.FindAllString(strings.ToLower(c.Body), -1)
		seen := map[string]struct{}{}
		for _, w := range words {
			if _, ok := seen[w]; ok {
				continue
			}
			seen[w] = struct{}{}
			if _, ok := positiveWords[w]; ok {
				pos++
			}
			if _, ok := negativeWords[w]; ok {
				neg++
			}
			if _, ok := mixedWords[w]; ok {
				mix++
			}
		}
	}

	total := pos + neg + mix
	switch {
	case total == 0:
		return neutral
	case pos > neg*2 && pos > mix:
		return sentiment{Label: "Positive vibes", CSS: "positive"}
	case neg > pos*2 && neg > mix:
		return sentiment{Label: "Critical reception", CSS: "negative"}
	case mix >= pos && mix >= neg:
		return sentiment{Label: "Mixed reactions", CSS: "mixed"}
	case abs(pos-neg) <= 2:
		return sentiment{Label: "Mixed reactions", CSS: "mixed"}
	case pos > neg:
		return sentiment{Label: "Positive vibes", CSS: "positive"}
	default:
		return sentiment{Label: "Critical reception", CSS: "negative"}
	}
}

// readingTime estimates minutes to read a post's title and comments at 200 wpm.
func readingTime(post domain.Post) int {
	words := len(strings.Fields(post.Title))
	for _, c := range post.Comments {
		words += len(strings.Fields(c.Body))
	}
	return int(math.Max(1, math.Ceil(float64(words)/200)))
}

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
