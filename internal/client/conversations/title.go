package conversations

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/client/models"
)

const maxTitleLen = 100

var (
	destinationRe   = regexp.MustCompile(`(?i)\bto\s+([A-Za-z0-9 \-'’]{2,60}?)(?:\s+(?:for|in|during|with|on)\b|\s*$)`)
	travelerHintRe  = regexp.MustCompile(`(?i)\b(family|couple|solo|group|friends|\d+\s*(people|persons|travellers|travelers|kids|children))\b`)
	trailingPunctRe = regexp.MustCompile(`[.,;!?)]+$`)
	quoteReplacer   = strings.NewReplacer(`"`, "", "'", "", "`", "", "\n", " ", "\r", " ")
)

// InferTitle derives a conversation title from the first user message.
//
// A "to <destination>" phrase followed by for/in/during/with/on or the end
// of the text yields "Trip to <Destination>", with a traveler hint such as
// "family" or "4 people" appended when present. Otherwise the first six
// words are used. Blank input yields models.DefaultTitle.
func InferTitle(text string) string {
	txt := strings.TrimSpace(text)
	if txt == "" {
		return models.DefaultTitle
	}

	if m := destinationRe.FindStringSubmatch(txt); m != nil && m[1] != "" {
		dest := trailingPunctRe.ReplaceAllString(strings.TrimSpace(m[1]), "")
		words := strings.Fields(dest)
		for i, w := range words {
			words[i] = upperFirst(w)
		}

		title := "Trip to " + strings.Join(words, " ")
		if hint := travelerHintRe.FindString(txt); hint != "" {
			title += " — " + hint
		}
		return truncate(title, maxTitleLen)
	}

	words := strings.Fields(txt)
	if len(words) > 6 {
		words = words[:6]
	}
	short := quoteReplacer.Replace(strings.Join(words, " "))
	return truncate(upperFirst(short), maxTitleLen)
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
