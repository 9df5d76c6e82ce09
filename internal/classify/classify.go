// Package classify assigns a category and a coarse sentiment to article
// text using weighted keyword lists.
package classify

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/deusflow/khobor/internal/news"
)

type keyword struct {
	term   string
	weight int
}

type rule struct {
	category news.Category
	keywords []keyword
}

// rules are evaluated in order; on equal scores the earlier rule wins.
var rules = []rule{
	{news.Sports, []keyword{
		{"ক্রিকেট", 3}, {"ফুটবল", 3}, {"খেলা", 2}, {"খেলোয়াড়", 2}, {"বিশ্বকাপ", 3},
		{"টেস্ট", 1}, {"ওয়ানডে", 2}, {"টি-টোয়েন্টি", 2}, {"সাকিব", 2}, {"তামিম", 2},
		{"মেসি", 2}, {"নেইমার", 2}, {"রোনালদো", 2}, {"ম্যাচ", 2}, {"বিসিবি", 2},
		{"cricket", 3}, {"football", 3}, {"sport", 2}, {"sports", 2}, {"match", 1},
	}},
	{news.Politics, []keyword{
		{"রাজনীতি", 3}, {"নির্বাচন", 3}, {"সরকার", 2}, {"বিএনপি", 3}, {"আওয়ামী", 3},
		{"জামায়াত", 3}, {"সংসদ", 2}, {"মন্ত্রী", 2}, {"প্রধানমন্ত্রী", 2}, {"উপদেষ্টা", 2},
		{"ভোট", 2}, {"নির্বাচন কমিশন", 2},
		{"politics", 3}, {"political", 3}, {"election", 3}, {"government", 2},
	}},
	{news.Entertainment, []keyword{
		{"বিনোদন", 3}, {"চলচ্চিত্র", 3}, {"সিনেমা", 3}, {"অভিনেতা", 3}, {"অভিনেত্রী", 3},
		{"নাটক", 2}, {"শিল্পী", 2}, {"তারকা", 2}, {"ঢালিউড", 3}, {"বলিউড", 3},
		{"entertainment", 3}, {"movie", 2}, {"film", 2},
	}},
	{news.Business, []keyword{
		{"অর্থনীতি", 2}, {"বাজেট", 3}, {"টাকা", 1}, {"ব্যাংক", 2}, {"ব্যবসা", 2},
		{"বাণিজ্য", 2}, {"শেয়ারবাজার", 3}, {"রপ্তানি", 2}, {"আমদানি", 2}, {"মূল্যস্ফীতি", 3},
		{"ডলার", 2}, {"রিজার্ভ", 2}, {"বিনিয়োগ", 2},
		{"business", 3}, {"economy", 3}, {"market", 1}, {"bank", 2},
	}},
	{news.Technology, []keyword{
		{"প্রযুক্তি", 3}, {"স্মার্টফোন", 3}, {"কম্পিউটার", 2}, {"ইন্টারনেট", 2},
		{"মোবাইল", 1}, {"অ্যাপ", 2}, {"সফটওয়্যার", 2}, {"কৃত্রিম বুদ্ধিমত্তা", 3},
		{"সাইবার", 2}, {"ফেসবুক", 1}, {"গুগল", 2},
		{"tech", 3}, {"technology", 3}, {"ai", 2}, {"software", 2}, {"internet", 2},
	}},
	{news.Health, []keyword{
		{"স্বাস্থ্য", 3}, {"হাসপাতাল", 2}, {"চিকিৎসা", 2}, {"চিকিৎসক", 2}, {"ডাক্তার", 2},
		{"ডেঙ্গু", 3}, {"করোনা", 3}, {"রোগী", 2}, {"টিকা", 2}, {"ওষুধ", 2},
		{"health", 3}, {"hospital", 2}, {"covid", 3}, {"vaccine", 2},
	}},
	{news.World, []keyword{
		{"আন্তর্জাতিক", 3}, {"বিশ্ব", 1}, {"যুক্তরাষ্ট্র", 2}, {"ভারত", 1}, {"চীন", 2},
		{"রাশিয়া", 2}, {"ইউক্রেন", 2}, {"ইসরায়েল", 2}, {"গাজা", 2}, {"জাতিসংঘ", 3},
		{"মিয়ানমার", 2}, {"পাকিস্তান", 2},
		{"world", 2}, {"international", 3}, {"global", 1},
	}},
	{news.Lifestyle, []keyword{
		{"জীবনযাপন", 3}, {"লাইফস্টাইল", 3}, {"রান্না", 2}, {"রেসিপি", 3}, {"ফ্যাশন", 3},
		{"ভ্রমণ", 2}, {"রূপচর্চা", 3}, {"সম্পর্ক", 1}, {"খাবার", 1},
		{"lifestyle", 3}, {"fashion", 3}, {"recipe", 3}, {"travel", 2},
	}},
}

var positiveWords = []string{
	"জয়", "সাফল্য", "সফল", "উন্নয়ন", "অর্জন", "খুশি", "আনন্দ", "প্রশংসা",
	"পুরস্কার", "সমাধান", "উদ্বোধন", "রেকর্ড", "শান্তি",
	"win", "success", "growth", "award",
}

var negativeWords = []string{
	"মৃত্যু", "নিহত", "আহত", "দুর্ঘটনা", "হত্যা", "সংঘর্ষ", "হামলা", "ধর্ষণ",
	"বন্যা", "আগুন", "গ্রেপ্তার", "গ্রেফতার", "ক্ষতি", "দুর্নীতি", "সংকট", "বিক্ষোভ",
	"death", "killed", "attack", "crisis",
}

func init() {
	for i := range rules {
		for j := range rules[i].keywords {
			rules[i].keywords[j].term = normalize(rules[i].keywords[j].term)
		}
	}
	for i := range positiveWords {
		positiveWords[i] = normalize(positiveWords[i])
	}
	for i := range negativeWords {
		negativeWords[i] = normalize(negativeWords[i])
	}
}

// normalize lowercases, applies NFC and replaces everything that is not
// a letter, digit or combining mark with a space.
func normalize(s string) string {
	s = strings.ToLower(norm.NFC.String(s))
	var b strings.Builder
	b.Grow(len(s))
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
			b.WriteRune(' ')
		case r == '>':
			inTag = false
			b.WriteRune(' ')
		case inTag:
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) || r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// words is normalized text plus a count of each of its tokens.
type words struct {
	text   string
	tokens map[string]int
}

func newWords(text string) words {
	w := words{text: normalize(text), tokens: make(map[string]int)}
	for _, tok := range strings.Fields(w.text) {
		w.tokens[tok]++
	}
	return w
}

// occurrences counts kw in w. Latin keywords must match whole words so
// "ai" does not hit "said"; Bengali keywords match as substrings to catch
// inflected forms.
func (w words) occurrences(kw string) int {
	if isASCII(kw) {
		return w.tokens[kw]
	}
	return strings.Count(w.text, kw)
}

// Scores returns the keyword score for every category that scored.
func Scores(text string) map[news.Category]int {
	w := newWords(text)
	out := make(map[news.Category]int)
	for _, r := range rules {
		score := 0
		for _, kw := range r.keywords {
			score += kw.weight * w.occurrences(kw.term)
		}
		if score > 0 {
			out[r.category] = score
		}
	}
	return out
}

// Classify returns the best-scoring category, or General when nothing
// scores above zero.
func Classify(text string) news.Category {
	scores := Scores(text)
	best, bestScore := news.General, 0
	for _, r := range rules {
		if s := scores[r.category]; s > bestScore {
			best, bestScore = r.category, s
		}
	}
	return best
}

// Sentiment counts positive and negative keywords present in text and
// returns the label matching the sign of the total.
func Sentiment(text string) news.Sentiment {
	w := newWords(text)
	total := 0
	for _, kw := range positiveWords {
		if w.occurrences(kw) > 0 {
			total++
		}
	}
	for _, kw := range negativeWords {
		if w.occurrences(kw) > 0 {
			total--
		}
	}
	switch {
	case total > 0:
		return news.Positive
	case total < 0:
		return news.Negative
	default:
		return news.Neutral
	}
}
