package cluster

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/deusflow/khobor/internal/news"
)

// Topic is a title word and how many titles used it.
type Topic struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

var stopWords = map[string]bool{}

func init() {
	for _, w := range []string{
		"ও", "এবং", "কিন্তু", "অথবা", "তবে", "জন্য", "কারণে", "দ্বারা", "থেকে", "চেয়ে",
		"পর", "উপরে", "নিচে", "মধ্যে", "কাছে", "দিকে", "কি", "কেন", "কিভাবে", "কবে",
		"কোথায়", "কোন", "কে", "কার", "কাকে", "যে", "যা", "যিনি", "যারা", "যার",
		"হলো", "হচ্ছে", "হব", "হতে", "হয়ে", "আছে", "নেই", "ছিল", "থাকবে", "নয়",
		"না", "নি", "এই", "ওই", "সেই", "সব", "সকল", "কিছু", "অনেক", "এক", "দুই",
		"করা", "করে", "করেন", "করছে", "করছেন", "শুরু", "শেষ", "বলা", "বলে", "বলেন",
		"নিয়ে", "দিয়ে", "গেছে", "গেল", "যাবে", "যায়", "আসা", "আসে", "আসেন", "দেওয়া",
		"দেয়", "দিতে", "নেওয়া", "নেয়", "নিতে", "আজ", "কাল", "গতকাল", "আগামীকাল",
		"এখন", "তখন", "যখন", "গুলি", "গুলো", "টি", "টা", "খানা", "খানি", "জন",
		"করেছে", "করলেন", "রয়েছে", "রইল", "এর", "তে", "র", "য়", "বিষয়",
		"সাথে", "সঙ্গে", "উপর", "নিচ", "পাশ", "সামনে", "পিছনে", "মত", "মতো",
		"ভিডিও", "ছবি", "লাইভ", "খবর", "সংবাদ", "আপডেট", "বাংলাদেশ", "ঢাকা",
		"দেশ", "নতুন", "বছর",
	} {
		stopWords[norm.NFC.String(w)] = true
	}
}

var (
	reTitlePunct = regexp.MustCompile("[।\\-,|!?\"'`:;()\\[\\]{}]")
	reNumeral    = regexp.MustCompile(`^[০-৯0-9]+$`)
)

// DefaultTrendingLimit is the number of topics shown by default.
const DefaultTrendingLimit = 8

// TrendingTopics counts title words across articles and returns those
// seen at least twice, most frequent first. Short words, stop words and
// numerals are ignored.
func TrendingTopics(articles []news.Article, limit int) []Topic {
	if limit <= 0 {
		limit = DefaultTrendingLimit
	}

	counts := make(map[string]int)
	var order []string
	for _, a := range articles {
		if a.Title == "" {
			continue
		}
		clean := reTitlePunct.ReplaceAllString(norm.NFC.String(a.Title), " ")
		for _, w := range strings.Fields(clean) {
			if utf8.RuneCountInString(w) < 3 || stopWords[w] || reNumeral.MatchString(w) {
				continue
			}
			if counts[w] == 0 {
				order = append(order, w)
			}
			counts[w]++
		}
	}

	topics := make([]Topic, 0, len(order))
	for _, w := range order {
		if counts[w] > 1 {
			topics = append(topics, Topic{Word: w, Count: counts[w]})
		}
	}
	sort.SliceStable(topics, func(i, j int) bool { return topics[i].Count > topics[j].Count })
	if len(topics) > limit {
		topics = topics[:limit]
	}
	return topics
}
