// Package cluster groups articles that report the same story and derives
// trending words and related articles from titles.
package cluster

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/deusflow/khobor/internal/news"
)

// DefaultThreshold is the minimum title similarity for two articles to
// share a cluster.
const DefaultThreshold = 0.25

// Inflection suffixes, longest first. Stripping them lets "বাংলাদেশের"
// match "বাংলাদেশ".
var suffixes = []string{"গুলোর", "গুলো", "দের", "েরা", "ের", "কে", "তে", "টি", "টা", "ে"}

const minStemRunes = 2

func init() {
	for i, s := range suffixes {
		suffixes[i] = norm.NFC.String(s)
	}
}

func trimPunct(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r) || r == '।'
}

// Tokens returns the set of comparable words in a title: lowercase, NFC,
// longer than two runes, with common Bengali inflections removed.
func Tokens(title string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(norm.NFC.String(title))) {
		w = strings.TrimFunc(w, trimPunct)
		if utf8.RuneCountInString(w) <= 2 {
			continue
		}
		out[stem(w)] = struct{}{}
	}
	return out
}

func stem(w string) string {
	for _, s := range suffixes {
		if !strings.HasSuffix(w, s) {
			continue
		}
		if base := strings.TrimSuffix(w, s); utf8.RuneCountInString(base) >= minStemRunes {
			return base
		}
	}
	return w
}

// Similarity is the Jaccard index of the two titles' token sets.
func Similarity(a, b string) float64 {
	return jaccard(Tokens(a), Tokens(b))
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for w := range a {
		if _, ok := b[w]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// Cluster groups articles greedily. Articles are visited newest first;
// each unvisited article opens a cluster and absorbs every later
// unvisited article whose title similarity to it reaches threshold. A
// non-positive threshold uses DefaultThreshold.
//
// The grouping is single-pass, not transitive: two articles that are
// each similar to a third may land in different clusters.
func Cluster(articles []news.Article, threshold float64) []news.StoryCluster {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	sorted := make([]news.Article, len(articles))
	copy(sorted, articles)
	news.SortByPubDate(sorted)

	tokens := make([]map[string]struct{}, len(sorted))
	for i := range sorted {
		tokens[i] = Tokens(sorted[i].Title)
	}

	processed := make([]bool, len(sorted))
	var clusters []news.StoryCluster
	for i := range sorted {
		if processed[i] {
			continue
		}
		processed[i] = true
		members := []news.Article{sorted[i]}

		for j := i + 1; j < len(sorted); j++ {
			if processed[j] {
				continue
			}
			if jaccard(tokens[i], tokens[j]) >= threshold {
				members = append(members, sorted[j])
				processed[j] = true
			}
		}
		clusters = append(clusters, newCluster(members))
	}
	return clusters
}

func newCluster(members []news.Article) news.StoryCluster {
	var sources []string
	seen := make(map[string]bool)
	for _, m := range members {
		if !seen[m.Source] {
			seen[m.Source] = true
			sources = append(sources, m.Source)
		}
	}
	return news.StoryCluster{
		ID:        members[0].ID,
		Primary:   members[0],
		Related:   members[1:],
		Count:     len(members),
		Sources:   sources,
		IsCluster: len(members) > 1,
	}
}

// Related scores other articles against current: same category +5, same
// source +1, and +3 for every long word of the current title found in the
// candidate's title or preview. The best limit candidates are returned.
func Related(current news.Article, all []news.Article, limit int) []news.Article {
	if limit <= 0 {
		limit = 4
	}
	var keywords []string
	for _, w := range strings.Fields(norm.NFC.String(current.Title)) {
		if utf8.RuneCountInString(w) > 4 {
			keywords = append(keywords, strings.ToLower(w))
		}
	}

	type scored struct {
		article news.Article
		score   int
	}
	var cands []scored
	for _, a := range all {
		if a.ID == current.ID {
			continue
		}
		score := 0
		if a.Category == current.Category {
			score += 5
		}
		if a.SourceID == current.SourceID {
			score++
		}
		text := strings.ToLower(norm.NFC.String(a.Title + " " + a.ShortContent))
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				score += 3
			}
		}
		cands = append(cands, scored{a, score})
	}

	sort.SliceStable(cands, func(i, j int) bool { return cands[i].score > cands[j].score })
	if len(cands) > limit {
		cands = cands[:limit]
	}
	out := make([]news.Article, len(cands))
	for i, c := range cands {
		out[i] = c.article
	}
	return out
}
