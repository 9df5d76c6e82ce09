package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/deusflow/khobor/internal/app"
	"github.com/deusflow/khobor/internal/cluster"
	"github.com/deusflow/khobor/internal/digest"
	"github.com/deusflow/khobor/internal/news"
	"github.com/deusflow/khobor/internal/storage"
	"github.com/deusflow/khobor/internal/textnorm"
)

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// badges renders the article state flags shown next to a headline.
func badges(a news.Article, bookmarked bool) string {
	var b []string
	if a.IsNew {
		b = append(b, "নতুন")
	}
	if a.IsUpdated {
		b = append(b, "আপডেট")
	}
	if bookmarked {
		b = append(b, "🔖")
	}
	if len(b) == 0 {
		return ""
	}
	return " [" + strings.Join(b, " ") + "]"
}

// timeAgo formats the age of t in Bengali, like "৫ মিনিট আগে".
func timeAgo(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "এইমাত্র"
	case d < time.Hour:
		return textnorm.ToBengaliDigits(fmt.Sprint(int(d.Minutes()))) + " মিনিট আগে"
	case d < 24*time.Hour:
		return textnorm.ToBengaliDigits(fmt.Sprint(int(d.Hours()))) + " ঘণ্টা আগে"
	default:
		return textnorm.ToBengaliDigits(fmt.Sprint(int(d.Hours()/24))) + " দিন আগে"
	}
}

type bookmarkChecker interface {
	IsBookmarked(id string) bool
}

func printPage(w io.Writer, p app.Page, bm bookmarkChecker, now time.Time) {
	if p.Total == 0 {
		fmt.Fprintln(w, "কোনো খবর পাওয়া যায়নি।")
		return
	}
	for i, a := range p.Articles {
		fmt.Fprintf(w, "%3d. %s%s\n", i+1, a.Title, badges(a, bm.IsBookmarked(a.ID)))
		fmt.Fprintf(w, "     %s · %s · %s · %s\n", a.Source, a.Category, timeAgo(a.PubDate, now), a.ID)
	}
	if p.HasMore {
		fmt.Fprintf(w, "\n… %d more (use --page %d)\n", p.Total-len(p.Articles), p.Page+1)
	}
}

func printArticle(w io.Writer, a news.Article, related []news.Article) {
	_, label := textnorm.ReadingTime(a.Content)
	fmt.Fprintf(w, "%s\n%s · %s · %s\n", a.Title, a.Source, a.PubDate.In(textnorm.Dhaka).Format("2006-01-02 15:04"), label)
	fmt.Fprintf(w, "%s\n\n%s\n", a.Link, a.Content)
	if len(a.Revisions) > 0 {
		fmt.Fprintf(w, "\nআগের সংস্করণ: %s\n", textnorm.ToBengaliDigits(fmt.Sprint(len(a.Revisions))))
	}
	if len(related) > 0 {
		fmt.Fprintln(w, "\nসম্পর্কিত খবর:")
		for _, r := range related {
			fmt.Fprintf(w, "  - %s (%s) %s\n", r.Title, r.Source, r.ID)
		}
	}
}

func printClusters(w io.Writer, clusters []news.StoryCluster) {
	for _, c := range clusters {
		if !c.IsCluster {
			continue
		}
		fmt.Fprintf(w, "📰 %s (%d sources: %s)\n", c.Primary.Title, len(c.Sources), strings.Join(c.Sources, ", "))
		for _, r := range c.Related {
			fmt.Fprintf(w, "   ↳ %s (%s)\n", r.Title, r.Source)
		}
	}
	fmt.Fprintf(w, "%d stories\n", len(clusters))
}

func printTopics(w io.Writer, topics []cluster.Topic) {
	for _, t := range topics {
		fmt.Fprintf(w, "#%s (%s)\n", t.Word, textnorm.ToBengaliDigits(fmt.Sprint(t.Count)))
	}
}

func printDigest(w io.Writer, d digest.Digest) {
	fmt.Fprintf(w, "দৈনিক সারসংক্ষেপ · %s\n", d.Date.In(textnorm.Dhaka).Format("2006-01-02"))
	if d.Summary != "" {
		fmt.Fprintf(w, "\n%s\n", d.Summary)
	}
	for _, s := range d.Sections {
		fmt.Fprintf(w, "\n%s\n", s.Category)
		for _, a := range s.Articles {
			fmt.Fprintf(w, "  • %s (%s)\n", a.Title, a.Source)
		}
	}
}

func printSaved(w io.Writer, saved []storage.SavedArticle) {
	if len(saved) == 0 {
		fmt.Fprintln(w, "No saved articles.")
		return
	}
	for _, a := range saved {
		fmt.Fprintf(w, "%s · %s · saved %s · %s\n", a.Title, a.Source, a.SavedAt.Format(time.RFC3339), a.ID)
	}
}
