// Package merge reconciles freshly fetched articles against the previous
// snapshot, carrying identity-scoped state across refresh cycles.
package merge

import (
	"time"

	"github.com/deusflow/khobor/internal/news"
)

// Mode distinguishes the two refresh triggers.
type Mode int

const (
	// Manual covers user-triggered refreshes and the initial load.
	Manual Mode = iota
	// Auto is a silent background refresh.
	Auto
)

func (m Mode) String() string {
	if m == Auto {
		return "auto"
	}
	return "manual"
}

// Reconcile merges incoming against previous. See reconcileAt.
func Reconcile(previous, incoming []news.Article, read *news.IDSet, mode Mode) []news.Article {
	return reconcileAt(time.Now(), previous, incoming, read, mode)
}

// reconcileAt merges incoming against previous by id:
//   - the prior image wins when present;
//   - the prior pubDate is never replaced;
//   - a title or content change marks the article updated and records the
//     prior version as a revision, unless it repeats the last revision;
//   - isNew is never raised for an id in the read set.
//
// The result is sorted newest first. Duplicate incoming ids keep the
// first occurrence.
func reconcileAt(now time.Time, previous, incoming []news.Article, read *news.IDSet, _ Mode) []news.Article {
	prior := make(map[string]*news.Article, len(previous))
	for i := range previous {
		if _, dup := prior[previous[i].ID]; !dup {
			prior[previous[i].ID] = &previous[i]
		}
	}

	seen := make(map[string]bool, len(incoming))
	out := make([]news.Article, 0, len(incoming))
	for _, in := range incoming {
		if seen[in.ID] {
			continue
		}
		seen[in.ID] = true

		merged := in
		merged.Revisions = nil
		wasRead := read.Has(in.ID)

		p, ok := prior[in.ID]
		if !ok {
			merged.IsCached = false
			merged.IsUpdated = false
			merged.IsNew = !wasRead
			out = append(out, merged)
			continue
		}

		merged.IsCached = true
		if p.Image != "" {
			merged.Image = p.Image
		}
		merged.PubDate = p.PubDate
		merged.Revisions = append([]news.Revision(nil), p.Revisions...)

		changed := p.Content != in.Content || p.Title != in.Title
		if changed {
			merged.Revisions = appendRevision(merged.Revisions, news.Revision{
				Title:     p.Title,
				Content:   p.Content,
				UpdatedAt: now,
			}, in.Content)
		}
		merged.IsUpdated = changed || p.IsUpdated

		// Auto refresh preserves the prior flag; manual refresh also clears
		// it for read ids. Since a read id never keeps isNew, both reduce to
		// the same rule.
		merged.IsNew = p.IsNew && !wasRead

		out = append(out, merged)
	}

	news.SortByPubDate(out)
	return out
}

// appendRevision records snap unless the incoming content equals the
// last stored revision or snap repeats it.
func appendRevision(revs []news.Revision, snap news.Revision, incomingContent string) []news.Revision {
	if n := len(revs); n > 0 {
		last := revs[n-1]
		if last.Content == incomingContent {
			return revs
		}
		if last.Title == snap.Title && last.Content == snap.Content {
			return revs
		}
		if snap.UpdatedAt.Before(last.UpdatedAt) {
			snap.UpdatedAt = last.UpdatedAt
		}
	}
	return append(revs, snap)
}

// MarkRead records that the article with id was opened: it is no longer
// new, counts as cached, and its id joins the read set. It reports
// whether the article was found. Calling it again changes nothing.
// An unknown id is not added to the read set.
func MarkRead(articles []news.Article, id string, read *news.IDSet) bool {
	for i := range articles {
		if articles[i].ID == id {
			articles[i].IsNew = false
			articles[i].IsCached = true
			read.Add(id)
			return true
		}
	}
	return false
}

// ClearRead drops isNew from every article whose id is in read. It covers
// ids that joined the read set after a merge was computed.
func ClearRead(articles []news.Article, read *news.IDSet) {
	for i := range articles {
		if articles[i].IsNew && read.Has(articles[i].ID) {
			articles[i].IsNew = false
		}
	}
}
