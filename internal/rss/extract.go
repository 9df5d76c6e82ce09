package rss

import (
	"regexp"
	"strings"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
)

// An imageStrategy inspects one item and returns an image URL or "".
type imageStrategy func(item *gofeed.Item, raw string) string

// imageStrategies are tried in order; the first hit wins.
var imageStrategies = []imageStrategy{
	fromEnclosure,
	fromMedia("content"),
	fromMedia("thumbnail"),
	fromFeaturedImage,
	fromEmbeddedImg,
	fromOpenGraph,
}

var (
	reImageExt = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|webp)`)
	reImgTags  = []*regexp.Regexp{
		regexp.MustCompile(`(?i)<img[^>]+src=["']([^"']+)["']`),
		regexp.MustCompile(`(?i)<img[^>]+src=([^\s>]+)`),
		regexp.MustCompile(`(?i)src=["'](https?://[^"']+\.(?:jpg|jpeg|png|gif|webp)[^"']*)["']`),
		regexp.MustCompile(`(?i)(https?://[^\s<>"]+\.(?:jpg|jpeg|png|gif|webp))`),
	}
	reOGImage = regexp.MustCompile(`(?i)og:image[^>]+content=["']([^"']+)["']`)
)

func extractImage(item *gofeed.Item, raw string) string {
	for _, s := range imageStrategies {
		if u := strings.TrimSpace(s(item, raw)); u != "" {
			return u
		}
	}
	return ""
}

func fromEnclosure(item *gofeed.Item, _ string) string {
	for _, enc := range item.Enclosures {
		if enc == nil || enc.URL == "" {
			continue
		}
		if reImageExt.MatchString(enc.URL) || strings.HasPrefix(strings.ToLower(enc.Type), "image/") {
			return enc.URL
		}
	}
	return ""
}

// fromMedia reads media:<name> url attributes, including those nested in
// media:group.
func fromMedia(name string) imageStrategy {
	return func(item *gofeed.Item, _ string) string {
		media, ok := item.Extensions["media"]
		if !ok {
			return ""
		}
		if u := firstAttr(media[name], "url"); u != "" {
			return u
		}
		for _, group := range media["group"] {
			if u := firstAttr(group.Children[name], "url"); u != "" {
				return u
			}
		}
		return ""
	}
}

func firstAttr(exts []ext.Extension, attr string) string {
	for _, e := range exts {
		if v := e.Attrs[attr]; v != "" {
			return v
		}
	}
	return ""
}

var featuredNames = []string{"post-thumbnail", "featured-image"}

// fromFeaturedImage handles the WordPress post-thumbnail and
// featured-image elements, with or without a namespace.
func fromFeaturedImage(item *gofeed.Item, _ string) string {
	for _, name := range featuredNames {
		if v := strings.TrimSpace(item.Custom[name]); strings.HasPrefix(v, "http") {
			return v
		}
		for _, ns := range item.Extensions {
			for _, e := range ns[name] {
				for _, u := range e.Children["url"] {
					if strings.HasPrefix(strings.TrimSpace(u.Value), "http") {
						return u.Value
					}
				}
				if strings.HasPrefix(strings.TrimSpace(e.Value), "http") {
					return e.Value
				}
			}
		}
	}
	return ""
}

func fromEmbeddedImg(item *gofeed.Item, _ string) string {
	html := item.Description + item.Content
	if html == "" {
		return ""
	}
	for _, re := range reImgTags {
		if m := re.FindStringSubmatch(html); len(m) > 1 && m[1] != "" {
			return strings.ReplaceAll(m[1], "&amp;", "&")
		}
	}
	return ""
}

func fromOpenGraph(_ *gofeed.Item, raw string) string {
	if m := reOGImage.FindStringSubmatch(raw); len(m) > 1 {
		return m[1]
	}
	return ""
}

// extractContent returns the richest body: content:encoded or Atom
// content, then description or Atom summary.
func extractContent(item *gofeed.Item) string {
	for _, c := range []string{item.Content, item.Description} {
		if strings.TrimSpace(c) != "" {
			return c
		}
	}
	return ""
}
