package textnorm

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Placeholder is shown when a feed item carries no usable body.
const Placeholder = "বিস্তারিত পড়তে মূল সাইটে যান।"

// ShortContentRunes is the preview length before the ellipsis.
const ShortContentRunes = 150

var (
	reScript    = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	reStyle     = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	reNoscript  = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	reFigure    = regexp.MustCompile(`(?is)<figure[^>]*>.*?</figure>`)
	reAdBlock   = regexp.MustCompile(`(?is)<(div|aside|section|p)[^>]*class="[^"]*\b(ad|ads|advertisement|social-share|related-news|share)\b[^"]*"[^>]*>.*?</(div|aside|section|p)>`)
	reNavBlock  = regexp.MustCompile(`(?is)<(nav|header|footer|aside)[^>]*>.*?</(nav|header|footer|aside)>`)
	reParaEnd   = regexp.MustCompile(`(?i)</p\s*>`)
	reBreak     = regexp.MustCompile(`(?i)<br\s*/?>`)
	reTag       = regexp.MustCompile(`<[^>]*>`)
	reManyBreak = regexp.MustCompile(`\n{3,}`)
	reSpaces    = regexp.MustCompile(`[ \t\x{00A0}]+`)
	reLineSpace = regexp.MustCompile(` *\n *`)
)

// boilerplate is applied in order after markup is gone. Each pattern
// removes a sharing prompt, a "related news" label or an outlet footer.
var boilerplate = []*regexp.Regexp{
	nfcRegexp(`(?m)^\s*(আরও|আরো)\s+পড়ুন\s*:?.*$`),
	nfcRegexp(`(?m)^\s*(সম্পর্কিত|সংশ্লিষ্ট)\s+(খবর|সংবাদ)\s*:?.*$`),
	nfcRegexp(`(?m)^\s*শেয়ার\s+করুন.*$`),
	nfcRegexp(`(?i)(share|tweet)\s+(this|on facebook|on twitter)[^\n]*`),
	nfcRegexp(`(?m)^\s*(ফেসবুকে|ইউটিউবে)\s+আমাদের\s+(ফলো|সাবস্ক্রাইব)\s+করুন.*$`),
	nfcRegexp(`(?m)^\s*বিস্তারিত\s+আসছে.*$`),
	nfcRegexp(`(?m)^.*জাগোনিউজ২৪\.কমে\s+লিখতে\s+পারেন.*$`),
	nfcRegexp(`(?m)^.*নিয়োগ\s+বিজ্ঞপ্তি.*$`),
	nfcRegexp(`(?m)^\s*/?[\p{Bengali}A-Za-z]{1,6}(/[\p{Bengali}A-Za-z]{1,6}){1,5}\s*$`),
	nfcRegexp(`(?m)^\s*(ছবি|ফাইল ছবি|প্রতীকী ছবি)\s*:.*$`),
}

// nfcRegexp compiles a pattern after NFC normalization so Bengali
// literals match text normalized the same way.
func nfcRegexp(pattern string) *regexp.Regexp {
	return regexp.MustCompile(norm.NFC.String(pattern))
}

// HTMLToText strips markup from feed HTML while keeping paragraph
// structure: a closing paragraph becomes a blank line and a line break
// becomes a newline.
func HTMLToText(s string) string {
	if s == "" {
		return ""
	}
	s = reScript.ReplaceAllString(s, "")
	s = reStyle.ReplaceAllString(s, "")
	s = reNoscript.ReplaceAllString(s, "")
	s = reNavBlock.ReplaceAllString(s, "")
	s = reAdBlock.ReplaceAllString(s, "")
	s = reFigure.ReplaceAllString(s, "")
	s = reParaEnd.ReplaceAllString(s, "\n\n")
	s = reBreak.ReplaceAllString(s, "\n")
	s = reTag.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	s = strings.ReplaceAll(s, "\r", "")
	s = reSpaces.ReplaceAllString(s, " ")
	s = reLineSpace.ReplaceAllString(s, "\n")
	s = reManyBreak.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// StripBoilerplate removes known non-article phrases from plain text.
func StripBoilerplate(s string) string {
	s = norm.NFC.String(s)
	for _, re := range boilerplate {
		s = re.ReplaceAllString(s, "")
	}
	s = reManyBreak.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// CleanContent is HTMLToText followed by StripBoilerplate.
func CleanContent(s string) string {
	return StripBoilerplate(HTMLToText(s))
}

// ShortContent returns the first ShortContentRunes runes followed by an
// ellipsis, as shown on article cards.
func ShortContent(s string) string {
	if utf8.RuneCountInString(s) <= ShortContentRunes {
		return s + "..."
	}
	r := []rune(s)
	return string(r[:ShortContentRunes]) + "..."
}
