// Package textnorm turns localized Bengali dates and feed markup into
// machine-usable values.
package textnorm

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"golang.org/x/text/unicode/norm"
)

// Dhaka is used for date strings that carry no zone. Outlets publish in
// Bangladesh Standard Time.
var Dhaka = time.FixedZone("BST", 6*60*60)

var bengaliDigits = strings.NewReplacer(
	"০", "0", "১", "1", "২", "2", "৩", "3", "৪", "4",
	"৫", "5", "৬", "6", "৭", "7", "৮", "8", "৯", "9",
)

// Full names come before their abbreviations so the longer form wins.
var bengaliMonths = []struct{ bn, en string }{
	{"জানুয়ারি", "Jan"}, {"জানুয়ারী", "Jan"},
	{"ফেব্রুয়ারি", "Feb"}, {"ফেব্রুয়ারী", "Feb"},
	{"মার্চ", "Mar"},
	{"এপ্রিল", "Apr"},
	{"মে", "May"},
	{"জুন", "Jun"},
	{"জুলাই", "Jul"},
	{"আগস্ট", "Aug"}, {"আগষ্ট", "Aug"},
	{"সেপ্টেম্বর", "Sep"},
	{"অক্টোবর", "Oct"},
	{"নভেম্বর", "Nov"},
	{"ডিসেম্বর", "Dec"},
	{"জানু", "Jan"},
	{"ফেব্রু", "Feb"},
	{"সেপ্টে", "Sep"},
	{"অক্টো", "Oct"},
	{"নভে", "Nov"},
	{"ডিসে", "Dec"},
}

var meridiem = []struct{ bn, en string }{
	{"পিএম", "PM"}, {"এএম", "AM"},
}

var weekdays = []string{
	"শনিবার", "রবিবার", "সোমবার", "মঙ্গলবার", "বুধবার", "বৃহস্পতিবার", "শুক্রবার",
}

var labelPrefix = regexp.MustCompile(`(?i)^\s*(time|published|updated|প্রকাশিত|প্রকাশ|আপডেট|হালনাগাদ)\s*:?\s*`)

var dateReplacer *strings.Replacer

func init() {
	pairs := make([]string, 0, 2*(len(bengaliMonths)+len(meridiem)+len(weekdays)))
	for _, m := range bengaliMonths {
		pairs = append(pairs, norm.NFC.String(m.bn), m.en)
	}
	for _, m := range meridiem {
		pairs = append(pairs, m.bn, m.en)
	}
	for _, w := range weekdays {
		pairs = append(pairs, norm.NFC.String(w), "")
	}
	dateReplacer = strings.NewReplacer(pairs...)
}

var layouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2 Jan 2006, 3:04 PM",
	"2 Jan 2006, 15:04",
	"2 Jan 2006 3:04 PM",
	"2 Jan 2006 15:04",
	"2 Jan 2006",
	"Jan 2, 2006 3:04 PM",
	"Jan 2, 2006",
	"02/01/2006 15:04",
	"02/01/2006",
}

// Transliterate converts Bengali digits and month names to ASCII and
// drops label prefixes and weekday names, leaving a string the standard
// parsers understand.
func Transliterate(s string) string {
	s = norm.NFC.String(strings.TrimSpace(s))
	s = labelPrefix.ReplaceAllString(s, "")
	s = bengaliDigits.Replace(s)
	s = dateReplacer.Replace(s)
	s = strings.Trim(s, " ,|")
	return strings.Join(strings.Fields(s), " ")
}

// ParseLocalizedDate parses a date that may be written with Bengali
// numerals and month names. The second result is false when no valid
// date could be recovered.
func ParseLocalizedDate(s string) (time.Time, bool) {
	clean := Transliterate(s)
	if clean == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, clean, Dhaka); err == nil {
			return t, true
		}
	}
	t, err := dateparse.ParseIn(clean, Dhaka)
	if err != nil || t.IsZero() {
		return time.Time{}, false
	}
	return t, true
}
