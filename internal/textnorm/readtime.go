package textnorm

import (
	"math"
	"strconv"
	"strings"
)

// WordsPerMinute is the average Bengali reading speed.
const WordsPerMinute = 150

var asciiToBengali = strings.NewReplacer(
	"0", "০", "1", "১", "2", "২", "3", "৩", "4", "৪",
	"5", "৫", "6", "৬", "7", "৭", "8", "৮", "9", "৯",
)

// ReadingTime estimates minutes to read text and returns a Bengali label
// such as "পড়তে ৩ মিনিট". Empty text yields zero and an empty label.
func ReadingTime(text string) (int, string) {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0, ""
	}
	minutes := int(math.Round(float64(words) / WordsPerMinute))
	if minutes < 1 {
		minutes = 1
	}
	return minutes, "পড়তে " + ToBengaliDigits(strconv.Itoa(minutes)) + " মিনিট"
}

// ToBengaliDigits replaces ASCII digits with Bengali ones.
func ToBengaliDigits(s string) string {
	return asciiToBengali.Replace(s)
}
