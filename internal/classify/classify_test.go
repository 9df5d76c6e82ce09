package classify

import (
	"testing"

	"github.com/deusflow/khobor/internal/news"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want news.Category
	}{
		{"cricket headline", "বাংলাদেশ ক্রিকেট দলের জয়", news.Sports},
		{"election", "নির্বাচন নিয়ে সরকারের নতুন সিদ্ধান্ত", news.Politics},
		{"cinema", "নতুন সিনেমায় জনপ্রিয় অভিনেত্রী", news.Entertainment},
		{"budget", "আগামী অর্থবছরের বাজেট ঘোষণা", news.Business},
		{"smartphone", "বাজারে নতুন স্মার্টফোন", news.Technology},
		{"dengue", "ডেঙ্গু রোগী বাড়ছে হাসপাতালে", news.Health},
		{"un", "জাতিসংঘের সাধারণ অধিবেশন", news.World},
		{"recipe", "ইলিশের সহজ রেসিপি", news.Lifestyle},
		{"english", "Government announces election date", news.Politics},
		{"markup is ignored", "<p class=\"cricket\">বাজেট</p>", news.Business},
		{"nothing matches", "আজকের আবহাওয়া", news.General},
		{"empty", "", news.General},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.text); got != tt.want {
				t.Errorf("Classify(%q) = %s, want %s (scores %v)", tt.text, got, tt.want, Scores(tt.text))
			}
		})
	}
}

func TestClassifyTieGoesToListOrder(t *testing.T) {
	scores := Scores("cricket election")
	if scores[news.Sports] != scores[news.Politics] {
		t.Fatalf("expected equal scores, got %v", scores)
	}
	if got := Classify("cricket election"); got != news.Sports {
		t.Errorf("tie should resolve to Sports, got %s", got)
	}
}

func TestClassifyCountsOccurrences(t *testing.T) {
	text := "অর্থনীতি অর্থনীতি ক্রিকেট"
	if got := Classify(text); got != news.Business {
		t.Errorf("Classify(%q) = %s, want Business (scores %v)", text, got, Scores(text))
	}
}

func TestShortLatinKeywordsMatchWholeWords(t *testing.T) {
	if s := Scores("he said it again"); s[news.Technology] != 0 {
		t.Errorf("'ai' must not match inside 'said', scores %v", s)
	}
	if s := Scores("new AI model"); s[news.Technology] == 0 {
		t.Errorf("expected AI to score technology, scores %v", s)
	}
}

func TestAdjacentLatinKeywordsCountTwice(t *testing.T) {
	once := Scores("ai")[news.Technology]
	twice := Scores("ai ai")[news.Technology]
	if once == 0 || twice != 2*once {
		t.Errorf("Scores(\"ai ai\") = %d, want %d", twice, 2*once)
	}
}

func TestSentiment(t *testing.T) {
	tests := []struct {
		text string
		want news.Sentiment
	}{
		{"বাংলাদেশের দারুণ জয়", news.Positive},
		{"সড়ক দুর্ঘটনায় নিহত ৫", news.Negative},
		{"আজকের আবহাওয়া", news.Neutral},
		{"জয়ের পর সংঘর্ষ", news.Neutral},
		{"", news.Neutral},
	}
	for _, tt := range tests {
		if got := Sentiment(tt.text); got != tt.want {
			t.Errorf("Sentiment(%q) = %s, want %s", tt.text, got, tt.want)
		}
	}
}
