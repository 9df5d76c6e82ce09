package cluster

import (
	"testing"

	"github.com/deusflow/khobor/internal/news"
)

func TestTrendingTopics(t *testing.T) {
	articles := []news.Article{
		{Title: "ক্রিকেট দলের জয়"},
		{Title: "ক্রিকেট: বিশ্বকাপ শুরু"},
		{Title: "বিশ্বকাপ ক্রিকেট ২০২৬"},
		{Title: "বাংলাদেশ বনাম ভারত"},
		{Title: "বাংলাদেশ ও ভারত"},
		{Title: ""},
	}
	got := TrendingTopics(articles, 0)
	want := []Topic{{"ক্রিকেট", 3}, {"বিশ্বকাপ", 2}, {"ভারত", 2}}
	if len(got) != len(want) {
		t.Fatalf("TrendingTopics = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("topic %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTrendingTopicsLimit(t *testing.T) {
	articles := []news.Article{
		{Title: "আলফা বেটা গামা"},
		{Title: "আলফা বেটা গামা"},
	}
	if got := TrendingTopics(articles, 2); len(got) != 2 {
		t.Errorf("expected 2 topics, got %v", got)
	}
	if got := TrendingTopics(nil, 5); len(got) != 0 {
		t.Errorf("expected none, got %v", got)
	}
}
