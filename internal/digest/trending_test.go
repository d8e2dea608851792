package digest

import (
	"testing"

	"github.com/ppiankov/grazer/internal/discover"
	"github.com/ppiankov/grazer/internal/platform"
)

func TestFindTrending(t *testing.T) {
	input := Input{Result: sampleResult()}

	trends := FindTrending(input, []string{"Rust", "rust", "agents", "lobster"}, 3)
	if len(trends) != 2 {
		t.Fatalf("trends = %+v", trends)
	}
	// rust and agents both appear on bottube, moltbook and fourclaw.
	if trends[0].Keyword != "Rust" || trends[1].Keyword != "agents" {
		t.Errorf("keywords = %q, %q", trends[0].Keyword, trends[1].Keyword)
	}
	want := []string{"bottube", "fourclaw", "moltbook"}
	for i, p := range want {
		if trends[0].Platforms[i] != p {
			t.Errorf("platforms = %v, want %v", trends[0].Platforms, want)
			break
		}
	}
}

func TestFindTrendingMinimumTwo(t *testing.T) {
	res := discover.Result{
		Clawsta: []platform.ClawstaPost{{ID: "1", Content: "lobster"}},
	}
	if got := FindTrending(Input{Result: res}, []string{"lobster"}, 1); len(got) != 0 {
		t.Errorf("single platform trended: %+v", got)
	}
}

func TestFindTrendingSharedURL(t *testing.T) {
	url := "https://example.com/story"
	res := discover.Result{
		YouTube: []platform.YouTubeVideo{{ID: "y", Title: "x", URL: url}},
	}
	feeds := []platform.FeedItem{{ID: "f", Title: "y", URL: url}}

	trends := FindTrending(Input{Result: res, Feeds: feeds}, nil, 2)
	if len(trends) != 1 || trends[0].Keyword != url {
		t.Fatalf("trends = %+v", trends)
	}
	if trends[0].Platforms[0] != "feeds" || trends[0].Platforms[1] != "youtube" {
		t.Errorf("platforms = %v", trends[0].Platforms)
	}
}

func TestFindTrendingNoKeywords(t *testing.T) {
	if got := FindTrending(Input{Result: sampleResult()}, nil, 2); len(got) != 0 {
		t.Errorf("trends = %+v", got)
	}
}
