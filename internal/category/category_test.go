package category

import "testing"

func TestCategorize(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		siteName string
		want     string
	}{
		{"youtube watch URL", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "", Video},
		{"short youtube URL", "https://youtu.be/dQw4w9WgXcQ", "", Video},
		{"twitch channel", "https://twitch.tv/somecaster", "", Video},
		{"allrecipes host", "https://www.allrecipes.com/thing", "", Recipe},
		{"recipe path segment", "https://example.com/recipes/pasta", "", Recipe},
		{"recipe site name", "https://example.com/pasta", "Best Recipes Daily", Recipe},
		{"medium host", "https://medium.com/@someone/a-post", "", Article},
		{"blog path", "https://example.com/blog/announcement", "", Article},
		{"blog site name", "https://example.com/post/1", "Company Engineering Blog", Article},
		{"amazon product", "https://www.amazon.com/dp/B000000", "", Shopping},
		{"etsy shop", "https://www.etsy.com/shop/things", "", Shopping},
		{"twitter status", "https://twitter.com/user/status/1", "", Social},
		{"x.com status", "https://x.com/user/status/1", "", Social},
		{"linkedin profile", "https://www.linkedin.com/in/someone", "", Social},
		{"plain site", "https://example.com/about", "", General},
		{"empty inputs", "", "", General},
		{"case insensitive", "HTTPS://YOUTUBE.COM/WATCH", "", Video},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Categorize(tt.url, tt.siteName); got != tt.want {
				t.Errorf("Categorize(%q, %q) = %q, want %q", tt.url, tt.siteName, got, tt.want)
			}
		})
	}
}

// Rule order is load-bearing: a "/recipe" path on an article host must
// resolve to Recipe because the Recipe group precedes Article.
func TestCategorize_Precedence(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		siteName string
		want     string
	}{
		{"recipe path on medium host", "https://medium.com/recipe-of-life", "", Recipe},
		{"blog path on medium host", "https://medium.com/blog/post", "", Article},
		{"youtube beats social site name", "https://youtube.com/watch?v=x", "blog", Video},
		{"recipe site name on amazon host wins by order", "https://amazon.com/gp/product", "recipe box", Recipe},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Categorize(tt.url, tt.siteName); got != tt.want {
				t.Errorf("Categorize(%q, %q) = %q, want %q", tt.url, tt.siteName, got, tt.want)
			}
		})
	}
}

func TestCategorize_Deterministic(t *testing.T) {
	first := Categorize("https://dev.to/someone/post", "DEV Community")
	for i := 0; i < 100; i++ {
		if got := Categorize("https://dev.to/someone/post", "DEV Community"); got != first {
			t.Fatalf("Categorize returned %q after returning %q", got, first)
		}
	}
}
