// Package category auto-categorizes a link from its URL and site name.
//
// Categorization is a pure function over an ordered rule table: the
// first group whose predicate matches wins, and a link matching no
// group falls back to General. The set of categories is closed — the
// UI and tests rely on exactly these six labels.
package category

import "strings"

const (
	Video    = "Video"
	Recipe   = "Recipe"
	Article  = "Article"
	Shopping = "Shopping"
	Social   = "Social"
	General  = "General"
)

// All lists every category in rule-precedence order, General last.
func All() []string {
	return []string{Video, Recipe, Article, Shopping, Social, General}
}

// rule groups the substring predicates for one category. A rule
// matches when any URL fragment appears in the lower-cased URL or any
// site fragment appears in the lower-cased site name.
type rule struct {
	category      string
	urlFragments  []string
	siteFragments []string
}

// rules is evaluated top to bottom; order is significant. A recipe
// path on a medium.com host is a Recipe, not an Article.
var rules = []rule{
	{
		category:     Video,
		urlFragments: []string{"youtube.com", "youtu.be", "vimeo.com", "twitch.tv"},
	},
	{
		category:      Recipe,
		urlFragments:  []string{"/recipe", "allrecipes.com", "food.com", "epicurious.com"},
		siteFragments: []string{"recipe"},
	},
	{
		category:      Article,
		urlFragments:  []string{"medium.com", "dev.to", "hashnode.com", "substack.com", "/blog/", "/article/"},
		siteFragments: []string{"blog"},
	},
	{
		category:     Shopping,
		urlFragments: []string{"amazon.com", "ebay.com", "etsy.com", "shopify.com"},
	},
	{
		category:     Social,
		urlFragments: []string{"twitter.com", "x.com", "facebook.com", "instagram.com", "linkedin.com"},
	},
}

// Categorize returns the category label for the given URL and site
// name. It is total and deterministic: any input pair maps to exactly
// one of the six labels and never fails.
func Categorize(url, siteName string) string {
	lowerURL := strings.ToLower(url)
	lowerSite := strings.ToLower(siteName)

	for _, r := range rules {
		for _, frag := range r.urlFragments {
			if strings.Contains(lowerURL, frag) {
				return r.category
			}
		}
		for _, frag := range r.siteFragments {
			if strings.Contains(lowerSite, frag) {
				return r.category
			}
		}
	}
	return General
}
