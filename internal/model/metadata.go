package model

// Metadata is the enriched record the metadata resolver produces for a
// raw URL. It is returned directly by POST /fetch-meta and used by the
// client to pre-fill a link before saving it.
//
// The resolver never fails outward: when the page cannot be fetched,
// Metadata is synthesized from the URL alone (hostname-derived title
// and site name, empty description and favicon).
type Metadata struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Favicon     string `json:"favicon"`
	SiteName    string `json:"siteName"`
	Category    string `json:"category"`
}
