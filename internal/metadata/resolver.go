// Package metadata turns a raw user-supplied string into an enriched
// link metadata record.
//
// The pipeline is: normalize the input into a safe absolute URL,
// refuse anything pointing at local or private networks, fetch the
// page with a bounded timeout, and extract title/description/favicon/
// site name from the HTML. The fetch tier returns an internal
// (pageMeta, error) result; Resolve converts any fetch failure into a
// fallback record at this single boundary, so enrichment never blocks
// link creation. The only errors Resolve returns are validation
// errors raised before any network I/O.
package metadata

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/sakif/link-collector/internal/apperror"
	"github.com/sakif/link-collector/internal/category"
	"github.com/sakif/link-collector/internal/model"
)

// userAgent identifies the fetcher to origin servers.
const userAgent = "Mozilla/5.0 (compatible; LinkCollector/1.0)"

// DefaultTimeout bounds the whole metadata fetch, redirects included.
const DefaultTimeout = 10 * time.Second

const maxRedirects = 10

// Resolver fetches and assembles link metadata.
type Resolver struct {
	client *resty.Client
	logger *slog.Logger
}

// NewResolver creates a Resolver with its own outbound HTTP client.
// A non-positive timeout falls back to DefaultTimeout.
func NewResolver(timeout time.Duration, logger *slog.Logger) *Resolver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(maxRedirects))
	return &Resolver{
		client: client,
		logger: logger,
	}
}

// SetTransport replaces the outbound HTTP transport. Tests use it to
// stub network access.
func (r *Resolver) SetTransport(transport http.RoundTripper) {
	r.client.SetTransport(transport)
}

// Resolve validates rawInput and returns metadata for it.
//
// Validation failures (unparsable input, non-HTTP scheme, blocked
// host) return a ValidationError before any network attempt. After
// validation passes, Resolve cannot fail: fetch or parse errors
// degrade to a record synthesized from the URL alone.
func (r *Resolver) Resolve(ctx context.Context, rawInput string) (model.Metadata, error) {
	target, err := Normalize(rawInput)
	if err != nil {
		return model.Metadata{}, err
	}
	if err := validateTarget(target); err != nil {
		return model.Metadata{}, err
	}

	pm, err := r.fetch(ctx, target)
	if err != nil {
		r.logger.Warn("metadata fetch failed, using fallback",
			slog.String("url", target.String()),
			slog.String("error", err.Error()),
		)
		return Fallback(target), nil
	}

	md := model.Metadata{
		URL:         target.String(),
		Title:       firstNonEmpty(pm.title, pm.siteName, "Untitled"),
		Description: pm.description,
		SiteName:    firstNonEmpty(pm.siteName, bareHostname(target)),
	}
	if len(pm.icons) > 0 {
		md.Favicon = pm.icons[0]
	} else if len(pm.images) > 0 {
		md.Favicon = pm.images[0]
	}
	md.Category = category.Categorize(md.URL, md.SiteName)
	return md, nil
}

// Fallback builds the minimal record used when enrichment fails.
func Fallback(target *url.URL) model.Metadata {
	host := bareHostname(target)
	return model.Metadata{
		URL:      target.String(),
		Title:    host,
		SiteName: host,
		Category: category.Categorize(target.String(), ""),
	}
}

// Normalize turns raw user input into an absolute http(s) URL.
// Input without a scheme gets https:// prepended; input with an
// explicit non-HTTP scheme is rejected.
func Normalize(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, apperror.ValidationFailed("url", "valid URL is required")
	}

	lower := strings.ToLower(raw)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		// already absolute
	case strings.Contains(raw, "://"):
		return nil, apperror.ValidationFailed("url", "only HTTP and HTTPS URLs are allowed")
	default:
		raw = "https://" + raw
	}

	target, err := url.Parse(raw)
	if err != nil || target.Hostname() == "" {
		return nil, apperror.ValidationFailed("url", "invalid URL format")
	}
	if target.Scheme != "http" && target.Scheme != "https" {
		return nil, apperror.ValidationFailed("url", "only HTTP and HTTPS URLs are allowed")
	}
	return target, nil
}

// blockedHostnames are refused by name, regardless of what they
// resolve to.
var blockedHostnames = map[string]struct{}{
	"localhost": {},
	"127.0.0.1": {},
	"0.0.0.0":   {},
	"::1":       {},
}

// privateHostPrefixes is the coarse fallback check for hostnames that
// are not valid IP literals.
var privateHostPrefixes = []string{"192.168.", "10.", "172."}

// validateTarget rejects URLs pointing at local or private networks.
// IP-literal hosts get a real address-range check (IPv4-mapped IPv6
// addresses are unmapped first, so ::ffff:127.0.0.1 cannot slip
// through); everything else falls back to name and prefix matching.
// Runs strictly before any network fetch.
func validateTarget(target *url.URL) error {
	host := strings.ToLower(target.Hostname())

	if _, ok := blockedHostnames[host]; ok {
		return apperror.ValidationFailed("url", "local and internal URLs are not allowed")
	}

	if addr, err := netip.ParseAddr(host); err == nil {
		addr = addr.Unmap()
		if addr.IsLoopback() || addr.IsPrivate() || addr.IsUnspecified() ||
			addr.IsLinkLocalUnicast() || addr.IsLinkLocalMulticast() {
			return apperror.ValidationFailed("url", "local and internal URLs are not allowed")
		}
		return nil
	}

	for _, prefix := range privateHostPrefixes {
		if strings.HasPrefix(host, prefix) {
			return apperror.ValidationFailed("url", "local and internal URLs are not allowed")
		}
	}
	return nil
}

// fetch retrieves the page and extracts its metadata. This is the
// internal result tier: it reports errors honestly and leaves the
// downgrade-to-fallback decision to Resolve.
func (r *Resolver) fetch(ctx context.Context, target *url.URL) (*pageMeta, error) {
	resp, err := r.client.R().SetContext(ctx).Get(target.String())
	if err != nil {
		return nil, fmt.Errorf("metadata: fetching %s: %w", target.Hostname(), err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, fmt.Errorf("metadata: fetching %s: status %d", target.Hostname(), resp.StatusCode())
	}

	// Relative favicon/image URLs resolve against the final URL after
	// redirects, not the one the user typed.
	base := target
	if raw := resp.RawResponse; raw != nil && raw.Request != nil && raw.Request.URL != nil {
		base = raw.Request.URL
	}

	pm, err := extract(bytes.NewReader(resp.Body()), base)
	if err != nil {
		return nil, fmt.Errorf("metadata: parsing %s: %w", target.Hostname(), err)
	}
	return pm, nil
}

// bareHostname returns the hostname with any "www." prefix stripped.
func bareHostname(target *url.URL) string {
	host := strings.TrimPrefix(target.Hostname(), "www.")
	if host == "" {
		return "Unknown Site"
	}
	return host
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
