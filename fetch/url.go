package fetch

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"path"
	"strings"
)

// ErrUnsafeURL is returned for URLs the encoder refuses to fetch.
var ErrUnsafeURL = errors.New("unsafe url")

// LookupFunc resolves a host name to its addresses.
type LookupFunc func(host string) ([]net.IP, error)

func defaultLookup(host string) ([]net.IP, error) {
	return net.LookupIP(host)
}

// CheckURL rejects non-http(s) URLs and, unless allowPrivate is set, hosts
// that resolve to private, loopback, or link-local addresses.
func CheckURL(rawURL string, allowPrivate bool, lookup LookupFunc) error {
	u, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsafeURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme %q not allowed", ErrUnsafeURL, u.Scheme)
	}
	if u.Hostname() == "" {
		return fmt.Errorf("%w: missing host", ErrUnsafeURL)
	}
	if allowPrivate {
		return nil
	}

	ips, err := lookup(u.Hostname())
	if err != nil {
		return fmt.Errorf("resolve %s: %w", u.Hostname(), err)
	}
	for _, ip := range ips {
		if ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsUnspecified() {
			return fmt.Errorf("%w: %s resolves to restricted address %s", ErrUnsafeURL, u.Hostname(), ip)
		}
	}
	return nil
}

// InferMIMEType guesses an image MIME type from the URL path extension.
func InferMIMEType(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
