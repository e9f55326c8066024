package images

import (
	"net/url"
	"strconv"
	"strings"
)

// DefaultProxyBaseURL is the public resize service used when storage thumbnails are unavailable.
const DefaultProxyBaseURL = "https://wsrv.nl/"

// Fit modes understood by the resize proxy.
const (
	FitCover  = "cover"
	FitInside = "inside"
)

// Proxy builds resize-proxy requests: <base>?url=<src>&width=..&height=..&fit=..
type Proxy struct {
	base *url.URL
}

func NewProxy(baseURL string) *Proxy {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || u.Host == "" {
		u, _ = url.Parse(DefaultProxyBaseURL)
	}
	return &Proxy{base: u}
}

// URL asks the proxy for src resized to width×height. A zero height keeps the aspect ratio.
func (p *Proxy) URL(src string, width, height int, fit string) string {
	q := url.Values{}
	q.Set("url", src)
	if width > 0 {
		q.Set("width", strconv.Itoa(width))
	}
	if height > 0 {
		q.Set("height", strconv.Itoa(height))
	}
	if fit != "" {
		q.Set("fit", fit)
	}
	out := *p.base
	out.RawQuery = q.Encode()
	return out.String()
}

// Owns reports whether raw is a request to this proxy.
func (p *Proxy) Owns(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	return strings.EqualFold(u.Host, p.base.Host) && strings.TrimSuffix(u.Path, "/") == strings.TrimSuffix(p.base.Path, "/")
}
