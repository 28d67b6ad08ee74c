// Package preview computes the display fields derived from a post once, when
// the post enters the cache.
package preview

import (
	"net"
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/publicsuffix"
)

type LinkType int

const (
	LinkNone LinkType = iota
	LinkImage
	LinkVideo
	LinkGeneric
)

func (t LinkType) String() string {
	switch t {
	case LinkImage:
		return "image"
	case LinkVideo:
		return "video"
	case LinkGeneric:
		return "link"
	default:
		return "none"
	}
}

type LinkInfo struct {
	URL    string
	Type   LinkType
	Domain string
}

var imageExtensions = map[string]struct{}{
	"webp": {}, "png": {}, "avif": {}, "heic": {}, "jpeg": {}, "jpg": {},
	"gif": {}, "svg": {}, "ico": {}, "icns": {}, "gifv": {},
}

var videoExtensions = map[string]struct{}{
	"mp4": {}, "mov": {}, "m4a": {},
}

// ClassifyLink sorts a post link into image, video or generic. Links to
// local or private addresses are never treated as media.
func ClassifyLink(raw string) LinkInfo {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return LinkInfo{Type: LinkNone}
	}
	info := LinkInfo{URL: raw, Type: LinkGeneric}

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Hostname() == "" {
		return info
	}
	info.Domain = Domain(parsed.Hostname())
	if isPrivateHost(parsed.Hostname()) {
		return info
	}

	ext := strings.TrimPrefix(strings.ToLower(path.Ext(parsed.Path)), ".")
	if _, ok := imageExtensions[ext]; ok {
		info.Type = LinkImage
	} else if _, ok := videoExtensions[ext]; ok {
		info.Type = LinkVideo
	}
	return info
}

// Domain returns the registrable domain of host, falling back to the host
// itself for addresses outside the public suffix list.
func Domain(host string) string {
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	if net.ParseIP(host) != nil {
		return host
	}
	d, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return d
}

func isPrivateHost(host string) bool {
	host = strings.ToLower(host)
	if host == "localhost" || strings.HasSuffix(host, ".localhost") || strings.HasSuffix(host, ".local") {
		return true
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsUnspecified()
}
