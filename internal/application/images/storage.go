package images

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
)

// DefaultStorageHosts are the object-storage domains whose uploads get
// server-generated thumbnails.
var DefaultStorageHosts = []string{"firebasestorage.googleapis.com", "storage.googleapis.com"}

// sizeSuffix matches an existing "_200x200" style thumbnail suffix.
var sizeSuffix = regexp.MustCompile(`_\d+x\d+$`)

// Storage knows the object-storage URL layout and the thumbnail naming of
// the resize function: "dir/name.jpg" gets "dir/name_200x200.jpg".
type Storage struct {
	hosts []string
}

func NewStorage(hosts []string) *Storage {
	s := &Storage{}
	for _, h := range hosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			s.hosts = append(s.hosts, h)
		}
	}
	if len(s.hosts) == 0 {
		s.hosts = DefaultStorageHosts
	}
	return s
}

// Hosted reports whether raw points at a known storage domain.
func (s *Storage) Hosted(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	return s.ownsHost(u.Hostname())
}

func (s *Storage) ownsHost(host string) bool {
	host = strings.ToLower(host)
	for _, h := range s.hosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

// Thumbnail derives the URL of the size×size thumbnail of a storage-hosted
// original. ok is false for URLs outside storage.
func (s *Storage) Thumbnail(raw string, size int) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || !s.ownsHost(u.Hostname()) {
		return "", false
	}

	// Firebase download URL: /v0/b/<bucket>/o/<url-encoded object path>
	escaped := strings.TrimPrefix(u.EscapedPath(), "/")
	if strings.HasPrefix(escaped, "v0/b/") {
		parts := strings.SplitN(escaped, "/", 5)
		if len(parts) != 5 || parts[3] != "o" {
			return "", false
		}
		object, err := url.PathUnescape(parts[4])
		if err != nil || object == "" {
			return "", false
		}
		thumb := thumbnailName(object, size)
		return fmt.Sprintf("%s://%s/v0/b/%s/o/%s?alt=media", u.Scheme, u.Host, parts[2], url.PathEscape(thumb)), true
	}

	// Plain public URL: /<bucket>/<object path>
	if u.Path == "" || strings.HasSuffix(u.Path, "/") {
		return "", false
	}
	out := *u
	out.Path = thumbnailName(u.Path, size)
	out.RawPath = ""
	out.RawQuery = ""
	out.Fragment = ""
	return out.String(), true
}

func thumbnailName(object string, size int) string {
	dir, file := path.Split(object)
	ext := path.Ext(file)
	base := strings.TrimSuffix(file, ext)
	base = sizeSuffix.ReplaceAllString(base, "")
	return fmt.Sprintf("%s%s_%dx%d%s", dir, base, size, size, ext)
}
