// Package share builds the links organizers send to players so they can
// open a session directly.
package share

import (
	"fmt"
	"net/url"
	"strings"
)

const queryParam = "session"

type Builder struct {
	base *url.URL
}

func NewBuilder(baseURL string) (*Builder, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("invalid share base URL %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("share base URL %q must be absolute", baseURL)
	}
	return &Builder{base: u}, nil
}

// Link returns <base>?session=<id>, keeping any query the base already has.
func (b *Builder) Link(sessionID string) string {
	u := *b.base
	q := u.Query()
	q.Set(queryParam, sessionID)
	u.RawQuery = q.Encode()
	return u.String()
}

// SessionIDFromLink extracts the session id from a shared link.
func SessionIDFromLink(link string) (string, bool) {
	u, err := url.Parse(link)
	if err != nil {
		return "", false
	}
	id := u.Query().Get(queryParam)
	return id, id != ""
}
