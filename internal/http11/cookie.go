package http11

import (
	"errors"
	"strings"
)

// SessionCookie is the name of the cookie carrying the session identifier.
const SessionCookie = "JSESSIONID"

// ErrNoSessionCookie reports a session-id lookup on a cookie set that lacks
// one; callers are expected to check HasSessionID first.
var ErrNoSessionCookie = errors.New("http11: no " + SessionCookie + " cookie")

// Cookie is a single name=value pair from a Cookie header.
type Cookie struct {
	Name  string
	Value string
}

// Cookies is the ordered view of one request's Cookie header.
type Cookies []Cookie

// ParseCookies parses a Cookie header value. A missing header yields an
// empty set; entries are `name=value` separated by `;` with optional
// surrounding whitespace.
func ParseCookies(header string) Cookies {
	var cookies Cookies

	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		name, value := part, ""
		if eq := strings.Index(part, "="); eq >= 0 {
			name, value = part[:eq], part[eq+1:]
		}
		cookies = append(cookies, Cookie{Name: strings.TrimSpace(name), Value: strings.TrimSpace(value)})
	}

	return cookies
}

// HasSessionID reports whether the set carries a session cookie.
func (c Cookies) HasSessionID() bool {
	_, err := c.SessionID()
	return err == nil
}

// SessionID returns the session identifier carried by the set.
func (c Cookies) SessionID() (string, error) {
	for _, cookie := range c {
		if cookie.Name == SessionCookie {
			return cookie.Value, nil
		}
	}
	return "", ErrNoSessionCookie
}

// SessionCookieValue builds the Set-Cookie value for a session identifier.
// No cookie attributes are emitted.
func SessionCookieValue(id string) string {
	return SessionCookie + "=" + id
}
