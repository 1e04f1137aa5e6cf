package http11

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
)

// ErrMalformedRequest reports a request line or header section that could
// not be tokenized.
var ErrMalformedRequest = errors.New("http11: malformed request")

const (
	MethodGet  = "GET"
	MethodPost = "POST"
)

// Request is one parsed HTTP/1.1 request. Headers keep the name casing as
// received; Form is populated only for POST bodies.
type Request struct {
	Method  string
	Path    string
	Version string
	Headers map[string]string
	Form    map[string]string
}

// Header returns the value of the named header, matching case-insensitively.
func (r *Request) Header(name string) string {
	for k, v := range r.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// CookieHeader returns the raw Cookie header value, empty when absent.
func (r *Request) CookieHeader() string {
	return r.Header("Cookie")
}

// ReadRequest consumes exactly one request from the stream: request line,
// headers up to the blank line, and for POST a Content-Length delimited body
// decoded as an url-encoded form. A missing Content-Length yields an empty
// body.
func ReadRequest(br *bufio.Reader) (*Request, error) {
	line, err := br.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("%w: reading request line: %v", ErrMalformedRequest, err)
	}

	parts := strings.Fields(strings.TrimSpace(line))
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: request line %q", ErrMalformedRequest, strings.TrimSpace(line))
	}

	req := &Request{
		Method:  parts[0],
		Path:    parts[1],
		Version: parts[2],
		Headers: make(map[string]string),
	}

	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("%w: truncated header section", ErrMalformedRequest)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			break
		}

		colon := strings.Index(line, ":")
		if colon < 0 {
			return nil, fmt.Errorf("%w: header line %q", ErrMalformedRequest, line)
		}

		name := strings.TrimSpace(line[:colon])
		value := strings.TrimSpace(line[colon+1:])
		req.Headers[name] = value
	}

	if req.Method == MethodPost {
		body, err := readBody(br, req.Header("Content-Length"))
		if err != nil {
			return nil, err
		}
		req.Form = parseForm(body)
	}

	return req, nil
}

func readBody(br *bufio.Reader, contentLength string) (string, error) {
	if contentLength == "" {
		return "", nil
	}

	length, err := strconv.Atoi(contentLength)
	if err != nil || length < 0 {
		return "", fmt.Errorf("%w: content length %q", ErrMalformedRequest, contentLength)
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(br, body); err != nil {
		return "", fmt.Errorf("%w: truncated body: %v", ErrMalformedRequest, err)
	}

	return string(body), nil
}

// parseForm decodes an application/x-www-form-urlencoded body. Duplicate
// keys resolve to the last value seen.
func parseForm(body string) map[string]string {
	form := make(map[string]string)

	for _, pair := range strings.Split(body, "&") {
		if pair == "" {
			continue
		}

		key, value := pair, ""
		if eq := strings.Index(pair, "="); eq >= 0 {
			key, value = pair[:eq], pair[eq+1:]
		}
		form[unescape(key)] = unescape(value)
	}

	return form
}

func unescape(s string) string {
	if out, err := url.QueryUnescape(s); err == nil {
		return out
	}
	return s
}
