package http11

import (
	"bytes"
	"strconv"
)

// Reason-phrase status lines used by the dispatch layer.
const (
	StatusOK                  = "200 OK"
	StatusFound               = "302 FOUND"
	StatusBadRequest          = "400 BAD REQUEST"
	StatusUnauthorized        = "401 UNAUTHORIZED"
	StatusNotFound            = "404 NOT FOUND"
	StatusMethodNotAllowed    = "405 METHOD NOT ALLOWED"
	StatusInternalServerError = "500 INTERNAL SERVER ERROR"
)

const (
	ContentTypeHTML = "text/html;charset=utf-8"
	ContentTypeCSS  = "text/css"
	ContentTypeJS   = "application/javascript"
	ContentTypeSVG  = "image/svg+xml"
)

// Response serializes to an HTTP/1.1 response with headers in a fixed
// order: Content-Type, Content-Length, then the optional Location and
// Set-Cookie lines. Header values are written verbatim, no escaping.
type Response struct {
	Status      string
	ContentType string
	Location    string
	SetCookie   string
	Body        []byte
}

func (r *Response) Bytes() []byte {
	var buf bytes.Buffer

	buf.WriteString("HTTP/1.1 " + r.Status + "\r\n")
	buf.WriteString("Content-Type: " + r.ContentType + "\r\n")
	buf.WriteString("Content-Length: " + strconv.Itoa(len(r.Body)) + "\r\n")
	if r.Location != "" {
		buf.WriteString("Location: " + r.Location + "\r\n")
	}
	if r.SetCookie != "" {
		buf.WriteString("Set-Cookie: " + r.SetCookie + "\r\n")
	}
	buf.WriteString("\r\n")
	buf.Write(r.Body)

	return buf.Bytes()
}
