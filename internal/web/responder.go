package web

import (
	"errors"
	"strings"

	"session-server/internal/http11"
	"session-server/internal/logger"
	"session-server/internal/static"
)

const notFoundIcon = "/assets/img/error-404-monochrome.svg"

// Responder turns resolved resource paths into serialized responses,
// including the 404 substitution and the fixed 500 fallback.
type Responder struct {
	resources static.Resolver
}

func NewResponder(resources static.Resolver) *Responder {
	return &Responder{resources: resources}
}

// ResolvePath maps a request path to the resource path backing it,
// following GET resolution: "/" and "/index.html" serve the index, known
// static extensions serve the literal path (missing SVG assets fall back
// to the not-found icon), anything else is tried as "<path>.html".
func (r *Responder) ResolvePath(requestPath string) string {
	switch {
	case requestPath == "/" || requestPath == "/index.html":
		return "/index.html"

	case strings.HasSuffix(requestPath, ".svg"):
		if _, err := r.resources.Read(requestPath); err != nil {
			return notFoundIcon
		}
		return requestPath

	case strings.HasSuffix(requestPath, ".html"),
		strings.HasSuffix(requestPath, ".css"),
		strings.HasSuffix(requestPath, ".js"):
		return requestPath

	default:
		return requestPath + ".html"
	}
}

// ContentTypeFor derives the response content type from the resource
// path's extension.
func ContentTypeFor(resourcePath string) string {
	switch {
	case strings.HasSuffix(resourcePath, ".css"):
		return http11.ContentTypeCSS
	case strings.HasSuffix(resourcePath, ".js"):
		return http11.ContentTypeJS
	case strings.HasSuffix(resourcePath, ".svg"):
		return http11.ContentTypeSVG
	default:
		return http11.ContentTypeHTML
	}
}

// Resource serializes a response carrying the named resource. A path with
// no backing resource substitutes the fixed 404 page and forces the
// status to 404 regardless of the one passed in.
func (r *Responder) Resource(resourcePath, status, contentType, cookie string) ([]byte, error) {
	body, err := r.resources.Read(resourcePath)
	if errors.Is(err, static.ErrNotFound) {
		status = http11.StatusNotFound
		body, err = r.resources.Read("/404.html")
	}
	if err != nil {
		return nil, err
	}

	resp := &http11.Response{
		Status:      status,
		ContentType: contentType,
		SetCookie:   cookie,
		Body:        body,
	}
	return resp.Bytes(), nil
}

// Redirect serializes a 302 to the given path, with the target's resource
// bytes as body, resolved exactly like a GET for that path.
func (r *Responder) Redirect(path, cookie string) ([]byte, error) {
	resourcePath := r.ResolvePath(path)

	body, err := r.resources.Read(resourcePath)
	if err != nil {
		return nil, err
	}

	resp := &http11.Response{
		Status:      http11.StatusFound,
		ContentType: ContentTypeFor(resourcePath),
		Location:    path,
		SetCookie:   cookie,
		Body:        body,
	}
	return resp.Bytes(), nil
}

// NotFound serializes the fixed 404 response.
func (r *Responder) NotFound() ([]byte, error) {
	return r.Resource("/404.html", http11.StatusNotFound, http11.ContentTypeHTML, "")
}

// MethodNotAllowed serializes an empty-bodied 405.
func (r *Responder) MethodNotAllowed() []byte {
	resp := &http11.Response{
		Status:      http11.StatusMethodNotAllowed,
		ContentType: http11.ContentTypeHTML,
	}
	return resp.Bytes()
}

// ServerError serializes the fixed 500 response. It never fails: when the
// error page itself cannot be read the failure is logged and nil is
// returned, and the connection just closes without a response.
func (r *Responder) ServerError() []byte {
	body, err := r.resources.Read("/500.html")
	if err != nil {
		logger.Error("error page unavailable", map[string]any{
			"error": err.Error(),
		})
		return nil
	}

	resp := &http11.Response{
		Status:      http11.StatusInternalServerError,
		ContentType: http11.ContentTypeHTML,
		Body:        body,
	}
	return resp.Bytes()
}
