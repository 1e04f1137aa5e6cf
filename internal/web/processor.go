package web

import (
	"bufio"
	"context"
	"io"

	"session-server/internal/http11"
	"session-server/internal/logger"
	"session-server/internal/metrics"
)

// Processor terminates one connection's byte stream: parse, dispatch,
// respond. Failures become a 500 response when possible and are otherwise
// only logged; they never propagate past a single connection.
type Processor struct {
	router    *Router
	responder *Responder
}

func NewProcessor(router *Router, responder *Responder) *Processor {
	return &Processor{
		router:    router,
		responder: responder,
	}
}

func (p *Processor) Process(ctx context.Context, rw io.ReadWriter) {
	req, err := http11.ReadRequest(bufio.NewReader(rw))
	if err != nil {
		logger.Error("request parse failed", map[string]any{
			"error": err.Error(),
		})
		p.serverError(rw)
		return
	}

	metrics.RequestsTotal.WithLabelValues(req.Method).Inc()

	out, err := p.router.Route(ctx, req)
	if err != nil {
		logger.Error("request dispatch failed", map[string]any{
			"method": req.Method,
			"path":   req.Path,
			"error":  err.Error(),
		})
		p.serverError(rw)
		return
	}

	p.write(rw, out)
}

func (p *Processor) serverError(w io.Writer) {
	out := p.responder.ServerError()
	if out == nil {
		return
	}
	p.write(w, out)
}

func (p *Processor) write(w io.Writer, out []byte) {
	if _, err := w.Write(out); err != nil {
		logger.Error("response write failed", map[string]any{
			"error": err.Error(),
		})
	}
}
