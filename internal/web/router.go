package web

import (
	"context"
	"errors"

	"session-server/internal/auth"
	"session-server/internal/http11"
	"session-server/internal/logger"
	"session-server/internal/metrics"
	"session-server/internal/session"
)

// Router resolves a parsed request to an action and serializes the
// outcome. Every request ends in exactly one response; unrecoverable
// failures surface as errors for the processor to turn into a 500.
type Router struct {
	sessions  session.Store
	auth      *auth.Service
	responder *Responder
}

func NewRouter(sessions session.Store, authService *auth.Service, responder *Responder) *Router {
	return &Router{
		sessions:  sessions,
		auth:      authService,
		responder: responder,
	}
}

func (rt *Router) Route(ctx context.Context, req *http11.Request) ([]byte, error) {
	switch req.Method {
	case http11.MethodGet:
		return rt.doGet(ctx, req)
	case http11.MethodPost:
		return rt.doPost(ctx, req)
	default:
		return rt.responder.MethodNotAllowed(), nil
	}
}

func (rt *Router) doGet(ctx context.Context, req *http11.Request) ([]byte, error) {
	if req.Path == "/login" {
		live, err := rt.liveSession(ctx, req)
		if err != nil {
			return nil, err
		}
		if live {
			return rt.responder.Redirect("/", "")
		}
	}

	resourcePath := rt.responder.ResolvePath(req.Path)
	return rt.responder.Resource(resourcePath, http11.StatusOK, ContentTypeFor(resourcePath), "")
}

func (rt *Router) doPost(ctx context.Context, req *http11.Request) ([]byte, error) {
	switch req.Path {
	case "/login":
		return rt.login(ctx, req)
	case "/register":
		return rt.register(ctx, req)
	default:
		return rt.responder.NotFound()
	}
}

func (rt *Router) login(ctx context.Context, req *http11.Request) ([]byte, error) {
	account := req.Form["account"]
	password := req.Form["password"]

	id, created, err := rt.auth.Login(ctx, account, password)
	if isAuthFailure(err) {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		logger.Info("login rejected", map[string]any{
			"account": account,
			"reason":  err.Error(),
		})
		return rt.responder.Redirect("/401", "")
	}
	if err != nil {
		return nil, err
	}

	if created {
		metrics.ActiveSessions.Inc()
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	logger.Info("login succeeded", map[string]any{
		"account": account,
	})

	// The cookie is attached only when the caller is not already holding
	// one that resolves to a live session.
	cookie := ""
	live, err := rt.liveSession(ctx, req)
	if err != nil {
		return nil, err
	}
	if !live {
		cookie = http11.SessionCookieValue(id)
	}

	return rt.responder.Redirect("/", cookie)
}

func (rt *Router) register(ctx context.Context, req *http11.Request) ([]byte, error) {
	account := req.Form["account"]
	password := req.Form["password"]
	email := req.Form["email"]

	err := rt.auth.Register(ctx, account, password, email)
	if errors.Is(err, auth.ErrAccountExists) || errors.Is(err, auth.ErrValidation) {
		logger.Info("registration rejected", map[string]any{
			"account": account,
			"reason":  err.Error(),
		})
		return rt.responder.Resource("/register.html", http11.StatusBadRequest, http11.ContentTypeHTML, "")
	}
	if err != nil {
		return nil, err
	}

	metrics.RegistrationsTotal.Inc()
	logger.Info("account registered", map[string]any{
		"account": account,
	})
	return rt.responder.Redirect("/", "")
}

// liveSession reports whether the request's cookies carry a session id
// that the store resolves to a session.
func (rt *Router) liveSession(ctx context.Context, req *http11.Request) (bool, error) {
	cookies := http11.ParseCookies(req.CookieHeader())
	if !cookies.HasSessionID() {
		return false, nil
	}

	id, err := cookies.SessionID()
	if err != nil {
		return false, nil
	}

	sess, err := rt.sessions.Find(ctx, id)
	if err != nil {
		return false, err
	}
	return sess != nil, nil
}

func isAuthFailure(err error) bool {
	return errors.Is(err, auth.ErrValidation) ||
		errors.Is(err, auth.ErrUnknownAccount) ||
		errors.Is(err, auth.ErrBadPassword)
}
