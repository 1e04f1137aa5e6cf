package web

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"session-server/internal/auth"
	"session-server/internal/session"
	"session-server/internal/static"
	"session-server/internal/user"
)

type fixture struct {
	processor *Processor
	sessions  session.Store
	resources static.Resolver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	users := user.NewMemoryRepository()
	_, err := users.Save(context.Background(), user.Registration{
		Account:  "john",
		Password: "secret",
		Email:    "john@example.com",
	})
	require.NoError(t, err)

	sessions := session.NewMemoryStore()
	resources := static.NewEmbedded()
	responder := NewResponder(resources)
	router := NewRouter(sessions, auth.NewService(users, sessions), responder)

	return &fixture{
		processor: NewProcessor(router, responder),
		sessions:  sessions,
		resources: resources,
	}
}

type rwStream struct {
	in  *strings.Reader
	out bytes.Buffer
}

func (s *rwStream) Read(p []byte) (int, error)  { return s.in.Read(p) }
func (s *rwStream) Write(p []byte) (int, error) { return s.out.Write(p) }

type response struct {
	status  string
	headers map[string]string
	body    string
}

func (f *fixture) do(t *testing.T, raw string) response {
	t.Helper()

	stream := &rwStream{in: strings.NewReader(raw)}
	f.processor.Process(context.Background(), stream)

	out := stream.out.String()
	require.NotEmpty(t, out, "no response written")

	head, body, found := strings.Cut(out, "\r\n\r\n")
	require.True(t, found, "missing header terminator")

	lines := strings.Split(head, "\r\n")
	require.True(t, strings.HasPrefix(lines[0], "HTTP/1.1 "))

	resp := response{
		status:  strings.TrimPrefix(lines[0], "HTTP/1.1 "),
		headers: make(map[string]string),
		body:    body,
	}
	for _, line := range lines[1:] {
		name, value, ok := strings.Cut(line, ": ")
		require.True(t, ok, "bad header line %q", line)
		resp.headers[name] = value
	}
	return resp
}

func get(path, cookie string) string {
	raw := "GET " + path + " HTTP/1.1\r\nHost: localhost\r\n"
	if cookie != "" {
		raw += "Cookie: " + cookie + "\r\n"
	}
	return raw + "\r\n"
}

func post(path, body string) string {
	return "POST " + path + " HTTP/1.1\r\n" +
		"Host: localhost\r\n" +
		"Content-Length: " + strconv.Itoa(len(body)) + "\r\n" +
		"\r\n" + body
}

func (f *fixture) resource(t *testing.T, path string) string {
	t.Helper()
	data, err := f.resources.Read(path)
	require.NoError(t, err)
	return string(data)
}

func TestGet_Index(t *testing.T) {
	f := newFixture(t)

	for _, path := range []string{"/", "/index.html"} {
		resp := f.do(t, get(path, ""))
		assert.Equal(t, "200 OK", resp.status)
		assert.Equal(t, "text/html;charset=utf-8", resp.headers["Content-Type"])
		assert.Equal(t, f.resource(t, "/index.html"), resp.body)
	}
}

func TestGet_ContentTypes(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		path string
		want string
	}{
		{"/css/styles.css", "text/css"},
		{"/js/scripts.js", "application/javascript"},
		{"/assets/img/error-404-monochrome.svg", "image/svg+xml"},
		{"/login.html", "text/html;charset=utf-8"},
	}

	for _, tt := range tests {
		resp := f.do(t, get(tt.path, ""))
		assert.Equal(t, "200 OK", resp.status, tt.path)
		assert.Equal(t, tt.want, resp.headers["Content-Type"], tt.path)
	}
}

func TestGet_ExtensionlessPathServesHTML(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, get("/login", ""))
	assert.Equal(t, "200 OK", resp.status)
	assert.Equal(t, f.resource(t, "/login.html"), resp.body)
}

func TestGet_MissingSVGFallsBackToIcon(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, get("/assets/img/missing.svg", ""))
	assert.Equal(t, "200 OK", resp.status)
	assert.Equal(t, "image/svg+xml", resp.headers["Content-Type"])
	assert.Equal(t, f.resource(t, "/assets/img/error-404-monochrome.svg"), resp.body)
}

func TestGet_NotFound(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, get("/nonexistent.html", ""))
	assert.Equal(t, "404 NOT FOUND", resp.status)
	assert.Equal(t, "text/html;charset=utf-8", resp.headers["Content-Type"])
	assert.Equal(t, f.resource(t, "/404.html"), resp.body)
}

func TestPostLogin_Success(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, post("/login", "account=john&password=secret"))
	assert.Equal(t, "302 FOUND", resp.status)
	assert.Equal(t, "/", resp.headers["Location"])

	cookie := resp.headers["Set-Cookie"]
	require.True(t, strings.HasPrefix(cookie, "JSESSIONID="))
	id := strings.TrimPrefix(cookie, "JSESSIONID=")
	assert.Len(t, id, 36)

	sess, err := f.sessions.Find(context.Background(), id)
	require.NoError(t, err)
	assert.NotNil(t, sess)
}

func TestPostLogin_SecondLoginReusesSession(t *testing.T) {
	f := newFixture(t)

	first := f.do(t, post("/login", "account=john&password=secret"))
	id := strings.TrimPrefix(first.headers["Set-Cookie"], "JSESSIONID=")

	// Without a cookie, the same session id is handed out again.
	second := f.do(t, post("/login", "account=john&password=secret"))
	assert.Equal(t, "JSESSIONID="+id, second.headers["Set-Cookie"])
}

func TestPostLogin_LiveCookieGetsNoSetCookie(t *testing.T) {
	f := newFixture(t)

	first := f.do(t, post("/login", "account=john&password=secret"))
	cookie := first.headers["Set-Cookie"]

	raw := "POST /login HTTP/1.1\r\n" +
		"Host: localhost\r\n" +
		"Cookie: " + cookie + "\r\n" +
		"Content-Length: 28\r\n" +
		"\r\n" +
		"account=john&password=secret"

	resp := f.do(t, raw)
	assert.Equal(t, "302 FOUND", resp.status)
	assert.Equal(t, "/", resp.headers["Location"])
	assert.NotContains(t, resp.headers, "Set-Cookie")
}

func TestPostLogin_Failures(t *testing.T) {
	f := newFixture(t)

	for _, body := range []string{
		"account=john&password=wrong",
		"account=nobody&password=secret",
		"account=&password=secret",
	} {
		resp := f.do(t, post("/login", body))
		assert.Equal(t, "302 FOUND", resp.status, body)
		assert.Equal(t, "/401", resp.headers["Location"], body)
		assert.NotContains(t, resp.headers, "Set-Cookie", body)
	}
}

func TestGetLogin_WithLiveSessionRedirects(t *testing.T) {
	f := newFixture(t)

	login := f.do(t, post("/login", "account=john&password=secret"))
	cookie := login.headers["Set-Cookie"]

	resp := f.do(t, get("/login", cookie))
	assert.Equal(t, "302 FOUND", resp.status)
	assert.Equal(t, "/", resp.headers["Location"])
}

func TestGetLogin_WithStaleCookieServesLoginPage(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, get("/login", "JSESSIONID=not-a-real-session"))
	assert.Equal(t, "200 OK", resp.status)
	assert.Equal(t, f.resource(t, "/login.html"), resp.body)
}

func TestPostRegister_Success(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, post("/register", "account=jane&password=hunter2&email=jane%40example.com"))
	assert.Equal(t, "302 FOUND", resp.status)
	assert.Equal(t, "/", resp.headers["Location"])

	// The new credentials work.
	login := f.do(t, post("/login", "account=jane&password=hunter2"))
	assert.Equal(t, "302 FOUND", login.status)
	assert.Equal(t, "/", login.headers["Location"])
}

func TestPostRegister_ExistingAccount(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, post("/register", "account=john&password=x&email="))
	assert.Equal(t, "400 BAD REQUEST", resp.status)
	assert.Equal(t, f.resource(t, "/register.html"), resp.body)
}

func TestPostRegister_MissingFields(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, post("/register", "account=&password=&email="))
	assert.Equal(t, "400 BAD REQUEST", resp.status)
	assert.Equal(t, f.resource(t, "/register.html"), resp.body)
}

func TestPost_UnknownPath(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, post("/unknown", "a=b"))
	assert.Equal(t, "404 NOT FOUND", resp.status)
	assert.Equal(t, f.resource(t, "/404.html"), resp.body)
}

func TestUnsupportedMethod(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, "DELETE / HTTP/1.1\r\nHost: localhost\r\n\r\n")
	assert.Equal(t, "405 METHOD NOT ALLOWED", resp.status)
	assert.Equal(t, "0", resp.headers["Content-Length"])
	assert.Empty(t, resp.body)
}

func TestMalformedRequestYields500(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, "NONSENSE\r\n\r\n")
	assert.Equal(t, "500 INTERNAL SERVER ERROR", resp.status)
	assert.Equal(t, f.resource(t, "/500.html"), resp.body)
}

func TestRedirectBodyIsTargetResource(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, post("/login", "account=john&password=wrong"))
	assert.Equal(t, "/401", resp.headers["Location"])
	assert.Equal(t, f.resource(t, "/401.html"), resp.body)
	assert.Equal(t, "text/html;charset=utf-8", resp.headers["Content-Type"])
}
