package router

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itchan-dev/scoula/internal/setup"
	"github.com/itchan-dev/scoula/shared/config"
	"github.com/itchan-dev/scoula/shared/csrf"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{Public: config.Public{
		FlashTTL:               time.Minute,
		SlowRequestThreshold:   time.Second,
		MaxTotalAttachmentSize: 1 << 20,
		MaxAttachmentsPerPost:  3,
		Database: config.Database{
			Driver:      config.DriverSqlite,
			SqlitePath:  filepath.Join(dir, "scoula.db"),
			AutoMigrate: true,
		},
		Media: config.Media{Backend: config.MediaFS, Root: filepath.Join(dir, "media")},
	}}

	deps, err := setup.SetupDependencies(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(deps.Cleanup)

	srv := httptest.NewServer(New(deps))
	t.Cleanup(srv.Close)
	return srv
}

// browser keeps cookies like a real one and does not follow redirects,
// so the 303s can be inspected.
type browser struct {
	t   *testing.T
	srv *httptest.Server
	c   *http.Client
}

func newBrowser(t *testing.T) *browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{t: t, srv: newTestServer(t), c: &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}}
}

func (b *browser) get(path string) (*http.Response, string) {
	b.t.Helper()
	resp, err := b.c.Get(b.srv.URL + path)
	require.NoError(b.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	return resp, string(body)
}

// token returns the csrf cookie, visiting a page first when there is none yet.
func (b *browser) token() string {
	b.t.Helper()
	u, err := url.Parse(b.srv.URL)
	require.NoError(b.t, err)
	for i := 0; i < 2; i++ {
		for _, c := range b.c.Jar.Cookies(u) {
			if c.Name == csrf.CookieName {
				return c.Value
			}
		}
		b.get("/health")
	}
	b.t.Fatal("no csrf cookie issued")
	return ""
}

func (b *browser) postForm(path string, values url.Values) *http.Response {
	b.t.Helper()
	values.Set(csrf.FieldName, b.token())
	resp, err := b.c.PostForm(b.srv.URL+path, values)
	require.NoError(b.t, err)
	resp.Body.Close()
	return resp
}

func TestHealthAndMetrics(t *testing.T) {
	b := newBrowser(t)

	resp, body := b.get("/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.NotEmpty(t, resp.Header.Get("Content-Security-Policy"))

	resp, body = b.get("/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `scoula_http_requests_total{method="GET",path="/health",status="200"}`)
}

func TestWrongMethodIs405(t *testing.T) {
	b := newBrowser(t)

	for _, path := range []string{"/board/delete", "/todo/insert", "/board/attachment/1/delete"} {
		resp, _ := b.get(path)
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode, path)
	}

	resp := b.postForm("/board/list", url.Values{})
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestPostWithoutTokenIs403(t *testing.T) {
	b := newBrowser(t)
	b.token()

	resp, err := b.c.PostForm(b.srv.URL+"/todo/insert", url.Values{"title": {"sneaky"}})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	_, body := b.get("/")
	assert.NotContains(t, body, "sneaky")
}

func TestUnknownRouteIs404(t *testing.T) {
	b := newBrowser(t)

	resp, body := b.get("/does/not/exist")

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.NotEmpty(t, body)
}

func TestBoardFlow(t *testing.T) {
	b := newBrowser(t)

	// create a post with one attachment
	var buf bytes.Buffer
	mp := multipart.NewWriter(&buf)
	require.NoError(t, mp.WriteField("title", "First post"))
	require.NoError(t, mp.WriteField("content", "hello **world**"))
	require.NoError(t, mp.WriteField("writer", "kim"))
	part, err := mp.CreateFormFile("files", "notes.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("attached text"))
	require.NoError(t, err)
	require.NoError(t, mp.Close())

	target := b.srv.URL + "/board/create?" + url.Values{csrf.FieldName: {b.token()}}.Encode()
	resp, err := b.c.Post(target, mp.FormDataContentType(), &buf)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	location := resp.Header.Get("Location")
	assert.Equal(t, "/board/get?no=1", location)

	// detail page shows the flash once, the rendered content and the attachment link
	resp, body := b.get(location)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Post created.")
	assert.Contains(t, body, "First post")
	assert.Contains(t, body, "<strong>world</strong>")
	assert.Contains(t, body, "/board/download/1")

	_, body = b.get(location)
	assert.NotContains(t, body, "Post created.")

	resp, body = b.get("/board/download/1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "attached text", body)
	assert.Equal(t, `attachment; filename=notes.txt`, resp.Header.Get("Content-Disposition"))

	resp, _ = b.get("/board/download/2")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// delete it
	resp = b.postForm("/board/delete", url.Values{"no": {"1"}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/board/list", resp.Header.Get("Location"))

	resp, _ = b.get("/board/get?no=1")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = b.get("/board/download/1")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTodoFlow(t *testing.T) {
	b := newBrowser(t)

	resp := b.postForm("/todo/insert", url.Values{"title": {"read chapter 3"}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	resp, body := b.get("/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "read chapter 3")
	assert.Contains(t, body, `name="csrf_token"`)

	resp = b.postForm("/todo/delete", url.Values{"id": {"abc"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
