package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"ai-storefront/internal/bootstrap"
	"ai-storefront/internal/config"
	"ai-storefront/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	articleID = "03bai_viet_001-ao-thun"
	infoID    = "trang_thong_tin_001-gioi-thieu"
	jwtSecret = "s3cret"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func writeFile(t *testing.T, root, rel string, content []byte) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, 0o644))
}

// newTestApp serves a content root holding one article and one info page,
// plus any extra files keyed by root-relative path.
func newTestApp(t *testing.T, extra ...map[string][]byte) *fiber.App {
	t.Helper()
	root := t.TempDir()
	for _, files := range extra {
		for rel, content := range files {
			writeFile(t, root, rel, content)
		}
	}
	writeFile(t, root, "03bai_viet/001-ao-thun/index.html", []byte("<p>Nội dung áo thun</p>"))
	writeFile(t, root, "03bai_viet/001-ao-thun/title.txt", []byte("Áo thun mới"))
	writeFile(t, root, "03bai_viet/001-ao-thun/cover.png", pngBytes)
	writeFile(t, root, "trang_thong_tin/001-gioi-thieu/page.html", []byte("<p>Về chúng tôi</p>"))
	writeFile(t, root, "trang_thong_tin/001-gioi-thieu/title.txt", []byte("Giới thiệu"))

	logs := t.TempDir()
	cfg := &config.Config{
		App: config.AppConfig{
			Environment:        "test",
			LogFilePath:        filepath.Join(logs, "app.log"),
			TranscriptLogPath:  filepath.Join(logs, "transcript.log"),
			CorsAllowedOrigins: "*",
			BodyLimit:          1024 * 1024,
		},
		Content: config.ContentConfig{Root: root, Backend: "filesystem", CacheTTL: time.Minute},
		Session: config.SessionConfig{Backend: "memory", TTL: time.Hour},
		Chat:    config.ChatConfig{MaxAttachmentBytes: 1024},
		// No API key: the chat is disabled
		Ai:   config.AIConfig{LLMProvider: "gemini", Timeout: time.Second},
		Keys: config.APIKeys{JWTSecret: jwtSecret},
		Site: config.SiteConfig{AuthorName: "Tác giả", AuthorURL: "https://example.com"},
	}

	container, err := bootstrap.NewContainer(context.Background(), nil, cfg)
	require.NoError(t, err)
	t.Cleanup(container.Close)

	return New(cfg, container).GetApp()
}

type client struct {
	t      *testing.T
	app    *fiber.App
	cookie *http.Cookie
}

func (c *client) do(req *http.Request) *http.Response {
	c.t.Helper()
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	for _, ck := range resp.Cookies() {
		if ck.Name == serverutils.SessionCookieName {
			c.cookie = ck
		}
	}
	return resp
}

func (c *client) get(path string) (*http.Response, string) {
	c.t.Helper()
	resp := c.do(httptest.NewRequest(http.MethodGet, path, nil))
	body, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp, string(body)
}

func (c *client) post(path string, form url.Values) *http.Response {
	c.t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	return c.do(req)
}

func TestHealthz(t *testing.T) {
	c := &client{t: t, app: newTestApp(t)}

	resp, body := c.get("/healthz")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"success":true`)
	assert.Nil(t, c.cookie)
}

func TestHome_IssuesSessionAndRendersShell(t *testing.T) {
	c := &client{t: t, app: newTestApp(t)}

	resp, body := c.get("/")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/html")
	require.NotNil(t, c.cookie)
	assert.Contains(t, body, "Chào mừng đến với Trợ lý AI")
	assert.Contains(t, body, "Áo thun mới")
	assert.Contains(t, body, "/media/pages/"+articleID+"/cover")
	assert.Contains(t, body, "Giới thiệu")
	assert.Contains(t, body, "GOOGLE_API_KEY")
	assert.NotContains(t, body, "<textarea")
}

func TestNavigation_ListOpenBack(t *testing.T) {
	c := &client{t: t, app: newTestApp(t)}
	c.get("/")

	resp := c.post("/nav/articles", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get(fiber.HeaderLocation))

	_, body := c.get("/")
	assert.Contains(t, body, "Danh sách bài viết")

	resp = c.post("/nav/open/"+infoID, nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	_, body = c.get("/")
	assert.Contains(t, body, "/pages/"+infoID+"/frame")
	assert.Contains(t, body, "Quay lại Danh sách tin")

	resp, frame := c.get("/pages/" + infoID + "/frame")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, frame, "<p>Về chúng tôi</p>")

	// Only the page being viewed is served
	resp, _ = c.get("/pages/" + articleID + "/frame")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	c.post("/nav/back", nil)
	_, body = c.get("/")
	assert.Contains(t, body, "Danh sách bài viết")

	c.post("/nav/home", nil)
	_, body = c.get("/")
	assert.Contains(t, body, "Chào mừng đến với Trợ lý AI")
}

func TestNavigation_OpenUnknownPageShowsNoticeOnce(t *testing.T) {
	c := &client{t: t, app: newTestApp(t)}
	c.get("/")

	resp := c.post("/nav/open/03bai_viet_999-missing", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	_, body := c.get("/")
	assert.Contains(t, body, "Không thể tìm thấy trang được yêu cầu.")
	assert.Contains(t, body, "Chào mừng đến với Trợ lý AI")

	_, body = c.get("/")
	assert.NotContains(t, body, "Không thể tìm thấy trang được yêu cầu.")
}

func TestSessionsAreIsolated(t *testing.T) {
	app := newTestApp(t)
	alice := &client{t: t, app: app}
	bob := &client{t: t, app: app}
	alice.get("/")
	bob.get("/")

	alice.post("/nav/articles", nil)

	_, aliceBody := alice.get("/")
	_, bobBody := bob.get("/")
	assert.Contains(t, aliceBody, "Danh sách bài viết")
	assert.NotContains(t, bobBody, "Danh sách bài viết")
}

func TestMedia(t *testing.T) {
	c := &client{t: t, app: newTestApp(t)}

	resp, body := c.get("/media/pages/" + articleID + "/cover")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get(fiber.HeaderContentType))
	assert.Equal(t, string(pngBytes), body)

	resp, _ = c.get("/media/pages/" + infoID + "/cover")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = c.get("/media/logo")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = c.get("/media/turns/00000000-0000-0000-0000-000000000000")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAdmin_RefreshRequiresToken(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/content/refresh", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, resp.Cookies())

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"role": "admin"}).SignedString([]byte(jwtSecret))
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodPost, "/admin/content/refresh", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"articles":1`)
	assert.Contains(t, string(body), `"info_pages":1`)
}

func TestNavigation_OpensPageWithNonASCIIFolder(t *testing.T) {
	c := &client{t: t, app: newTestApp(t, map[string][]byte{
		"trang_thong_tin/002-giới thiệu/page.html": []byte("<p>Chính sách đổi trả</p>"),
		"trang_thong_tin/002-giới thiệu/title.txt": []byte("Đổi trả"),
		"03bai_viet/002-áo khoác/index.html":       []byte("<p>Áo khoác</p>"),
		"03bai_viet/002-áo khoác/title.txt":        []byte("Áo khoác mới"),
		"03bai_viet/002-áo khoác/cover.png":        pngBytes,
	})}

	_, body := c.get("/")

	// Follow the links exactly as rendered
	cover := regexp.MustCompile(`src="(/media/pages/03bai_viet_002-[^"]+/cover)"`).FindStringSubmatch(body)
	require.NotNil(t, cover, "cover link rendered")
	resp, data := c.get(cover[1])
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, string(pngBytes), data)

	open := regexp.MustCompile(`action="(/nav/open/trang_thong_tin_002-[^"]+)"`).FindStringSubmatch(body)
	require.NotNil(t, open, "open action rendered")
	resp = c.post(open[1], nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	_, body = c.get("/")
	assert.NotContains(t, body, "Không thể tìm thấy trang được yêu cầu.")
	frame := regexp.MustCompile(`<iframe class="page" src="([^"]+)"`).FindStringSubmatch(body)
	require.NotNil(t, frame, "content view rendered")

	resp, data = c.get(frame[1])
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, data, "<p>Chính sách đổi trả</p>")
}
