package builder

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/futig/docchat-backend/internal/config"
	"github.com/futig/docchat-backend/internal/entity"
	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T, mocks bool) *config.Config {
	t.Helper()
	dir := t.TempDir()

	t.Setenv("ENABLE_MOCKS", map[bool]string{true: "true", false: "false"}[mocks])
	t.Setenv("FILE_UPLOAD_DIR", filepath.Join(dir, "uploads"))
	t.Setenv("PROMPTS_FILE", filepath.Join(dir, "missing-prompts.yaml"))
	t.Setenv("EMBEDDING_PROVIDER", "local")
	t.Setenv("GENERATION_API_KEY", "")
	t.Setenv("GENERATION_SERVICE_URL", "")
	t.Setenv("GENERATION_STREAM_URL", "")
	t.Setenv("EXTRACTION_SERVICE_URL", "")

	cfg, err := config.Parse()
	require.NoError(t, err)
	return cfg
}

func renderPDF(t *testing.T, lines ...string) []byte {
	t.Helper()
	return render(t, false, lines...)
}

func render(t *testing.T, compress bool, lines ...string) []byte {
	t.Helper()
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(compress)
	pdf.AddPage()
	pdf.SetFont("Arial", "", 12)
	for _, line := range lines {
		pdf.Cell(0, 10, line)
		pdf.Ln(10)
	}
	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	return buf.Bytes()
}

type client struct {
	t   *testing.T
	url string
}

func (c client) do(method, path, contentType string, body io.Reader) (int, []byte) {
	c.t.Helper()
	req, err := http.NewRequest(method, c.url+path, body)
	require.NoError(c.t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp.StatusCode, data
}

func (c client) json(method, path string, payload any, out any) int {
	c.t.Helper()
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(c.t, err)
		body = bytes.NewReader(data)
	}
	status, data := c.do(method, path, "application/json", body)
	if out != nil {
		require.NoError(c.t, json.Unmarshal(data, out), string(data))
	}
	return status
}

func (c client) upload(filename string, content []byte) (int, []byte) {
	c.t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(c.t, err)
	_, err = part.Write(content)
	require.NoError(c.t, err)
	require.NoError(c.t, w.Close())
	return c.do(http.MethodPost, "/upload", w.FormDataContentType(), &body)
}

func TestApp_DocumentChatFlow(t *testing.T) {
	cfg := testConfig(t, true)
	app, err := build(cfg, zap.NewNop())
	require.NoError(t, err)

	srv := httptest.NewServer(app.server.Handler)
	defer srv.Close()
	c := client{t: t, url: srv.URL}

	var health entity.HealthResponse
	require.Equal(t, http.StatusOK, c.json(http.MethodGet, "/health", nil, &health))
	assert.Equal(t, "healthy", health.Status)
	assert.True(t, health.AIServiceConfigured)
	assert.True(t, health.ExtractionServiceConfigured)

	status, body := c.upload("facts.pdf", renderPDF(t,
		"The capital of France is Paris.",
		"The Eiffel Tower stands in Paris.",
	))
	require.Equal(t, http.StatusOK, status, string(body))

	filename := "facts.pdf"
	var chat entity.ChatResponse
	require.Equal(t, http.StatusOK, c.json(http.MethodPost, "/chat", entity.ChatRequest{
		Message:   "What is the capital of France?",
		SessionID: "e2e",
		Filename:  &filename,
	}, &chat))
	assert.True(t, chat.Success)
	assert.Equal(t, "[mock] You said: What is the capital of France?", chat.Content)
	require.NotEmpty(t, chat.Sources)
	assert.Contains(t, chat.Sources[0], "Paris")

	payload, err := json.Marshal(entity.ChatRequest{Message: "Tell me more", SessionID: "e2e"})
	require.NoError(t, err)
	status, stream := c.do(http.MethodPost, "/chat/stream", "application/json", bytes.NewReader(payload))
	require.Equal(t, http.StatusOK, status)

	var fragments strings.Builder
	var final entity.ChatResponse
	blocks := strings.Split(strings.TrimSpace(string(stream)), "\n\n")
	require.GreaterOrEqual(t, len(blocks), 3)
	assert.Equal(t, "data: [DONE]", blocks[len(blocks)-1])
	for _, block := range blocks[:len(blocks)-2] {
		var frag entity.StreamFragment
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(block, "data: ")), &frag))
		fragments.WriteString(frag.Content)
	}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(blocks[len(blocks)-2], "data: ")), &final))
	assert.True(t, final.Success)
	assert.Equal(t, "[mock] You said: Tell me more", final.Content)
	assert.Equal(t, final.Content, fragments.String())

	var history entity.HistoryResponse
	require.Equal(t, http.StatusOK, c.json(http.MethodGet, "/chat/history?session_id=e2e", nil, &history))
	require.Len(t, history.Messages, 4)
	assert.Equal(t, "user", history.Messages[0].Role)
	assert.Equal(t, "Tell me more", history.Messages[2].Content)

	var ask entity.AskResponse
	require.Equal(t, http.StatusOK, c.json(http.MethodPost, "/ask", entity.AskRequest{
		Question: "Where is the Eiffel Tower?",
		Filename: "facts.pdf",
	}, &ask))
	assert.Equal(t, "[mock] You said: Where is the Eiffel Tower?", ask.Answer)
	assert.NotEmpty(t, ask.SourceChunks)

	require.Equal(t, http.StatusBadRequest, c.json(http.MethodPost, "/ask", entity.AskRequest{
		Question: "Anything?",
		Filename: "missing.pdf",
	}, nil))

	require.Equal(t, http.StatusOK, c.json(http.MethodGet, "/health", nil, &health))
	assert.Equal(t, 1, health.UploadedFiles)
	assert.Equal(t, 1, health.ActiveSessions)

	var deleted entity.SuccessResponse
	require.Equal(t, http.StatusOK, c.json(http.MethodDelete, "/delete_file?filename=facts.pdf", nil, &deleted))
	assert.True(t, deleted.Success)
	require.Equal(t, http.StatusOK, c.json(http.MethodDelete, "/delete_file?filename=facts.pdf", nil, &deleted))
	assert.False(t, deleted.Success)
	assert.Equal(t, "File not found", deleted.Message)

	var cleared entity.SuccessResponse
	require.Equal(t, http.StatusOK, c.json(http.MethodPost, "/chat/clear?session_id=e2e", nil, &cleared))
	assert.True(t, cleared.Success)
	require.Equal(t, http.StatusOK, c.json(http.MethodGet, "/chat/history?session_id=e2e", nil, &history))
	assert.Empty(t, history.Messages)

	require.NoError(t, app.shutdown())
	_, err = os.Stat(cfg.FileUploadCfg.Dir)
	assert.True(t, os.IsNotExist(err))
}

func TestApp_UnconfiguredGeneration(t *testing.T) {
	cfg := testConfig(t, false)
	app, err := build(cfg, zap.NewNop())
	require.NoError(t, err)

	srv := httptest.NewServer(app.server.Handler)
	defer srv.Close()
	c := client{t: t, url: srv.URL}

	var health entity.HealthResponse
	require.Equal(t, http.StatusOK, c.json(http.MethodGet, "/health", nil, &health))
	assert.Equal(t, "degraded", health.Status)
	assert.False(t, health.AIServiceConfigured)
	assert.Contains(t, health.Error, "GENERATION_API_KEY")

	var errBody entity.ErrorResponse
	require.Equal(t, http.StatusInternalServerError, c.json(http.MethodPost, "/chat", entity.ChatRequest{
		Message:   "hi",
		SessionID: "s1",
	}, &errBody))
	assert.Contains(t, errBody.Detail, entity.ErrConfiguration.Error())

	var history entity.HistoryResponse
	require.Equal(t, http.StatusOK, c.json(http.MethodGet, "/chat/history?session_id=s1", nil, &history))
	assert.Empty(t, history.Messages)
}

func TestApp_LocalExtractionWithoutService(t *testing.T) {
	cfg := testConfig(t, false)
	app, err := build(cfg, zap.NewNop())
	require.NoError(t, err)

	srv := httptest.NewServer(app.server.Handler)
	defer srv.Close()
	c := client{t: t, url: srv.URL}

	var health entity.HealthResponse
	require.Equal(t, http.StatusOK, c.json(http.MethodGet, "/health", nil, &health))
	assert.Equal(t, "degraded", health.Status)
	assert.False(t, health.ExtractionServiceConfigured)
	assert.Contains(t, health.Error, "EXTRACTION_SERVICE_URL")

	status, body := c.upload("w.pdf", render(t, true, "The warranty lasts 24 months."))
	assert.Equal(t, http.StatusInternalServerError, status, string(body))
	assert.NotContains(t, string(body), "Mock content")

	stored, err := os.ReadDir(cfg.FileUploadCfg.Dir)
	require.NoError(t, err)
	assert.Empty(t, stored)

	status, body = c.upload("plain.pdf", renderPDF(t, "The warranty lasts 24 months."))
	require.Equal(t, http.StatusOK, status, string(body))

	require.Equal(t, http.StatusOK, c.json(http.MethodGet, "/health", nil, &health))
	assert.Equal(t, 1, health.UploadedFiles)

	require.NoError(t, app.shutdown())
}

func TestSetupLogger(t *testing.T) {
	logger, err := setupLogger("debug")
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = setupLogger("loud")
	assert.Error(t, err)
}
