package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"faceless_videos/ai"
	"faceless_videos/config"
	"faceless_videos/jobs"
	"faceless_videos/pipeline"
	"faceless_videos/storage"
	"faceless_videos/story"
	"faceless_videos/video"
)

type scriptedText struct {
	responses []string
	calls     int
}

func (s *scriptedText) Generate(messages []ai.Message) (string, error) {
	i := s.calls
	s.calls++
	if i < len(s.responses) {
		return s.responses[i], nil
	}
	return "", nil
}

func newTestServer(t *testing.T, text story.TextGenerator, workers, queueSize int) (*Server, *jobs.Pool) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	cfg.Server.DataDir = filepath.Join(t.TempDir(), "data")

	layout := storage.NewLayout(cfg.Server.DataDir)
	library := storage.NewLibrary(layout, func(string) (float64, error) { return 0, nil })
	manager := jobs.NewManager()
	pool := jobs.NewPool(workers, queueSize)
	t.Cleanup(pool.Stop)

	runner := pipeline.NewRunner(
		story.NewGenerator(text, 1500, 2000, 10),
		nil,
		video.NewClipBuilder(nil),
		video.NewAssembler(),
		layout,
		manager,
	)
	return New(cfg, runner, manager, pool, layout, library), pool
}

func TestGetConfigReturnsCatalogs(t *testing.T) {
	srv, _ := newTestServer(t, &scriptedText{}, 1, 1)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/config", nil)
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string][]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(body["storyTypes"]) == 0 || len(body["voices"]) == 0 || len(body["imageStyles"]) == 0 {
		t.Errorf("catalogs incomplete: %v", body)
	}
}

func TestStatusUnknownJob(t *testing.T) {
	srv, _ := newTestServer(t, &scriptedText{}, 1, 1)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/status/nope", nil)
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestGenerateRejectsBadBody(t *testing.T) {
	srv, _ := newTestServer(t, &scriptedText{}, 1, 1)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(`{"story_type": "Scary"}`))
	req.Header.Set("Content-Type", "application/json")
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestGenerateReturnsJobID(t *testing.T) {
	srv, _ := newTestServer(t, &scriptedText{}, 1, 4)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/generate",
		strings.NewReader(`{"story_type": "Scary", "image_style": "cinematic", "voice_name": "onyx"}`))
	req.Header.Set("Content-Type", "application/json")
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["job_id"] == "" {
		t.Error("no job_id in response")
	}

	statusReq := httptest.NewRequest(http.MethodGet, "/api/status/"+body["job_id"], nil)
	statusW := httptest.NewRecorder()
	srv.Router().ServeHTTP(statusW, statusReq)
	if statusW.Code != http.StatusOK {
		t.Errorf("status lookup = %d", statusW.Code)
	}
}

func TestGenerateFullQueueReturns503(t *testing.T) {
	srv, _ := newTestServer(t, &scriptedText{}, 0, 0)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/generate",
		strings.NewReader(`{"story_type": "Scary", "image_style": "cinematic", "voice_name": "onyx"}`))
	req.Header.Set("Content-Type", "application/json")
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}

func TestScriptReturnsProject(t *testing.T) {
	text := &scriptedText{responses: []string{
		"Title: T\n\nDescription: d\n\nbody",
		`[]`,
		`{"project_info": {"title": "T", "user": "AI Generated", "timestamp": "x"}, "storyboards": [{"scene_number": 1, "description": "d", "subtitles": "body"}]}`,
	}}
	srv, _ := newTestServer(t, text, 1, 1)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/script", strings.NewReader(`{"story_type": "Scary"}`))
	req.Header.Set("Content-Type", "application/json")
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var project story.Project
	if err := json.Unmarshal(w.Body.Bytes(), &project); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if project.ProjectInfo.Title != "T" || len(project.Storyboards) != 1 {
		t.Errorf("project = %+v", project)
	}
}

func TestIdeasBindsPromptField(t *testing.T) {
	text := &scriptedText{responses: []string{"idea one\nidea two"}}
	srv, _ := newTestServer(t, text, 1, 1)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/ideas", strings.NewReader(`{"prompt": "space"}`))
	req.Header.Set("Content-Type", "application/json")
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var body map[string][]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(body["ideas"]) != 2 {
		t.Errorf("ideas = %v", body["ideas"])
	}
}

func TestIdeasRequiresPrompt(t *testing.T) {
	srv, _ := newTestServer(t, &scriptedText{}, 1, 1)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/ideas", strings.NewReader(`{"language": "English"}`))
	req.Header.Set("Content-Type", "application/json")
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestVideosEmpty(t *testing.T) {
	srv, _ := newTestServer(t, &scriptedText{}, 1, 1)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/videos", nil)
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string][]storage.VideoEntry
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(body["videos"]) != 0 {
		t.Errorf("videos = %v", body["videos"])
	}
}

func TestDeleteVideoMissing(t *testing.T) {
	srv, _ := newTestServer(t, &scriptedText{}, 1, 1)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/delete_video/Scary/Nope", nil)
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t, &scriptedText{}, 1, 1)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/config", nil)
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}
}
