//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/studyhall-ai/studyhall/internal/api/handlers"
	"github.com/studyhall-ai/studyhall/internal/jobs"
	"github.com/studyhall-ai/studyhall/internal/kb"
	"github.com/studyhall-ai/studyhall/internal/match"
	"github.com/studyhall-ai/studyhall/internal/server"
	"github.com/studyhall-ai/studyhall/internal/service"
)

// E2ETestEnv holds all resources needed for E2E tests
type E2ETestEnv struct {
	T            *testing.T
	Ctx          context.Context
	DataDir      string
	ServerURL    string
	ServerCloser func()
	BinaryDir    string
	HTTPClient   *http.Client
}

// SetupE2EEnv writes a knowledge base to a temp directory and starts the server
func SetupE2EEnv(t *testing.T) *E2ETestEnv {
	ctx := context.Background()

	dataDir := t.TempDir()
	WriteKnowledgeBase(t, dataDir, defaultCourseContent(), defaultForumPosts())

	port, err := getFreePort()
	if err != nil {
		t.Fatalf("failed to get free port: %v", err)
	}

	serverURL, serverCloser := startServer(t, dataDir, port)

	return &E2ETestEnv{
		T:            t,
		Ctx:          ctx,
		DataDir:      dataDir,
		ServerURL:    serverURL,
		ServerCloser: serverCloser,
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Cleanup releases all resources
func (e *E2ETestEnv) Cleanup() {
	if e.ServerCloser != nil {
		e.ServerCloser()
	}
	if e.BinaryDir != "" {
		os.RemoveAll(e.BinaryDir)
	}
}

// WriteKnowledgeBase writes both collection files into dir
func WriteKnowledgeBase(t *testing.T, dir string, course, forum interface{}) {
	courseJSON, err := json.Marshal(course)
	if err != nil {
		t.Fatalf("failed to marshal course content: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "course_content.json"), courseJSON, 0o644); err != nil {
		t.Fatalf("failed to write course content: %v", err)
	}

	forumJSON, err := json.Marshal(forum)
	if err != nil {
		t.Fatalf("failed to marshal forum posts: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "forum_posts.json"), forumJSON, 0o644); err != nil {
		t.Fatalf("failed to write forum posts: %v", err)
	}
}

func defaultCourseContent() []map[string]interface{} {
	return []map[string]interface{}{
		{
			"id":          "course-pandas-missing",
			"title":       "Handling Missing Values in Pandas",
			"description": "How to detect and fill missing values in a DataFrame using isna, fillna and dropna.",
			"keywords":    []string{"pandas", "fillna", "dropna", "missing values", "NaN"},
			"url":         "https://example.edu/course/pandas-missing-values",
			"module":      3,
		},
		{
			"id":          "course-docker-basics",
			"title":       "Docker Basics for Data Science",
			"description": "Building images, running containers and mounting volumes for reproducible environments.",
			"keywords":    []string{"docker", "container", "image", "volume"},
			"url":         "https://example.edu/course/docker-basics",
			"module":      5,
		},
	}
}

func defaultForumPosts() []map[string]interface{} {
	return []map[string]interface{}{
		{
			"id":            "forum-2001",
			"title":         "fillna not replacing NaN values",
			"content":       "I tried df.fillna(0) but the NaN values are still there. Turns out fillna returns a copy unless you pass inplace=True or reassign.",
			"url":           "https://forum.example.edu/t/fillna-not-replacing/2001",
			"created_at":    "2025-02-10T09:30:00Z",
			"replies_count": 4,
		},
	}
}

// BuildBinaries builds the studyhall and studyhalld binaries
func (e *E2ETestEnv) BuildBinaries() {
	tmpDir, err := os.MkdirTemp("", "studyhall-e2e-*")
	if err != nil {
		e.T.Fatalf("failed to create temp dir: %v", err)
	}
	e.BinaryDir = tmpDir

	cmd := exec.Command("go", "build", "-o", filepath.Join(tmpDir, "studyhalld"), "./cmd/studyhalld")
	cmd.Dir = "../.."
	if out, err := cmd.CombinedOutput(); err != nil {
		e.T.Fatalf("failed to build studyhalld: %v\n%s", err, out)
	}

	cmd = exec.Command("go", "build", "-o", filepath.Join(tmpDir, "studyhall"), "./cmd/studyhall")
	cmd.Dir = "../.."
	if out, err := cmd.CombinedOutput(); err != nil {
		e.T.Fatalf("failed to build studyhall: %v\n%s", err, out)
	}
}

// RunStudyhall runs the studyhall CLI command against the test server
func (e *E2ETestEnv) RunStudyhall(args ...string) (string, error) {
	cmd := exec.Command(filepath.Join(e.BinaryDir, "studyhall"), args...)
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("STUDYHALL_API_URL=%s", e.ServerURL),
	)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// APIResponse represents a standard API response
type APIResponse struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error,omitempty"`
}

// Get performs a GET request
func (e *E2ETestEnv) Get(path string) (*APIResponse, error) {
	return e.doRequest("GET", path, nil)
}

// Post performs a POST request
func (e *E2ETestEnv) Post(path string, body interface{}) (*APIResponse, error) {
	return e.doRequest("POST", path, body)
}

func (e *E2ETestEnv) doRequest(method, path string, body interface{}) (*APIResponse, error) {
	url := e.ServerURL + path

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var apiResp APIResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
		}
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, apiResp.Error)
	}

	return &apiResp, nil
}

// startServer wires the full stack against the data directory and starts it
func startServer(t *testing.T, dataDir string, port int) (string, func()) {
	ctx := context.Background()

	source := &kb.FileSource{Dir: dataDir}
	loader := kb.NewLoader(source, "course_content.json", "forum_posts.json")

	snapshot, err := loader.Load(ctx)
	if err != nil {
		t.Fatalf("failed to load knowledge base: %v", err)
	}
	store := kb.NewStore(snapshot)

	engine := match.NewEngine(match.Config{
		FuzzyWeight:   0.7,
		KeywordWeight: 0.3,
		MinScore:      0.3,
		TopN:          3,
	})

	qaSvc := service.NewQAService(store, engine, nil, 30*time.Second)
	kbSvc := service.NewKnowledgeBaseService(loader, store)

	watcher := jobs.NewFileWatcher(
		filepath.Join(dataDir, "course_content.json"),
		filepath.Join(dataDir, "forum_posts.json"),
	)
	worker := jobs.NewWorker(jobs.NewReloadWorker(kbSvc, watcher), 200*time.Millisecond)
	go worker.Start(ctx)

	cfg := server.RouterConfig{
		QuestionHandler:      handlers.NewQuestionHandler(qaSvc),
		KnowledgeBaseHandler: handlers.NewKnowledgeBaseHandler(kbSvc),
		MetaHandler:          handlers.NewMetaHandler("studyhall", "e2e"),
	}

	router := server.NewRouter(cfg)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := fmt.Sprintf("http://localhost:%d", port)
	waitForServer(t, serverURL, 10*time.Second)

	return serverURL, func() {
		worker.Stop()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}
}

func waitForServer(t *testing.T, url string, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("server did not start within %v", timeout)
}

func getFreePort() (int, error) {
	addr, err := net.ResolveTCPAddr("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}

	l, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}
