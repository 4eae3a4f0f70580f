package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/scttfrdmn/inquire/agent"
)

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(NewReadFileTool()); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, ok := r.Get("read_file"); !ok {
		t.Error("expected read_file to be registered")
	}
	if _, ok := r.Get("missing"); ok {
		t.Error("expected missing tool lookup to fail")
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(NewReadFileTool()); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	if err := r.Register(NewReadFileTool()); err == nil {
		t.Error("expected duplicate registration to fail")
	}
}

func TestRegistryDescribeListsTools(t *testing.T) {
	r := NewRegistry()
	if got := r.Describe(); got != "No tools available." {
		t.Errorf("empty registry Describe = %q", got)
	}

	if err := r.Register(NewReadFileTool()); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := r.Register(NewWebSearchTool()); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	desc := r.Describe()
	if !strings.Contains(desc, "read_file") || !strings.Contains(desc, "web_search") {
		t.Errorf("Describe missing tool names: %q", desc)
	}
	// Sorted order keeps prompt text stable across runs.
	if strings.Index(desc, "read_file") > strings.Index(desc, "web_search") {
		t.Errorf("Describe not sorted: %q", desc)
	}
}

func TestReadFileMissingFile(t *testing.T) {
	result, err := NewReadFileTool().Execute(context.Background(), map[string]interface{}{
		"file_path": "/nonexistent/data.txt",
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if !strings.Contains(result.Output, "Error: File '/nonexistent/data.txt' not found.") {
		t.Errorf("unexpected output: %q", result.Output)
	}
}

func TestReadFileRejectsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blob.bin")
	if err := os.WriteFile(path, []byte{0x00, 0x01}, 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := NewReadFileTool().Execute(context.Background(), map[string]interface{}{
		"file_path": path,
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if !strings.Contains(result.Output, "may not be a text file") {
		t.Errorf("unexpected output: %q", result.Output)
	}
}

func TestReadFileLatin1Fallback(t *testing.T) {
	// 0xE9 is 'é' in Latin-1 and invalid on its own in UTF-8.
	path := filepath.Join(t.TempDir(), "legacy.txt")
	if err := os.WriteFile(path, []byte{'c', 'a', 'f', 0xE9}, 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := NewReadFileTool().Execute(context.Background(), map[string]interface{}{
		"file_path": path,
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if result.Output != "café" {
		t.Errorf("Latin-1 fallback produced %q, want %q", result.Output, "café")
	}
}

func TestReadFileUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.md")
	if err := os.WriteFile(path, []byte("# heading\nbody"), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := NewReadFileTool().Execute(context.Background(), map[string]interface{}{
		"file_path": path,
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if result.Output != "# heading\nbody" {
		t.Errorf("unexpected content: %q", result.Output)
	}
}

func TestWebSearchParsesResults(t *testing.T) {
	page := `<html><body>
		<div class="result">
			<h2 class="result__title"><a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fa">First Result</a></h2>
			<a class="result__snippet">First snippet text.</a>
		</div>
		<div class="result">
			<h2 class="result__title"><a class="result__a" href="https://example.org/b">Second Result</a></h2>
			<a class="result__snippet">Second snippet text.</a>
		</div>
	</body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		w.Write([]byte(page))
	}))
	defer srv.Close()

	tool := NewWebSearchTool(
		WithSearchEndpoint(srv.URL),
		WithSearchClient(srv.Client()),
		WithMaxResults(2),
	)
	result, err := tool.Execute(context.Background(), map[string]interface{}{
		"query": "example query",
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if !result.Success {
		t.Fatalf("search failed: %q", result.Error)
	}
	if !strings.Contains(result.Output, "First Result") {
		t.Errorf("output missing first title: %q", result.Output)
	}
	if !strings.Contains(result.Output, "https://example.com/a") {
		t.Errorf("redirect URL not unwrapped: %q", result.Output)
	}
	if !strings.Contains(result.Output, "Second snippet text.") {
		t.Errorf("output missing snippet: %q", result.Output)
	}
}

func TestWebSearchRequiresQuery(t *testing.T) {
	result, err := NewWebSearchTool().Execute(context.Background(), map[string]interface{}{})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if result.Success {
		t.Error("expected failure for missing query")
	}
}

func TestWikipediaLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch q.Get("list") {
		case "search":
			w.Write([]byte(`{"query":{"search":[{"title":"Go (programming language)"}]}}`))
		default:
			w.Write([]byte(`{"query":{"pages":{"123":{"title":"Go (programming language)","extract":"Go is a statically typed language."}}}}`))
		}
	}))
	defer srv.Close()

	tool := NewWikipediaTool(
		WithWikipediaEndpoint(srv.URL),
		WithWikipediaClient(srv.Client()),
	)
	result, err := tool.Execute(context.Background(), map[string]interface{}{
		"query": "golang",
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if !strings.Contains(result.Output, "Go (programming language)") {
		t.Errorf("output missing title: %q", result.Output)
	}
	if !strings.Contains(result.Output, "statically typed") {
		t.Errorf("output missing extract: %q", result.Output)
	}
}

// staticFetcher serves fixed HTML regardless of URL.
type staticFetcher struct {
	html string
	err  error
}

func (f staticFetcher) Fetch(context.Context, string, time.Duration, bool) (string, error) {
	return f.html, f.err
}

func TestWebPageExtractsWikitable(t *testing.T) {
	page := `<html><body>
		<table class="wikitable">
			<tr><th>Name</th><th>Year</th></tr>
			<tr><td>Alpha</td><td>1999</td></tr>
		</table>
		<table class="infobox"><tr><td>ignored</td></tr></table>
		<ul><li>one</li><li>two</li></ul>
		<h1 id="title">Page Title</h1>
	</body></html>`

	tool := NewWebPageTool(WithPageFetcher(staticFetcher{html: page}))
	result, err := tool.Execute(context.Background(), map[string]interface{}{
		"url":       "https://example.com/page",
		"selectors": `{"table": ".wikitable", "title": "h1"}`,
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}

	var payload pageExtraction
	if err := json.Unmarshal([]byte(result.Output), &payload); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, result.Output)
	}
	if payload.Status != "success" {
		t.Errorf("status = %q, want success", payload.Status)
	}
	if payload.URL != "https://example.com/page" {
		t.Errorf("url = %q", payload.URL)
	}
	if len(payload.Tables) != 1 {
		t.Fatalf("got %d tables, want 1 (selector should exclude infobox)", len(payload.Tables))
	}
	if got := payload.Tables[0][1][0]; got != "Alpha" {
		t.Errorf("table cell = %q, want Alpha", got)
	}
	if len(payload.Lists) != 1 || payload.Lists[0][1] != "two" {
		t.Errorf("lists = %v", payload.Lists)
	}
	if got := payload.SpecificElements["title"]; len(got) != 1 || got[0] != "Page Title" {
		t.Errorf("specific_elements[title] = %v", got)
	}
}

func TestWebPageFetchFailureReturnsErrorJSON(t *testing.T) {
	tool := NewWebPageTool(WithPageFetcher(staticFetcher{err: context.DeadlineExceeded}))
	result, err := tool.Execute(context.Background(), map[string]interface{}{
		"url": "https://example.com/slow",
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}

	var payload map[string]string
	if err := json.Unmarshal([]byte(result.Output), &payload); err != nil {
		t.Fatalf("error payload is not valid JSON: %v", err)
	}
	if !strings.Contains(payload["error"], "Failed to extract data") {
		t.Errorf("error payload = %v", payload)
	}
	if payload["url"] != "https://example.com/slow" {
		t.Errorf("url = %q", payload["url"])
	}
}

func TestTranscribeRejectsUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("text"), 0o644); err != nil {
		t.Fatal(err)
	}

	tool := NewTranscribeTool(stubTranscriber{text: "unused"})
	result, err := tool.Execute(context.Background(), map[string]interface{}{
		"file_path": path,
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if !strings.Contains(result.Output, "not a supported media format") {
		t.Errorf("unexpected output: %q", result.Output)
	}
}

type stubTranscriber struct {
	text string
	err  error
}

func (s stubTranscriber) Transcribe(context.Context, string) (string, error) {
	return s.text, s.err
}

func TestTranscribeAudioPassesOriginalPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "talk.mp3")
	if err := os.WriteFile(path, []byte("fake-mp3"), 0o644); err != nil {
		t.Fatal(err)
	}

	var gotPath string
	tool := NewTranscribeTool(transcriberFunc(func(_ context.Context, p string) (string, error) {
		gotPath = p
		return "hello world", nil
	}))
	result, err := tool.Execute(context.Background(), map[string]interface{}{
		"file_path": path,
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if result.Output != "hello world" {
		t.Errorf("output = %q", result.Output)
	}
	if gotPath != path {
		t.Errorf("audio files must not be demuxed: transcribed %q, want %q", gotPath, path)
	}
}

func TestTranscribeVideoCleansUpTempAudio(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(path, []byte("fake-mp4"), 0o644); err != nil {
		t.Fatal(err)
	}

	var wavPath string
	tool := NewTranscribeTool(transcriberFunc(func(_ context.Context, p string) (string, error) {
		wavPath = p
		return "", context.DeadlineExceeded
	}))
	tool.extractAudio = func(_ context.Context, _, wav string) error {
		return os.WriteFile(wav, []byte("fake-wav"), 0o644)
	}

	result, err := tool.Execute(context.Background(), map[string]interface{}{
		"file_path": path,
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if !strings.Contains(result.Output, "Error transcribing media") {
		t.Errorf("unexpected output: %q", result.Output)
	}
	// Temp audio is removed even when transcription fails.
	if _, statErr := os.Stat(wavPath); !os.IsNotExist(statErr) {
		t.Errorf("temporary audio file %q was not cleaned up", wavPath)
	}
}

type transcriberFunc func(ctx context.Context, path string) (string, error)

func (f transcriberFunc) Transcribe(ctx context.Context, path string) (string, error) {
	return f(ctx, path)
}

type stubVision struct {
	answer string
	frames int
}

func (v *stubVision) Describe(_ context.Context, _ string, images []agent.ImagePart) (string, error) {
	v.frames = len(images)
	return v.answer, nil
}

func TestImageToolSendsImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo.png")
	if err := os.WriteFile(path, []byte("fake-png"), 0o644); err != nil {
		t.Fatal(err)
	}

	vision := &stubVision{answer: "a red square"}
	result, err := NewImageTool(vision).Execute(context.Background(), map[string]interface{}{
		"file_path": path,
		"question":  "What is shown?",
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if result.Output != "a red square" {
		t.Errorf("output = %q", result.Output)
	}
	if vision.frames != 1 {
		t.Errorf("sent %d images, want 1", vision.frames)
	}
}

func TestImageToolMissingFile(t *testing.T) {
	result, err := NewImageTool(&stubVision{}).Execute(context.Background(), map[string]interface{}{
		"file_path": "/nonexistent/photo.png",
		"question":  "What is shown?",
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if !strings.Contains(result.Output, "Error: File '/nonexistent/photo.png' not found.") {
		t.Errorf("unexpected output: %q", result.Output)
	}
}

func TestImageMIMEFallsBackToJPEG(t *testing.T) {
	if got := imageMIME("scan.tiff"); got != "image/jpeg" {
		t.Errorf("imageMIME(tiff) = %q", got)
	}
	if got := imageMIME("photo.PNG"); got != "image/png" {
		t.Errorf("imageMIME(PNG) = %q", got)
	}
}

func TestVideoToolCapsFrames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(path, []byte("fake-mp4"), 0o644); err != nil {
		t.Fatal(err)
	}

	vision := &stubVision{answer: "people walking"}
	tool := NewVideoTool(vision)
	tool.sampleFrames = func(_ context.Context, _, outDir string) error {
		// Write more frames than the cap allows.
		for i := 0; i < maxVideoFrames+5; i++ {
			name := filepath.Join(outDir, fmt.Sprintf("frame_%03d.jpg", i))
			if err := os.WriteFile(name, []byte("jpg"), 0o644); err != nil {
				return err
			}
		}
		return nil
	}

	result, err := tool.Execute(context.Background(), map[string]interface{}{
		"video_path": path,
		"question":   "What is happening?",
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if result.Output != "people walking" {
		t.Errorf("output = %q", result.Output)
	}
	if vision.frames != maxVideoFrames {
		t.Errorf("sent %d frames, want %d", vision.frames, maxVideoFrames)
	}
}

func TestVideoToolNoFramesExtracted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(path, []byte("fake-mp4"), 0o644); err != nil {
		t.Fatal(err)
	}

	tool := NewVideoTool(&stubVision{})
	tool.sampleFrames = func(context.Context, string, string) error { return nil }

	result, err := tool.Execute(context.Background(), map[string]interface{}{
		"video_path": path,
		"question":   "What is happening?",
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if result.Output != "Error: Could not extract any frames from the video." {
		t.Errorf("unexpected output: %q", result.Output)
	}
}

func TestYouTubeGeneratesOutputPath(t *testing.T) {
	tool := NewYouTubeTool()
	var gotPath string
	tool.download = func(_ context.Context, _, outputPath string) (int64, error) {
		gotPath = outputPath
		return 2048, nil
	}

	result, err := tool.Execute(context.Background(), map[string]interface{}{
		"youtube_url": "https://www.youtube.com/watch?v=example",
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if gotPath == "" || !strings.HasSuffix(gotPath, ".mp4") {
		t.Errorf("generated path = %q, want *.mp4", gotPath)
	}
	if !strings.Contains(result.Output, "Size: 2048 bytes") {
		t.Errorf("output = %q", result.Output)
	}
}

func TestYouTubeDownloadFailure(t *testing.T) {
	tool := NewYouTubeTool()
	tool.download = func(context.Context, string, string) (int64, error) {
		return 0, context.DeadlineExceeded
	}

	result, err := tool.Execute(context.Background(), map[string]interface{}{
		"youtube_url": "https://www.youtube.com/watch?v=example",
		"output_path": filepath.Join(t.TempDir(), "video.mp4"),
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if !strings.Contains(result.Output, "Error downloading video") {
		t.Errorf("unexpected output: %q", result.Output)
	}
}
