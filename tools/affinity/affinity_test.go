package affinity

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/hays/affinity-mcp/bridge"
	"github.com/hays/affinity-mcp/observability"
)

// fakeRunner records scripts and fails on demand.
type fakeRunner struct {
	mu      sync.Mutex
	scripts []string
	opened  [][2]string // app, path

	scriptOut string
	failOn    string // scripts containing this substring fail
	openErr   error
}

func (r *fakeRunner) RunScript(ctx context.Context, script string) (string, error) {
	r.mu.Lock()
	r.scripts = append(r.scripts, script)
	r.mu.Unlock()

	if r.failOn != "" && strings.Contains(script, r.failOn) {
		return "", errors.New("application is not running")
	}
	return r.scriptOut, nil
}

func (r *fakeRunner) OpenWith(ctx context.Context, app, path string) error {
	r.mu.Lock()
	r.opened = append(r.opened, [2]string{app, path})
	r.mu.Unlock()
	return r.openErr
}

func (r *fakeRunner) lastScript() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.scripts) == 0 {
		return ""
	}
	return r.scripts[len(r.scripts)-1]
}

func newTestService(runner bridge.Runner) *Service {
	return NewService(runner, observability.Noop{})
}

func TestDetectApp(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"photo.afphoto", "Affinity Photo"},
		{"logo.AFDESIGN", "Affinity Designer"},
		{"book.afpub", "Affinity Publisher"},
		{"image.png", "Affinity Photo"},
		{"noextension", "Affinity Photo"},
		{"", "Affinity Photo"},
	}

	for _, tt := range tests {
		if got := DetectApp(tt.path); got != tt.want {
			t.Errorf("DetectApp(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestOpenFileInfersApp(t *testing.T) {
	runner := &fakeRunner{}
	svc := newTestService(runner)

	res, err := svc.OpenFile(context.Background(), OpenFileParams{Path: "poster.afdesign"})
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	if !res.Opened || res.App != "Affinity Designer" || res.Path != "poster.afdesign" {
		t.Errorf("unexpected result: %+v", res)
	}
	if !strings.Contains(runner.lastScript(), `"Affinity Designer"`) {
		t.Errorf("script does not target the inferred app:\n%s", runner.lastScript())
	}
}

func TestOpenFileExplicitAppWins(t *testing.T) {
	runner := &fakeRunner{}
	svc := newTestService(runner)

	app := AppPublisher
	res, err := svc.OpenFile(context.Background(), OpenFileParams{Path: "poster.afdesign", App: &app})
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	if res.App != "Affinity Publisher" {
		t.Errorf("app = %q, want explicit selector to win", res.App)
	}
}

func TestOpenFileRequiresPath(t *testing.T) {
	svc := newTestService(&fakeRunner{})
	if _, err := svc.OpenFile(context.Background(), OpenFileParams{}); err == nil {
		t.Fatal("expected error for missing path")
	}
}

func TestOpenFileUnsupportedPlatform(t *testing.T) {
	svc := newTestService(bridge.Unsupported{})

	res, err := svc.OpenFile(context.Background(), OpenFileParams{Path: "a.afphoto"})
	if err != nil {
		t.Fatalf("unsupported platform must not surface an error, got %v", err)
	}
	if res.Opened || res.App != "Unsupported" || res.Path != "a.afphoto" {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestAppUnmarshalRejectsUnknown(t *testing.T) {
	var p OpenFileParams
	err := json.Unmarshal([]byte(`{"path":"x","app":"Gimp"}`), &p)
	if err == nil {
		t.Fatal("expected error for unknown app")
	}
}

func TestCreateNewDefaultsDimensions(t *testing.T) {
	runner := &fakeRunner{}
	svc := newTestService(runner)

	res, err := svc.CreateNew(context.Background(), CreateNewParams{App: AppPhoto})
	if err != nil {
		t.Fatalf("CreateNew failed: %v", err)
	}
	if !res.Created || res.App != "Affinity Photo" {
		t.Errorf("unexpected result: %+v", res)
	}
	if !strings.Contains(runner.lastScript(), "width:1920, height:1080") {
		t.Errorf("defaults not applied:\n%s", runner.lastScript())
	}
}

func TestExportDefaultsQuality(t *testing.T) {
	runner := &fakeRunner{}
	svc := newTestService(runner)

	res, err := svc.Export(context.Background(), ExportParams{Path: "out.png", Format: FormatPNG})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if !res.Exported || res.Path != "out.png" {
		t.Errorf("unexpected result: %+v", res)
	}
	if !strings.Contains(runner.lastScript(), "quality:90") {
		t.Errorf("default quality not applied:\n%s", runner.lastScript())
	}
}

func TestExportFormatUnmarshalRejectsUnknown(t *testing.T) {
	var p ExportParams
	if err := json.Unmarshal([]byte(`{"path":"x","format":"bmp"}`), &p); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestApplyFilterRequiresName(t *testing.T) {
	svc := newTestService(&fakeRunner{})
	if _, err := svc.ApplyFilter(context.Background(), ApplyFilterParams{}); err == nil {
		t.Fatal("expected error for missing filter_name")
	}
}

func TestGetActiveDocument(t *testing.T) {
	runner := &fakeRunner{scriptOut: "draft.afphoto|/work/draft.afphoto"}
	svc := newTestService(runner)

	info, err := svc.GetActiveDocument(context.Background())
	if err != nil {
		t.Fatalf("GetActiveDocument failed: %v", err)
	}
	if !info.IsOpen || info.Name == nil || *info.Name != "draft.afphoto" {
		t.Errorf("unexpected info: %+v", info)
	}
	if info.Path == nil || *info.Path != "/work/draft.afphoto" {
		t.Errorf("unexpected path: %+v", info.Path)
	}
}

func TestGetActiveDocumentNoneOpen(t *testing.T) {
	runner := &fakeRunner{scriptOut: "||"}
	svc := newTestService(runner)

	info, err := svc.GetActiveDocument(context.Background())
	if err != nil {
		t.Fatalf("GetActiveDocument failed: %v", err)
	}
	if info.IsOpen || info.Name != nil || info.Path != nil {
		t.Errorf("expected empty info, got %+v", info)
	}
}

func TestCloseDocument(t *testing.T) {
	svc := newTestService(&fakeRunner{})

	res, err := svc.CloseDocument(context.Background())
	if err != nil {
		t.Fatalf("CloseDocument failed: %v", err)
	}
	if !res.Closed {
		t.Errorf("unexpected result: %+v", res)
	}
}
