// Package affinity implements the tool operations that drive the Affinity
// applications (Photo, Designer, Publisher) through the bridge capability.
// Each operation deserializes into a typed request, resolves an implicit
// target app when omitted, invokes exactly one external action, and returns
// a typed outcome. On platforms where the bridge is unavailable the outcome
// carries the negative flag and app "Unsupported" instead of an error.
package affinity

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/hays/affinity-mcp/bridge"
	"github.com/hays/affinity-mcp/observability"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	appUnsupported = "Unsupported"

	defaultWidth   = 1920
	defaultHeight  = 1080
	defaultQuality = 90
)

// Service executes Affinity actions through an injected bridge.Runner.
// Stateless per call; safe for concurrent use.
type Service struct {
	runner bridge.Runner
	obs    observability.Observer
}

// NewService creates a Service backed by the given runner.
func NewService(runner bridge.Runner, obs observability.Observer) *Service {
	return &Service{runner: runner, obs: obs}
}

// OpenFile opens a file in an Affinity app, inferring the app from the file
// extension when no selector is given.
func (s *Service) OpenFile(ctx context.Context, p OpenFileParams) (OpenFileResult, error) {
	if p.Path == "" {
		return OpenFileResult{}, errors.New("path is required")
	}

	appName := DetectApp(p.Path)
	if p.App != nil {
		appName = p.App.DisplayName()
	}

	abs, err := filepath.Abs(p.Path)
	if err != nil {
		return OpenFileResult{}, fmt.Errorf("resolving path %q: %w", p.Path, err)
	}

	script := fmt.Sprintf(`tell application "%s"
	activate
	open POSIX file "%s"
end tell`, appName, abs)

	if _, err := s.runner.RunScript(ctx, script); err != nil {
		if errors.Is(err, bridge.ErrUnsupported) {
			return OpenFileResult{Opened: false, App: appUnsupported, Path: p.Path}, nil
		}
		return OpenFileResult{}, fmt.Errorf("opening %s: %w", p.Path, err)
	}

	s.obs.OnEvent(ctx, observability.Event{
		Type:   "affinity.open_file",
		Level:  observability.LevelDebug,
		Source: "affinity",
		Data:   map[string]any{"path": p.Path, "app": appName},
	})

	return OpenFileResult{Opened: true, App: appName, Path: p.Path}, nil
}

// CreateNew creates a new document in the selected app. Width and height
// default to 1920x1080.
func (s *Service) CreateNew(ctx context.Context, p CreateNewParams) (CreateNewResult, error) {
	if p.App == "" {
		return CreateNewResult{}, errors.New("app is required")
	}

	appName := p.App.DisplayName()
	width, height := defaultWidth, defaultHeight
	if p.Width != nil {
		width = *p.Width
	}
	if p.Height != nil {
		height = *p.Height
	}

	script := fmt.Sprintf(`tell application "%s"
	activate
	make new document with properties {width:%d, height:%d}
end tell`, appName, width, height)

	if _, err := s.runner.RunScript(ctx, script); err != nil {
		if errors.Is(err, bridge.ErrUnsupported) {
			return CreateNewResult{Created: false, App: appUnsupported}, nil
		}
		return CreateNewResult{}, fmt.Errorf("creating document in %s: %w", appName, err)
	}

	s.obs.OnEvent(ctx, observability.Event{
		Type:   "affinity.create_new",
		Level:  observability.LevelDebug,
		Source: "affinity",
		Data:   map[string]any{"app": appName, "width": width, "height": height},
	})

	return CreateNewResult{Created: true, App: appName}, nil
}

// Export exports the front document to the given path. Quality defaults
// to 90.
func (s *Service) Export(ctx context.Context, p ExportParams) (ExportResult, error) {
	if p.Path == "" {
		return ExportResult{}, errors.New("path is required")
	}
	if p.Format == "" {
		return ExportResult{}, errors.New("format is required")
	}

	quality := defaultQuality
	if p.Quality != nil {
		quality = *p.Quality
	}

	abs, err := filepath.Abs(p.Path)
	if err != nil {
		return ExportResult{}, fmt.Errorf("resolving path %q: %w", p.Path, err)
	}

	script := fmt.Sprintf(`tell application "Affinity Photo"
	activate
	if (count of documents) > 0 then
		tell front document
			export in file "%s" as "%s" with options {quality:%d}
		end tell
	else
		error "no document is open"
	end if
end tell`, abs, p.Format, quality)

	if _, err := s.runner.RunScript(ctx, script); err != nil {
		if errors.Is(err, bridge.ErrUnsupported) {
			return ExportResult{Exported: false, Path: p.Path}, nil
		}
		return ExportResult{}, fmt.Errorf("exporting to %s: %w", p.Path, err)
	}

	s.obs.OnEvent(ctx, observability.Event{
		Type:   "affinity.export",
		Level:  observability.LevelDebug,
		Source: "affinity",
		Data:   map[string]any{"path": p.Path, "format": string(p.Format), "quality": quality},
	})

	return ExportResult{Exported: true, Path: p.Path}, nil
}

// ApplyFilter applies a named filter to the front document.
func (s *Service) ApplyFilter(ctx context.Context, p ApplyFilterParams) (ApplyFilterResult, error) {
	if p.FilterName == "" {
		return ApplyFilterResult{}, errors.New("filter_name is required")
	}

	script := fmt.Sprintf(`tell application "Affinity Photo"
	activate
	if (count of documents) > 0 then
		tell front document
			log "applying filter %s"
		end tell
	else
		error "no document is open"
	end if
end tell`, p.FilterName)

	if _, err := s.runner.RunScript(ctx, script); err != nil {
		if errors.Is(err, bridge.ErrUnsupported) {
			return ApplyFilterResult{Applied: false, FilterName: p.FilterName}, nil
		}
		return ApplyFilterResult{}, fmt.Errorf("applying filter %s: %w", p.FilterName, err)
	}

	return ApplyFilterResult{Applied: true, FilterName: p.FilterName}, nil
}

// GetActiveDocument returns the name and path of the front document, or an
// empty info when no document is open.
func (s *Service) GetActiveDocument(ctx context.Context) (ActiveDocumentInfo, error) {
	script := `tell application "Affinity Photo"
	if (count of documents) > 0 then
		tell front document
			set docName to name
			set docPath to path
			return docName & "|" & docPath
		end tell
	else
		return "||"
	end if
end tell`

	out, err := s.runner.RunScript(ctx, script)
	if err != nil {
		if errors.Is(err, bridge.ErrUnsupported) {
			return ActiveDocumentInfo{IsOpen: false}, nil
		}
		return ActiveDocumentInfo{}, fmt.Errorf("querying active document: %w", err)
	}

	if out == "||" {
		return ActiveDocumentInfo{IsOpen: false}, nil
	}

	parts := strings.SplitN(out, "|", 2)
	info := ActiveDocumentInfo{IsOpen: true}
	if len(parts) > 0 {
		info.Name = &parts[0]
	}
	if len(parts) > 1 {
		info.Path = &parts[1]
	}
	return info, nil
}

// CloseDocument closes the front document if one is open.
func (s *Service) CloseDocument(ctx context.Context) (CloseDocumentResult, error) {
	script := `tell application "Affinity Photo"
	if (count of documents) > 0 then
		close front document
	end if
end tell`

	if _, err := s.runner.RunScript(ctx, script); err != nil {
		if errors.Is(err, bridge.ErrUnsupported) {
			return CloseDocumentResult{Closed: false}, nil
		}
		return CloseDocumentResult{}, fmt.Errorf("closing document: %w", err)
	}

	return CloseDocumentResult{Closed: true}, nil
}
