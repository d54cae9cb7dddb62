package affinity

import (
	"context"

	"github.com/hays/affinity-mcp/batch"
	"github.com/hays/affinity-mcp/observability"
)

// FanOutLimit is the fixed maximum number of concurrently executing items
// per batch tool call.
const FanOutLimit = batch.DefaultLimit

// BatchOpenFiles opens up to FanOutLimit files concurrently and aggregates
// the per-file outcomes in input order. A file that fails to open becomes a
// failure slot echoing its path; it never aborts its siblings. An empty
// batch is a valid batch; it aggregates to zero counts and no results.
func (s *Service) BatchOpenFiles(ctx context.Context, p BatchOpenFilesParams) (BatchOpenFilesResult, error) {
	res := batch.Run(ctx, p.Paths, FanOutLimit,
		func(ctx context.Context, path string) (OpenFileResult, error) {
			return s.OpenFile(ctx, OpenFileParams{Path: path, App: p.App})
		},
		func(path string, err error) OpenFileResult {
			s.obs.OnEvent(ctx, observability.Event{
				Type:   "affinity.batch_open_item_failed",
				Level:  observability.LevelError,
				Source: "affinity",
				Data:   map[string]any{"path": path, "error": err.Error()},
			})
			return OpenFileResult{Opened: false, App: "Error", Path: path}
		},
		func(r OpenFileResult) bool { return r.Opened },
	)

	s.obs.OnEvent(ctx, observability.Event{
		Type:   "affinity.batch_open_files",
		Level:  observability.LevelInfo,
		Source: "affinity",
		Data:   map[string]any{"succeeded": res.SuccessCount, "failed": res.FailureCount},
	})

	return res, nil
}

// BatchExport runs up to FanOutLimit exports concurrently and aggregates the
// per-export outcomes in input order.
func (s *Service) BatchExport(ctx context.Context, p BatchExportParams) (BatchExportResult, error) {
	res := batch.Run(ctx, p.Exports, FanOutLimit,
		func(ctx context.Context, ep ExportParams) (ExportResult, error) {
			return s.Export(ctx, ep)
		},
		func(ep ExportParams, err error) ExportResult {
			s.obs.OnEvent(ctx, observability.Event{
				Type:   "affinity.batch_export_item_failed",
				Level:  observability.LevelError,
				Source: "affinity",
				Data:   map[string]any{"path": ep.Path, "error": err.Error()},
			})
			return ExportResult{Exported: false, Path: ep.Path}
		},
		func(r ExportResult) bool { return r.Exported },
	)

	s.obs.OnEvent(ctx, observability.Event{
		Type:   "affinity.batch_export",
		Level:  observability.LevelInfo,
		Source: "affinity",
		Data:   map[string]any{"succeeded": res.SuccessCount, "failed": res.FailureCount},
	})

	return res, nil
}
