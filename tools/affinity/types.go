package affinity

import (
	"fmt"
	"strings"

	"github.com/hays/affinity-mcp/batch"
)

// App selects which Affinity application performs an action.
type App string

const (
	AppPhoto     App = "Photo"
	AppDesigner  App = "Designer"
	AppPublisher App = "Publisher"
)

// UnmarshalJSON rejects values outside the fixed application set so that a
// bad selector fails before any action runs.
func (a *App) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch App(s) {
	case AppPhoto, AppDesigner, AppPublisher:
		*a = App(s)
		return nil
	default:
		return fmt.Errorf("unknown Affinity app %q (must be Photo, Designer, or Publisher)", s)
	}
}

// DisplayName returns the application name used for scripting.
func (a App) DisplayName() string {
	return "Affinity " + string(a)
}

// DetectApp infers the target application from a file's extension. It is
// pure and total; unrecognized or missing extensions fall back to Photo.
func DetectApp(path string) string {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".afphoto"):
		return AppPhoto.DisplayName()
	case strings.HasSuffix(lower, ".afdesign"):
		return AppDesigner.DisplayName()
	case strings.HasSuffix(lower, ".afpub"):
		return AppPublisher.DisplayName()
	default:
		return AppPhoto.DisplayName()
	}
}

// ExportFormat is the closed set of supported export formats.
type ExportFormat string

const (
	FormatPDF  ExportFormat = "pdf"
	FormatPNG  ExportFormat = "png"
	FormatJPG  ExportFormat = "jpg"
	FormatTIFF ExportFormat = "tiff"
	FormatSVG  ExportFormat = "svg"
)

func (f *ExportFormat) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch ExportFormat(s) {
	case FormatPDF, FormatPNG, FormatJPG, FormatTIFF, FormatSVG:
		*f = ExportFormat(s)
		return nil
	default:
		return fmt.Errorf("unknown export format %q (must be pdf, png, jpg, tiff, or svg)", s)
	}
}

// OpenFileParams is the input for affinity.open_file.
type OpenFileParams struct {
	Path string `json:"path"`
	App  *App   `json:"app,omitempty"`
}

// OpenFileResult reports whether a file was opened and by which app.
type OpenFileResult struct {
	Opened bool   `json:"opened"`
	App    string `json:"app"`
	Path   string `json:"path"`
}

// CreateNewParams is the input for affinity.create_new.
type CreateNewParams struct {
	App    App  `json:"app"`
	Width  *int `json:"width,omitempty"`
	Height *int `json:"height,omitempty"`
}

// CreateNewResult reports document creation.
type CreateNewResult struct {
	Created bool   `json:"created"`
	App     string `json:"app"`
}

// ExportParams is the input for affinity.export.
type ExportParams struct {
	Path    string       `json:"path"`
	Format  ExportFormat `json:"format"`
	Quality *int         `json:"quality,omitempty"`
}

// ExportResult reports an export.
type ExportResult struct {
	Exported bool   `json:"exported"`
	Path     string `json:"path"`
}

// ApplyFilterParams is the input for affinity.apply_filter.
type ApplyFilterParams struct {
	FilterName string `json:"filter_name"`
	Intensity  *int   `json:"intensity,omitempty"`
}

// ApplyFilterResult reports a filter application.
type ApplyFilterResult struct {
	Applied    bool   `json:"applied"`
	FilterName string `json:"filter_name"`
}

// ActiveDocumentInfo describes the frontmost document, if any.
type ActiveDocumentInfo struct {
	IsOpen bool    `json:"is_open"`
	Name   *string `json:"name,omitempty"`
	Path   *string `json:"path,omitempty"`
}

// CloseDocumentResult reports whether the front document was closed.
type CloseDocumentResult struct {
	Closed bool `json:"closed"`
}

// BatchOpenFilesParams is the input for affinity.batch_open_files. Paths
// beyond the fan-out limit are silently dropped.
type BatchOpenFilesParams struct {
	Paths []string `json:"paths"`
	App   *App     `json:"app,omitempty"`
}

// BatchOpenFilesResult aggregates per-file open outcomes in input order.
type BatchOpenFilesResult = batch.Result[OpenFileResult]

// BatchExportParams is the input for affinity.batch_export. Entries beyond
// the fan-out limit are silently dropped.
type BatchExportParams struct {
	Exports []ExportParams `json:"exports"`
}

// BatchExportResult aggregates per-export outcomes in input order.
type BatchExportResult = batch.Result[ExportResult]

// DrawPikachuParams is the input for affinity.draw_pikachu.
type DrawPikachuParams struct {
	OutputPath *string `json:"output_path,omitempty"`
	Width      *int    `json:"width,omitempty"`
	Height     *int    `json:"height,omitempty"`
}

// DrawPikachuResult reports the generated file and the app it was opened in.
type DrawPikachuResult struct {
	Created  bool   `json:"created"`
	FilePath string `json:"file_path"`
	App      string `json:"app"`
}
