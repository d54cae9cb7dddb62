package server

import (
	"context"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/hays/affinity-mcp/tools/affinity"
	"github.com/hays/affinity-mcp/tools/canva"
)

// typedHandler deserializes raw arguments into the tool's request shape
// before invoking the operation. A shape mismatch short-circuits here,
// before any external action runs.
func typedHandler[P any](fn func(context.Context, P) (any, error)) ToolHandler {
	return func(ctx context.Context, raw jsoniter.RawMessage) (any, error) {
		var p P
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &p); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}
		}
		return fn(ctx, p)
	}
}

// DefaultCatalog is the compiled-in tool catalog. Adding a tool is a
// deployment-time change; the returned order is the tools/list order.
func DefaultCatalog(svc *affinity.Service, designs *canva.Client) []Entry {
	appProperty := map[string]any{
		"type":        "string",
		"enum":        []string{"Photo", "Designer", "Publisher"},
		"description": "Affinity app to use (inferred from the file extension when omitted)",
	}
	formatProperty := map[string]any{
		"type":        "string",
		"enum":        []string{"pdf", "png", "jpg", "tiff", "svg"},
		"description": "Export format",
	}
	qualityProperty := map[string]any{
		"type":        "number",
		"minimum":     1,
		"maximum":     100,
		"description": "Quality (1-100, for image formats; default 90)",
	}

	return []Entry{
		{
			Tool: Descriptor{
				Name:        "affinity.open_file",
				Description: "Open a file in an Affinity application.",
				InputSchema: InputSchema{
					Type: "object",
					Properties: map[string]any{
						"path": map[string]any{
							"type":        "string",
							"description": "Path of the file to open (absolute or relative)",
						},
						"app": appProperty,
					},
					Required: []string{"path"},
				},
			},
			Handler: typedHandler(func(ctx context.Context, p affinity.OpenFileParams) (any, error) {
				res, err := svc.OpenFile(ctx, p)
				if err != nil {
					return nil, err
				}
				return res, nil
			}),
		},
		{
			Tool: Descriptor{
				Name:        "affinity.create_new",
				Description: "Create a new Affinity document.",
				InputSchema: InputSchema{
					Type: "object",
					Properties: map[string]any{
						"app": map[string]any{
							"type":        "string",
							"enum":        []string{"Photo", "Designer", "Publisher"},
							"description": "Affinity app to use",
						},
						"width": map[string]any{
							"type":        "number",
							"description": "Width in pixels (default 1920)",
						},
						"height": map[string]any{
							"type":        "number",
							"description": "Height in pixels (default 1080)",
						},
					},
					Required: []string{"app"},
				},
			},
			Handler: typedHandler(func(ctx context.Context, p affinity.CreateNewParams) (any, error) {
				res, err := svc.CreateNew(ctx, p)
				if err != nil {
					return nil, err
				}
				return res, nil
			}),
		},
		{
			Tool: Descriptor{
				Name:        "affinity.export",
				Description: "Export the currently open Affinity document.",
				InputSchema: InputSchema{
					Type: "object",
					Properties: map[string]any{
						"path": map[string]any{
							"type":        "string",
							"description": "Destination file path",
						},
						"format":  formatProperty,
						"quality": qualityProperty,
					},
					Required: []string{"path", "format"},
				},
			},
			Handler: typedHandler(func(ctx context.Context, p affinity.ExportParams) (any, error) {
				res, err := svc.Export(ctx, p)
				if err != nil {
					return nil, err
				}
				return res, nil
			}),
		},
		{
			Tool: Descriptor{
				Name:        "affinity.apply_filter",
				Description: "Apply a filter to the currently open image.",
				InputSchema: InputSchema{
					Type: "object",
					Properties: map[string]any{
						"filter_name": map[string]any{
							"type":        "string",
							"description": "Filter name (e.g. blur, sharpen, desaturate)",
						},
						"intensity": map[string]any{
							"type":        "number",
							"minimum":     0,
							"maximum":     100,
							"description": "Intensity (0-100)",
						},
					},
					Required: []string{"filter_name"},
				},
			},
			Handler: typedHandler(func(ctx context.Context, p affinity.ApplyFilterParams) (any, error) {
				res, err := svc.ApplyFilter(ctx, p)
				if err != nil {
					return nil, err
				}
				return res, nil
			}),
		},
		{
			Tool: Descriptor{
				Name:        "affinity.get_active_document",
				Description: "Get information about the currently active document.",
				InputSchema: InputSchema{
					Type:       "object",
					Properties: map[string]any{},
				},
			},
			Handler: typedHandler(func(ctx context.Context, _ struct{}) (any, error) {
				res, err := svc.GetActiveDocument(ctx)
				if err != nil {
					return nil, err
				}
				return res, nil
			}),
		},
		{
			Tool: Descriptor{
				Name:        "affinity.close_document",
				Description: "Close the currently open document.",
				InputSchema: InputSchema{
					Type:       "object",
					Properties: map[string]any{},
				},
			},
			Handler: typedHandler(func(ctx context.Context, _ struct{}) (any, error) {
				res, err := svc.CloseDocument(ctx)
				if err != nil {
					return nil, err
				}
				return res, nil
			}),
		},
		{
			Tool: Descriptor{
				Name:        "affinity.batch_open_files",
				Description: "Open multiple files concurrently (up to 16 at a time).",
				InputSchema: InputSchema{
					Type: "object",
					Properties: map[string]any{
						"paths": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"maxItems":    affinity.FanOutLimit,
							"description": "Paths of the files to open (at most 16)",
						},
						"app": appProperty,
					},
					Required: []string{"paths"},
				},
			},
			Handler: typedHandler(func(ctx context.Context, p affinity.BatchOpenFilesParams) (any, error) {
				res, err := svc.BatchOpenFiles(ctx, p)
				if err != nil {
					return nil, err
				}
				return res, nil
			}),
		},
		{
			Tool: Descriptor{
				Name:        "affinity.batch_export",
				Description: "Export multiple documents concurrently (up to 16 at a time).",
				InputSchema: InputSchema{
					Type: "object",
					Properties: map[string]any{
						"exports": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"path": map[string]any{
										"type":        "string",
										"description": "Destination file path",
									},
									"format":  formatProperty,
									"quality": qualityProperty,
								},
								"required": []string{"path", "format"},
							},
							"maxItems":    affinity.FanOutLimit,
							"description": "Export settings (at most 16)",
						},
					},
					Required: []string{"exports"},
				},
			},
			Handler: typedHandler(func(ctx context.Context, p affinity.BatchExportParams) (any, error) {
				res, err := svc.BatchExport(ctx, p)
				if err != nil {
					return nil, err
				}
				return res, nil
			}),
		},
		{
			Tool: Descriptor{
				Name:        "affinity.draw_pikachu",
				Description: "Draw a Pikachu SVG and open it in Affinity.",
				InputSchema: InputSchema{
					Type: "object",
					Properties: map[string]any{
						"output_path": map[string]any{
							"type":        "string",
							"description": "Output file path (a temp file when omitted)",
						},
						"width": map[string]any{
							"type":        "number",
							"description": "Canvas width (default 800)",
						},
						"height": map[string]any{
							"type":        "number",
							"description": "Canvas height (default 800)",
						},
					},
				},
			},
			Handler: typedHandler(func(ctx context.Context, p affinity.DrawPikachuParams) (any, error) {
				res, err := svc.DrawPikachu(ctx, p)
				if err != nil {
					return nil, err
				}
				return res, nil
			}),
		},
		{
			Tool: Descriptor{
				Name:        "canva.create_design",
				Description: "Create a design in Canva.",
				InputSchema: InputSchema{
					Type: "object",
					Properties: map[string]any{
						"title":       map[string]any{"type": "string"},
						"template_id": map[string]any{"type": "string"},
						"width":       map[string]any{"type": "number"},
						"height":      map[string]any{"type": "number"},
					},
					Required: []string{"title"},
				},
			},
			Handler: typedHandler(func(ctx context.Context, p canva.CreateDesignParams) (any, error) {
				res, err := designs.CreateDesign(ctx, p)
				if err != nil {
					return nil, err
				}
				return res, nil
			}),
		},
	}
}
