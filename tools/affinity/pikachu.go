package affinity

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hays/affinity-mcp/bridge"
	"github.com/hays/affinity-mcp/observability"
)

const defaultCanvas = 800

// DrawPikachu generates a Pikachu SVG, writes it to the output path (a temp
// file when omitted), and opens it in an Affinity app.
func (s *Service) DrawPikachu(ctx context.Context, p DrawPikachuParams) (DrawPikachuResult, error) {
	width, height := defaultCanvas, defaultCanvas
	if p.Width != nil {
		width = *p.Width
	}
	if p.Height != nil {
		height = *p.Height
	}

	outputPath := filepath.Join(os.TempDir(), "pikachu.svg")
	if p.OutputPath != nil && *p.OutputPath != "" {
		outputPath = *p.OutputPath
	}

	svg := pikachuSVG(width, height)
	if err := os.WriteFile(outputPath, []byte(svg), 0644); err != nil {
		return DrawPikachuResult{}, fmt.Errorf("writing SVG to %s: %w", outputPath, err)
	}

	abs, err := filepath.Abs(outputPath)
	if err != nil {
		abs = outputPath
	}

	// Photo first, Designer as fallback.
	if err := s.runner.OpenWith(ctx, "Affinity Photo", abs); err != nil {
		if errors.Is(err, bridge.ErrUnsupported) {
			return DrawPikachuResult{Created: false, FilePath: "", App: appUnsupported}, nil
		}
		if err := s.runner.OpenWith(ctx, "Affinity Designer", abs); err != nil {
			return DrawPikachuResult{}, fmt.Errorf("opening %s: %w", outputPath, err)
		}
	}

	s.obs.OnEvent(ctx, observability.Event{
		Type:   "affinity.draw_pikachu",
		Level:  observability.LevelInfo,
		Source: "affinity",
		Data:   map[string]any{"path": outputPath, "width": width, "height": height},
	})

	return DrawPikachuResult{Created: true, FilePath: outputPath, App: "Affinity Photo/Designer"}, nil
}

// pikachuSVG draws the figure procedurally, scaled to the canvas. Pure and
// side-effect free.
func pikachuSVG(width, height int) string {
	cx := float64(width) / 2
	cy := float64(height) / 2
	s := float64(min(width, height)) / 800

	const (
		yellow = "#FFD700"
		white  = "#FFFFFF"
		black  = "#000000"
		pink   = "#FF69B4"
	)

	var b strings.Builder
	fmt.Fprintf(&b, `<?xml version="1.0" encoding="UTF-8"?>`+"\n")
	fmt.Fprintf(&b, `<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`+"\n", width, height)

	// background
	fmt.Fprintf(&b, `  <rect width="%d" height="%d" fill="%s"/>`+"\n", width, height, white)

	// body and head
	fmt.Fprintf(&b, `  <ellipse cx="%.1f" cy="%.1f" rx="%.1f" ry="%.1f" fill="%s" stroke="%s" stroke-width="%.1f"/>`+"\n",
		cx, cy+50*s, 180*s, 200*s, yellow, black, 3*s)
	fmt.Fprintf(&b, `  <circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" stroke="%s" stroke-width="%.1f"/>`+"\n",
		cx, cy-80*s, 150*s, yellow, black, 3*s)

	// ears with black tips
	for _, side := range []float64{-1, 1} {
		fmt.Fprintf(&b, `  <polygon points="%.1f,%.1f %.1f,%.1f %.1f,%.1f" fill="%s" stroke="%s" stroke-width="%.1f"/>`+"\n",
			cx+side*120*s, cy-180*s, cx+side*60*s, cy-250*s, cx+side*10*s, cy-200*s, yellow, black, 3*s)
		fmt.Fprintf(&b, `  <polygon points="%.1f,%.1f %.1f,%.1f %.1f,%.1f" fill="%s"/>`+"\n",
			cx+side*95*s, cy-210*s, cx+side*60*s, cy-250*s, cx+side*25*s, cy-210*s, black)
	}

	// eyes
	for _, side := range []float64{-1, 1} {
		fmt.Fprintf(&b, `  <circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" stroke="%s" stroke-width="%.1f"/>`+"\n",
			cx+side*50*s, cy-50*s, 40*s, white, black, 3*s)
		fmt.Fprintf(&b, `  <circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`+"\n",
			cx+side*40*s, cy-50*s, 25*s, black)
	}

	// nose and mouth
	fmt.Fprintf(&b, `  <polygon points="%.1f,%.1f %.1f,%.1f %.1f,%.1f" fill="%s"/>`+"\n",
		cx, cy-10*s, cx-8*s, cy+5*s, cx+8*s, cy+5*s, black)
	fmt.Fprintf(&b, `  <path d="M %.1f,%.1f Q %.1f,%.1f %.1f,%.1f" stroke="%s" stroke-width="%.1f" fill="none"/>`+"\n",
		cx-30*s, cy+20*s, cx, cy+50*s, cx+30*s, cy+20*s, black, 3*s)

	// cheeks
	for _, side := range []float64{-1, 1} {
		fmt.Fprintf(&b, `  <circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" opacity="0.8"/>`+"\n",
			cx+side*130*s, cy+30*s, 25*s, pink)
	}

	// hands and feet
	for _, side := range []float64{-1, 1} {
		fmt.Fprintf(&b, `  <ellipse cx="%.1f" cy="%.1f" rx="%.1f" ry="%.1f" fill="%s" stroke="%s" stroke-width="%.1f"/>`+"\n",
			cx+side*180*s, cy+80*s, 35*s, 50*s, yellow, black, 3*s)
	}
	for _, side := range []float64{-1, 1} {
		fmt.Fprintf(&b, `  <ellipse cx="%.1f" cy="%.1f" rx="%.1f" ry="%.1f" fill="%s" stroke="%s" stroke-width="%.1f"/>`+"\n",
			cx+side*80*s, cy+220*s, 40*s, 60*s, yellow, black, 3*s)
	}

	// tail
	fmt.Fprintf(&b, `  <path d="M %.1f,%.1f Q %.1f,%.1f %.1f,%.1f Q %.1f,%.1f %.1f,%.1f" fill="%s" stroke="%s" stroke-width="%.1f"/>`+"\n",
		cx-180*s, cy+100*s, cx-220*s, cy+50*s, cx-200*s, cy-20*s, cx-180*s, cy-50*s, cx-150*s, cy-30*s, yellow, black, 3*s)

	b.WriteString("</svg>\n")
	return b.String()
}
