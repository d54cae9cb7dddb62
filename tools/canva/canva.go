// Package canva is a client for the Canva design service. The real API
// integration is not wired yet; CreateDesign fabricates identifiers so the
// tool surface can be exercised end to end.
package canva

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/hays/affinity-mcp/observability"
)

// Client talks to the Canva design service.
type Client struct {
	apiKey string
	obs    observability.Observer
}

// NewClient creates a Client. The API key may be empty; it is only needed
// once real API calls are implemented.
func NewClient(apiKey string, obs observability.Observer) *Client {
	return &Client{apiKey: apiKey, obs: obs}
}

// CreateDesignParams is the input for canva.create_design.
type CreateDesignParams struct {
	Title      string  `json:"title"`
	TemplateID *string `json:"template_id,omitempty"`
	Width      *int    `json:"width,omitempty"`
	Height     *int    `json:"height,omitempty"`
}

// CreateDesignResult identifies the created design.
type CreateDesignResult struct {
	DesignID string  `json:"design_id"`
	URL      *string `json:"url,omitempty"`
}

// CreateDesign creates a design. Currently a stub returning a fabricated id.
func (c *Client) CreateDesign(ctx context.Context, p CreateDesignParams) (CreateDesignResult, error) {
	if p.Title == "" {
		return CreateDesignResult{}, errors.New("title is required")
	}

	c.obs.OnEvent(ctx, observability.Event{
		Type:   "canva.create_design",
		Level:  observability.LevelDebug,
		Source: "canva",
		Data:   map[string]any{"title": p.Title},
	})

	return CreateDesignResult{
		DesignID: fmt.Sprintf("demo-%s", uuid.NewString()),
	}, nil
}
