package canva

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/hays/affinity-mcp/observability"
)

func TestCreateDesignReturnsDemoID(t *testing.T) {
	c := NewClient("", observability.Noop{})

	res, err := c.CreateDesign(context.Background(), CreateDesignParams{Title: "poster"})
	if err != nil {
		t.Fatalf("CreateDesign failed: %v", err)
	}

	if !strings.HasPrefix(res.DesignID, "demo-") {
		t.Errorf("design id %q lacks the demo prefix", res.DesignID)
	}
	if _, err := uuid.Parse(strings.TrimPrefix(res.DesignID, "demo-")); err != nil {
		t.Errorf("design id %q is not uuid-based: %v", res.DesignID, err)
	}
}

func TestCreateDesignIDsAreDistinct(t *testing.T) {
	c := NewClient("key", observability.Noop{})

	a, err := c.CreateDesign(context.Background(), CreateDesignParams{Title: "a"})
	if err != nil {
		t.Fatalf("CreateDesign failed: %v", err)
	}
	b, err := c.CreateDesign(context.Background(), CreateDesignParams{Title: "b"})
	if err != nil {
		t.Fatalf("CreateDesign failed: %v", err)
	}
	if a.DesignID == b.DesignID {
		t.Errorf("two designs share id %q", a.DesignID)
	}
}

func TestCreateDesignRequiresTitle(t *testing.T) {
	c := NewClient("", observability.Noop{})
	if _, err := c.CreateDesign(context.Background(), CreateDesignParams{}); err == nil {
		t.Fatal("expected error for missing title")
	}
}
