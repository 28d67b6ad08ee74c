package kbin

import (
	"context"
	"errors"
	"testing"

	"github.com/glabrego/lemmy-cli/internal/api"
)

func TestEveryCallIsUnsupported(t *testing.T) {
	c := New("https://kbin.example")
	ctx := context.Background()

	if _, err := c.GetSite(ctx); !errors.Is(err, api.ErrUnsupportedFlavor) {
		t.Fatalf("GetSite: expected ErrUnsupportedFlavor, got %v", err)
	}
	if _, err := c.Login(ctx, api.LoginForm{}); !errors.Is(err, api.ErrUnsupportedFlavor) {
		t.Fatalf("Login: expected ErrUnsupportedFlavor, got %v", err)
	}
	if _, err := c.LikePost(ctx, 1, 1); !errors.Is(err, api.ErrUnsupportedFlavor) {
		t.Fatalf("LikePost: expected ErrUnsupportedFlavor, got %v", err)
	}
	if err := c.MarkPostAsRead(ctx, 1, true); !errors.Is(err, api.ErrUnsupportedFlavor) {
		t.Fatalf("MarkPostAsRead: expected ErrUnsupportedFlavor, got %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
}
