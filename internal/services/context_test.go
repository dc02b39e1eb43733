package services_test

import (
	"context"
	"testing"

	"playshot/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "run-123")
	ctx = services.WithStage(ctx, "capture")
	ctx = services.WithPlaylist(ctx, "モーニング娘。")

	if rid, ok := services.RunIDFromContext(ctx); !ok || rid != "run-123" {
		t.Fatalf("unexpected run id: %v %v", rid, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "capture" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if name, ok := services.PlaylistFromContext(ctx); !ok || name != "モーニング娘。" {
		t.Fatalf("unexpected playlist: %v %v", name, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	if got := services.WithStage(ctx, ""); got != ctx {
		t.Fatal("expected blank stage to return the original context")
	}
	if got := services.WithRunID(ctx, ""); got != ctx {
		t.Fatal("expected blank run id to return the original context")
	}
	if got := services.WithPlaylist(ctx, ""); got != ctx {
		t.Fatal("expected blank playlist to return the original context")
	}
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage on empty context")
	}
}
