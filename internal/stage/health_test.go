package stage_test

import (
	"testing"

	"playshot/internal/stage"
)

func TestHealthConstructors(t *testing.T) {
	ok := stage.Healthy("capture")
	if !ok.Ready || ok.Name != "capture" || ok.Detail != "" {
		t.Fatalf("unexpected healthy record: %+v", ok)
	}
	bad := stage.Unhealthy("publish", "bucket unreachable")
	if bad.Ready || bad.Detail != "bucket unreachable" {
		t.Fatalf("unexpected unhealthy record: %+v", bad)
	}
}

func TestHealthString(t *testing.T) {
	cases := map[string]stage.Health{
		"split: ready":              stage.Healthy("split"),
		"capture: chrome not found": stage.Unhealthy("capture", "chrome not found"),
		"publish: not ready":        stage.Unhealthy("publish", ""),
	}
	for want, h := range cases {
		if got := h.String(); got != want {
			t.Fatalf("String() = %q, want %q", got, want)
		}
	}
}
