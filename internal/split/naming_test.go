package split_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"playshot/internal/split"
)

func TestBandPath(t *testing.T) {
	cases := []struct {
		original string
		index    int
		want     string
	}{
		{"images/jazz_2.png", 0, "images/jazz_20.png"},
		{"images/jazz_2.png", 11, "images/jazz_211.png"},
		{"/tmp/top_2_hits_2.png", 1, "/tmp/top_2_hits_21.png"},
		{"images/odd.png", 3, "images/odd_23.png"},
	}
	for _, c := range cases {
		if got := split.BandPath(c.original, "_2", c.index); got != c.want {
			t.Fatalf("BandPath(%q, %d) = %q, want %q", c.original, c.index, got, c.want)
		}
	}
}

func TestCaptureAndBandNames(t *testing.T) {
	if !split.IsCapture("jazz_2.png", "_2") {
		t.Fatal("jazz_2.png should be a capture")
	}
	for _, name := range []string{"_2.png", "jazz_20.png", "jazz_2.jpg", "jazz.png"} {
		if split.IsCapture(name, "_2") {
			t.Fatalf("%s should not be a capture", name)
		}
	}
	for _, name := range []string{"jazz_20.png", "jazz_2117.png"} {
		if !split.IsBand(name, "_2") {
			t.Fatalf("%s should be a band", name)
		}
	}
	for _, name := range []string{"jazz_2.png", "jazz0.png", "_20.png", "jazz_20.jpg"} {
		if split.IsBand(name, "_2") {
			t.Fatalf("%s should not be a band", name)
		}
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b_2.png", "a_2.png", "a_20.png", "notes.txt", "c.png"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "d_2.png"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := split.Discover(dir, "_2")
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	want := []string{filepath.Join(dir, "a_2.png"), filepath.Join(dir, "b_2.png")}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Discover = %v, want %v", got, want)
	}

	if _, err := split.Discover(filepath.Join(dir, "missing"), "_2"); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestBandsOf(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"jazz_2.png", "jazz_21.png", "jazz_20.png", "jazz_2_20.png", "jazz_2x.png", "jazz_20.jpg", "rock_20.png"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := split.BandsOf(filepath.Join(dir, "jazz_2.png"), "_2")
	if err != nil {
		t.Fatalf("BandsOf: %v", err)
	}
	want := []string{filepath.Join(dir, "jazz_20.png"), filepath.Join(dir, "jazz_21.png")}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("BandsOf = %v, want %v", got, want)
	}

	got, err = split.BandsOf(filepath.Join(dir, "jazz_2_2.png"), "_2")
	if err != nil {
		t.Fatalf("BandsOf: %v", err)
	}
	if want := []string{filepath.Join(dir, "jazz_2_20.png")}; !reflect.DeepEqual(got, want) {
		t.Fatalf("BandsOf = %v, want %v", got, want)
	}
}
