// Package imagefile tests cover payload decoding and file naming.
package imagefile

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/spf13/afero"
)

// TestDecodeBase64 handles bare payloads and browser data URLs.
func TestDecodeBase64(t *testing.T) {
	raw := base64.StdEncoding.EncodeToString([]byte("png-bytes"))
	for _, in := range []string{raw, "data:image/png;base64," + raw, "  " + raw + "\n"} {
		got, err := DecodeBase64(in)
		if err != nil {
			t.Fatalf("DecodeBase64(%q): %v", in, err)
		}
		if string(got) != "png-bytes" {
			t.Fatalf("got %q", got)
		}
	}
	if _, err := DecodeBase64("!!!"); err == nil {
		t.Fatalf("expected decode error")
	}
}

// TestSaveAvoidsOverwrite confirms an existing name gets a suffix
// instead of being clobbered.
func TestSaveAvoidsOverwrite(t *testing.T) {
	fs := afero.NewMemMapFs()
	p1, err := Save(fs, "/out", "image_7.png", []byte("a"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if p1 != "/out/image_7.png" {
		t.Fatalf("unexpected path %q", p1)
	}
	p2, err := Save(fs, "/out", "image_7.png", []byte("b"))
	if err != nil {
		t.Fatalf("Save(second): %v", err)
	}
	if p2 != "/out/image_7-1.png" {
		t.Fatalf("unexpected path %q", p2)
	}
	b, _ := afero.ReadFile(fs, p1)
	if string(b) != "a" {
		t.Fatalf("original overwritten")
	}
}

// TestNames covers the derived file names.
func TestNames(t *testing.T) {
	if got := DownloadName(42); got != "image_42.png" {
		t.Fatalf("DownloadName = %q", got)
	}
	ts := time.Date(2024, 1, 20, 10, 30, 0, 0, time.UTC)
	if got := GeneratedName(ts, 3); got != "t2i_20240120-103000_03.png" {
		t.Fatalf("GeneratedName = %q", got)
	}
	if got := UpscaledName("/tmp/photo.jpg"); got != "photo_upscaled.png" {
		t.Fatalf("UpscaledName = %q", got)
	}
}
