// Package imagefile materializes image payloads as local files.
package imagefile

import (
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// DecodeBase64 decodes a base64 image payload, tolerating a data-URL
// prefix ("data:image/png;base64,...") when one is present.
func DecodeBase64(s string) ([]byte, error) {
	if i := strings.IndexByte(s, ','); i >= 0 && strings.HasPrefix(s, "data:") {
		s = s[i+1:]
	}
	return base64.StdEncoding.DecodeString(strings.TrimSpace(s))
}

// Save writes data under dir, creating the directory as needed. When
// name already exists a numeric suffix is appended rather than
// overwriting. It returns the path actually written.
func Save(fs afero.Fs, dir, name string, data []byte) (string, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for n := 1; ; n++ {
		exists, err := afero.Exists(fs, path)
		if err != nil {
			return "", err
		}
		if !exists {
			break
		}
		path = filepath.Join(dir, fmt.Sprintf("%s-%d%s", stem, n, ext))
	}
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// DownloadName names a gallery download after its image id.
func DownloadName(id int64) string {
	return fmt.Sprintf("image_%d.png", id)
}

// GeneratedName names the n-th image of a generation batch.
func GeneratedName(t time.Time, n int) string {
	return fmt.Sprintf("t2i_%s_%02d.png", t.Format("20060102-150405"), n)
}

// UpscaledName derives the output name for an upscaled input file.
func UpscaledName(in string) string {
	base := filepath.Base(in)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + "_upscaled.png"
}
