package httpclient

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/torosent/loadbench/internal/config"
)

func readSource(t *testing.T, source BodySource) string {
	t.Helper()
	rc, err := source.NewReader()
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}
	defer rc.Close()

	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	return string(got)
}

func TestNewBodySource(t *testing.T) {
	dir := t.TempDir()
	bodyPath := filepath.Join(dir, "body.json")
	if err := os.WriteFile(bodyPath, []byte(`{"name":"widget"}`), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	tests := []struct {
		name    string
		cfg     *config.Config
		want    string
		wantErr bool
	}{
		{name: "nil config", cfg: nil, wantErr: true},
		{name: "both body and body file", cfg: &config.Config{Body: "inline", BodyFile: bodyPath}, wantErr: true},
		{name: "inline body", cfg: &config.Config{Body: "hello world"}, want: "hello world"},
		{name: "file body", cfg: &config.Config{BodyFile: bodyPath}, want: `{"name":"widget"}`},
		{name: "missing file", cfg: &config.Config{BodyFile: filepath.Join(dir, "missing")}, wantErr: true},
		{name: "directory as file", cfg: &config.Config{BodyFile: dir}, wantErr: true},
		{name: "empty source", cfg: &config.Config{}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source, err := NewBodySource(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewBodySource() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if length, ok := source.ContentLength(); !ok || length != int64(len(tt.want)) {
				t.Errorf("ContentLength() = %d, %v; want %d, true", length, ok, len(tt.want))
			}
			if got := readSource(t, source); got != tt.want {
				t.Errorf("body = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewPayloadSource(t *testing.T) {
	source := NewPayloadSource(1000)
	if length, ok := source.ContentLength(); !ok || length != 1000 {
		t.Fatalf("ContentLength() = %d, %v; want 1000, true", length, ok)
	}
	got := readSource(t, source)
	if got != strings.Repeat("x", 1000) {
		t.Errorf("payload is not 1000 'x' bytes: len=%d", len(got))
	}

	// Readers are independent so every request sends the full payload.
	if again := readSource(t, source); again != got {
		t.Error("second reader returned a different payload")
	}

	if length, _ := NewPayloadSource(0).ContentLength(); length != 0 {
		t.Errorf("NewPayloadSource(0) ContentLength() = %d, want 0", length)
	}
}
