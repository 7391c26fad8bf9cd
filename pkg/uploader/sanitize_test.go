package uploader_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/formworks/intake/pkg/uploader"
)

func TestSanitizeFilename(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	prefix := fmt.Sprintf("%d_", now.UnixMilli())

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"clean name", "passport.pdf", prefix + "passport.pdf"},
		{"spaces become underscores", "my passport scan.pdf", prefix + "my_passport_scan.pdf"},
		{"special characters stripped", "rés@umé!.pdf", prefix + "rsum.pdf"},
		{"path separators stripped", "../../etc/passwd", prefix + "......etcpasswd"},
		{"unicode stripped", "файл.pdf", prefix + ".pdf"},
		{"allowed punctuation kept", "scan_2024-01.v2.pdf", prefix + "scan_2024-01.v2.pdf"},
		{"empty name gets default", "", prefix + uploader.DefaultFilename},
		{"only special characters gets default", "@#$%", prefix + uploader.DefaultFilename},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := uploader.SanitizeFilename(tt.input, now); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeFilenameUniquePrefix(t *testing.T) {
	a := uploader.SanitizeFilename("doc.pdf", time.UnixMilli(1000))
	b := uploader.SanitizeFilename("doc.pdf", time.UnixMilli(2000))

	if a == b {
		t.Errorf("same name at different times should differ: %q", a)
	}
}
