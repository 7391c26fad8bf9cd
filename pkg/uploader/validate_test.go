package uploader_test

import (
	"errors"
	"testing"

	"github.com/formworks/intake/pkg/uploader"
)

func testValidator() *uploader.Validator {
	return &uploader.Validator{
		AcceptedTypes: []string{"application/pdf", "image/jpeg"},
		MaxSizeBytes:  10 * 1024 * 1024,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		file    uploader.File
		wantErr error
	}{
		{
			name: "valid pdf",
			file: uploader.File{Name: "doc.pdf", ContentType: "application/pdf", Size: 1024},
		},
		{
			name: "valid jpeg",
			file: uploader.File{Name: "scan.jpg", ContentType: "image/jpeg", Size: 2048},
		},
		{
			name: "valid at exact limit",
			file: uploader.File{
				Name:        "big.pdf",
				ContentType: "application/pdf",
				Size:        10 * 1024 * 1024,
			},
		},
		{
			name:    "empty file",
			file:    uploader.File{Name: "empty.pdf", ContentType: "application/pdf", Size: 0},
			wantErr: uploader.ErrEmptyFile,
		},
		{
			name:    "unsupported type",
			file:    uploader.File{Name: "notes.txt", ContentType: "text/plain", Size: 100},
			wantErr: uploader.ErrUnsupportedType,
		},
		{
			name: "over size limit",
			file: uploader.File{
				Name:        "huge.pdf",
				ContentType: "application/pdf",
				Size:        10*1024*1024 + 1,
			},
			wantErr: uploader.ErrFileTooLarge,
		},
	}

	v := testValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.file)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseCategory(t *testing.T) {
	valid := []string{"mainId", "additionalId", "incorporation", "authorization", "exemption"}
	for _, s := range valid {
		if _, err := uploader.ParseCategory(s); err != nil {
			t.Errorf("ParseCategory(%q) error = %v", s, err)
		}
	}

	if _, err := uploader.ParseCategory("invoice"); !errors.Is(err, uploader.ErrUnknownCategory) {
		t.Errorf("ParseCategory(invoice) error = %v, want ErrUnknownCategory", err)
	}
}
