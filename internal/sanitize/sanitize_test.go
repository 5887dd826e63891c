package sanitize

import (
	"regexp"
	"strings"
	"testing"
)

var outputPattern = regexp.MustCompile(`^[a-z0-9\-_.]{1,84}$`)

func TestMimeType(t *testing.T) {
	tests := []struct {
		name     string
		declared string
		want     string
	}{
		{"heic collapses to jpeg", "image/heic", "image/jpeg"},
		{"heif collapses to jpeg", "image/heif", "image/jpeg"},
		{"webp passes through", "image/webp", "image/webp"},
		{"png passes through", "image/png", "image/png"},
		{"gif passes through", "image/gif", "image/gif"},
		{"bmp passes through", "image/bmp", "image/bmp"},
		{"tiff passes through", "image/tiff", "image/tiff"},
		{"jpeg passes through", "image/jpeg", "image/jpeg"},
		{"uppercase is lowered", "IMAGE/WEBP", "image/webp"},
		{"non-image defaults", "text/plain", "image/jpeg"},
		{"empty defaults", "", "image/jpeg"},
		{"unlisted image type defaults", "image/svg+xml", "image/jpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MimeType(tt.declared); got != tt.want {
				t.Errorf("MimeType(%q) = %q, want %q", tt.declared, got, tt.want)
			}
		})
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"heic extension rewritten", "My Photo!!.HEIC", "my-photo.jpg"},
		{"heif extension rewritten", "holiday.heif", "holiday.jpg"},
		{"no extension gains jpg", "snapshot", "snapshot.jpg"},
		{"path components stripped", "/var/tmp/../cat.png", "cat.png"},
		{"windows path stripped", `C:\Users\me\dog.gif`, "dog.gif"},
		{"unsafe chars replaced", "résumé photo.png", "r-sum-photo.png"},
		{"repeated separators collapsed", "a   b---c.webp", "a-b-c.webp"},
		{"empty falls back", "", "upload.jpg"},
		{"only punctuation falls back", "!!!.???", "upload.jpg"},
		{"already sanitized unchanged", "my-photo.jpg", "my-photo.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FileName(tt.input); got != tt.want {
				t.Errorf("FileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFileNameTruncatesLongBase(t *testing.T) {
	tests := []struct {
		name string
		ext  string
		want string
	}{
		{"three char extension", ".png", strings.Repeat("a", 80) + ".png"},
		{"four char extension", ".tiff", strings.Repeat("a", 79) + ".tiff"},
		{"five char extension", ".abcde", strings.Repeat("a", 78) + ".abcde"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FileName(strings.Repeat("a", 120) + tt.ext)
			if got != tt.want {
				t.Errorf("FileName(long%s) = %q, want %q", tt.ext, got, tt.want)
			}
			if len(got) > 84 {
				t.Errorf("FileName(long%s) length = %d, want <= 84", tt.ext, len(got))
			}
		})
	}
}

func TestFileNameOutputShape(t *testing.T) {
	inputs := []string{
		"My Photo!!.HEIC",
		"",
		strings.Repeat("x", 300),
		strings.Repeat("x", 300) + ".tiff",
		strings.Repeat("x", 300) + ".abcde",
		"weird\x00name\x7f.tiff",
		"../../etc/passwd",
		"ニュース.jpeg",
	}

	for _, in := range inputs {
		got := FileName(in)
		if !outputPattern.MatchString(got) {
			t.Errorf("FileName(%q) = %q does not match %s", in, got, outputPattern)
		}
	}
}

func TestSanitizationIsIdempotent(t *testing.T) {
	names := []string{"My Photo!!.HEIC", "a b c", "", "photo.webp", strings.Repeat("z", 100) + ".tif", strings.Repeat("z", 120) + ".abcde"}
	for _, in := range names {
		once := FileName(in)
		if twice := FileName(once); twice != once {
			t.Errorf("FileName not idempotent: %q -> %q -> %q", in, once, twice)
		}
	}

	mimes := []string{"image/heic", "text/plain", "", "image/webp", "IMAGE/PNG"}
	for _, in := range mimes {
		once := MimeType(in)
		if twice := MimeType(once); twice != once {
			t.Errorf("MimeType not idempotent: %q -> %q -> %q", in, once, twice)
		}
	}
}
