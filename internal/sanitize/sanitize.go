package sanitize

import (
	"regexp"
	"strings"
)

// DefaultMimeType is used whenever the declared content type is absent,
// not an image type, or not on the allow-list.
const DefaultMimeType = "image/jpeg"

const (
	defaultBaseName = "upload"
	maxNameLength   = 84
)

// allowedMimeTypes are the image types passed through verbatim. Anything
// else collapses to DefaultMimeType.
var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/webp": true,
	"image/png":  true,
	"image/gif":  true,
	"image/bmp":  true,
	"image/tiff": true,
}

var (
	extPattern     = regexp.MustCompile(`\.([a-zA-Z0-9]{2,5})$`)
	unsafeChars    = regexp.MustCompile(`[^a-z0-9\-_.]`)
	repeatedDashes = regexp.MustCompile(`-{2,}`)
)

// MimeType normalizes a caller-declared content type to one of the
// allow-listed image types. HEIC and HEIF collapse to JPEG because the
// remote targets reject them.
func MimeType(declared string) string {
	mt := strings.ToLower(strings.TrimSpace(declared))
	if mt == "image/heic" || mt == "image/heif" {
		return DefaultMimeType
	}
	if allowedMimeTypes[mt] {
		return mt
	}
	return DefaultMimeType
}

// FileName normalizes a caller-supplied filename into a bounded lower-case
// slug with a known extension. The result always matches
// ^[a-z0-9\-_.]{1,84}$ and re-sanitizing it is a no-op.
func FileName(name string) string {
	name = strings.TrimSpace(name)

	// Callers sometimes send full paths; keep only the last element.
	if idx := strings.LastIndexAny(name, `/\`); idx >= 0 {
		name = name[idx+1:]
	}

	ext := "jpg"
	if m := extPattern.FindStringSubmatch(name); m != nil {
		ext = strings.ToLower(m[1])
		name = strings.TrimSuffix(name, m[0])
		switch ext {
		case "heic", "heif", "heifs":
			ext = "jpg"
		}
	}

	base := strings.ToLower(name)
	base = unsafeChars.ReplaceAllString(base, "-")
	base = repeatedDashes.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-_.")
	// The extension counts against the overall length bound, so the base
	// budget shrinks with longer extensions.
	if max := maxNameLength - len(ext) - 1; len(base) > max {
		base = strings.Trim(base[:max], "-_.")
	}
	if base == "" {
		base = defaultBaseName
	}

	return base + "." + ext
}
