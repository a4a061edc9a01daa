package pipeline

import (
	"path/filepath"
	"strings"

	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/errors"
)

// allowedExtensions is the fixed set of accepted upload formats.
// Validation is name/size only; a renamed file of the wrong type passes
// here and fails later inside the transcriber as a decode error.
var allowedExtensions = map[string]struct{}{
	"mp3":  {},
	"wav":  {},
	"m4a":  {},
	"ogg":  {},
	"flac": {},
	"webm": {},
	"mp4":  {},
	"wma":  {},
	"aac":  {},
}

// AllowedExtensions lists the accepted formats for error messages.
func AllowedExtensions() []string {
	exts := make([]string, 0, len(allowedExtensions))
	for ext := range allowedExtensions {
		exts = append(exts, ext)
	}
	return exts
}

// ValidateUpload accepts or rejects an upload before any model call.
// Extension is checked before size so the caller always gets the most
// specific rejection.
func ValidateUpload(filename string, size, maxBytes int64) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return errors.WithCodef(errors.CodeUnsupportedFormat, "file %q has no extension", filename)
	}
	if _, ok := allowedExtensions[ext]; !ok {
		return errors.WithCodef(errors.CodeUnsupportedFormat, "file type %q not allowed", ext)
	}
	if maxBytes > 0 && size > maxBytes {
		return errors.WithCodef(errors.CodeFileTooLarge, "file too large, maximum size is %dMB", maxBytes/(1024*1024))
	}
	return nil
}
