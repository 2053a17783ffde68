package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MIME types inferred from file extension. Anything outside this table
// maps to application/octet-stream and is rejected by Validate.
var mimeTypes = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".txt":  "text/plain",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

var allowedMimeTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
	"text/plain":      true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// DetectMimeType infers a MIME type from the file extension.
func DetectMimeType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if mime, ok := mimeTypes[ext]; ok {
		return mime
	}
	return "application/octet-stream"
}

// ValidationResult carries the outcome of upload validation. Failures
// are values, not errors; callers branch on Valid instead of unwinding.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// Validate checks an uploaded file against the size ceiling and the
// MIME allow-list. It must run before metadata extraction and
// encryption; a rejected file is the caller's to delete.
func (v *Vault) Validate(path string) (ValidationResult, error) {
	result := ValidationResult{Valid: true}

	info, err := os.Stat(path)
	if err != nil {
		return ValidationResult{}, fmt.Errorf("stat upload: %w", err)
	}

	if info.Size() > v.maxFileSize {
		result.Valid = false
		result.Errors = append(result.Errors,
			fmt.Sprintf("file size (%d bytes) exceeds maximum allowed size (%d bytes)", info.Size(), v.maxFileSize))
	}

	mime := DetectMimeType(path)
	if !allowedMimeTypes[mime] {
		result.Valid = false
		result.Errors = append(result.Errors,
			fmt.Sprintf("file type (%s) is not allowed", mime))
	}

	return result, nil
}
