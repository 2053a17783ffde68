package vault

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
)

// Metadata describes an uploaded file before encryption. The
// type-specific members form a tagged variant: at most one of PDF or
// Image is set, chosen by MIME type.
type Metadata struct {
	FileSize   int64      `json:"file_size"`
	MimeType   string     `json:"file_type"`
	UploadTime time.Time  `json:"upload_time"`
	Checksum   string     `json:"checksum"`
	PDF        *PDFMeta   `json:"pdf,omitempty"`
	Image      *ImageMeta `json:"image,omitempty"`
}

type PDFMeta struct {
	ExtractedText string `json:"extracted_text"`
}

type ImageMeta struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
}

// ExtractMetadata computes size, MIME type and SHA-256 checksum, plus
// best-effort type-specific details. Type-specific extraction failures
// degrade to omission; they never fail the upload.
func ExtractMetadata(path string) (Metadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("stat file: %w", err)
	}

	checksum, err := fileChecksum(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("checksum file: %w", err)
	}

	meta := Metadata{
		FileSize:   info.Size(),
		MimeType:   DetectMimeType(path),
		UploadTime: time.Now().UTC(),
		Checksum:   checksum,
	}

	switch {
	case meta.MimeType == "application/pdf":
		if text, err := extractPDFText(path); err == nil {
			meta.PDF = &PDFMeta{ExtractedText: text}
		}
	case strings.HasPrefix(meta.MimeType, "image/"):
		if img, err := extractImageMeta(path); err == nil {
			meta.Image = img
		}
	}

	return meta, nil
}

func fileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func extractPDFText(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip problematic pages instead of failing entirely.
			continue
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}

func extractImageMeta(path string) (*ImageMeta, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, err
	}
	return &ImageMeta{Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}
