package models

import (
	"encoding/json"
	"strings"
)

// Chunk content is polymorphic: text-derived chunks hold a plain string,
// image-derived chunks hold a structured record. Both are serialized to a
// single string column, so consumers must decode before use. Content is the
// tagged variant that makes the two shapes explicit at the storage boundary.
type Content interface {
	// CanonicalText returns the single plain-text view used for scoring
	// and display. For image records this is the OCR text, possibly empty.
	CanonicalText() string
	// Encode returns the string form persisted in the chunk row.
	Encode() string
}

// TextContent is plain extracted text.
type TextContent string

func (t TextContent) CanonicalText() string { return string(t) }
func (t TextContent) Encode() string        { return string(t) }

// ImageContent is the structured record produced for image chunks.
// ImageBase64 carries the JPEG/PNG payload as base64 text so the row stays
// a plain string in the store.
type ImageContent struct {
	OCRText     string `json:"ocr_text"`
	ImageBase64 string `json:"image_base64"`
	HasText     bool   `json:"has_text"`
}

func (i ImageContent) CanonicalText() string { return i.OCRText }

func (i ImageContent) Encode() string {
	b, err := json.Marshal(i)
	if err != nil {
		// Marshalling a struct of strings and a bool cannot fail; keep the
		// OCR text if it somehow does.
		return i.OCRText
	}
	return string(b)
}

// DecodeContent parses a stored content string back into its variant.
// A string that decodes to a JSON object is an image record (the OCR-text
// field may be absent, leaving canonical text empty); anything else is
// treated as plain text unchanged.
func DecodeContent(raw string) Content {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") {
		return TextContent(raw)
	}
	var img ImageContent
	if err := json.Unmarshal([]byte(trimmed), &img); err != nil {
		return TextContent(raw)
	}
	return img
}

// CanonicalText is the one-step helper for consumers holding a raw stored
// string: decode, then take the canonical view.
func CanonicalText(raw string) string {
	return DecodeContent(raw).CanonicalText()
}
