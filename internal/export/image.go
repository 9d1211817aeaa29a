// Package export writes finished paintings as PNG, PDF or data URIs.
package export

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"path/filepath"
	"strings"
)

var ErrEmptyImage = errors.New("export: empty image")

const dataURIPrefix = "data:image/png;base64,"

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	if img == nil || img.Bounds().Empty() {
		return ErrEmptyImage
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// DataURI returns img as a base64 PNG data URI, the form favorites store.
func DataURI(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, img); err != nil {
		return "", err
	}
	return dataURIPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeDataURI reverses DataURI.
func DecodeDataURI(uri string) (image.Image, error) {
	if !strings.HasPrefix(uri, dataURIPrefix) {
		return nil, fmt.Errorf("decode data uri: not a png data uri")
	}
	raw, err := base64.StdEncoding.DecodeString(uri[len(dataURIPrefix):])
	if err != nil {
		return nil, fmt.Errorf("decode data uri: %w", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode data uri: %w", err)
	}
	return img, nil
}

// Save writes img to w in the format named by the extension of name: PDF
// for ".pdf", PNG otherwise. A PDF is titled after the file's base name.
func Save(w io.Writer, name string, img image.Image) error {
	var err error
	switch ext := filepath.Ext(name); strings.ToLower(ext) {
	case ".pdf":
		err = PDF(w, img, strings.TrimSuffix(filepath.Base(name), ext))
	default:
		err = WritePNG(w, img)
	}
	if err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	log.Printf("[EXPORT] saved %s", name)
	return nil
}
