package storage

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotPDF is returned for files that do not carry a .pdf extension.
var ErrNotPDF = errors.New("not a pdf file")

// LoadPDF reads a PDF from disk and returns the project name derived from its file
// name together with the document as a data URI.
func LoadPDF(path string) (name, dataURI string, err error) {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if !strings.EqualFold(ext, ".pdf") {
		return "", "", fmt.Errorf("%w: %s", ErrNotPDF, base)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to read pdf: %w", err)
	}
	return strings.TrimSuffix(base, ext), PDFDataURI(data), nil
}

// PDFDataURI encodes raw PDF bytes the way projects store them.
func PDFDataURI(data []byte) string {
	return "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(data)
}
