package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"tender-backend/internal/shared/storage/object"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// ScannedPDFPlaceholder is returned by Standard for PDFs that parse but carry no text layer.
const ScannedPDFPlaceholder = "[PDF uploaded successfully but no parseable text could be extracted]"

// scannedCharsPerPage is the text density under which a PDF is treated as scanned.
const scannedCharsPerPage = 20

// ErrUnsupported is returned for formats with no local extractor.
var ErrUnsupported = errors.New("unsupported mime type")

// Standard extracts text locally from an in-memory payload.
// Libraries used: github.com/ledongthuc/pdf (PDF) and github.com/nguyenthenguyen/docx (DOCX).
func Standard(ctx context.Context, data []byte, mimeType string, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	normalized := NormalizeMimeType(mimeType, fileName, data)
	switch {
	case normalized == mimePDF:
		return extractPDF(data)
	case normalized == mimeDOCX:
		return extractDOCX(data)
	case isPlainText(normalized):
		return toValidUTF8(data), nil
	case strings.HasPrefix(normalized, "image/"):
		return "", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, normalized)
	}
}

func extractPDF(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parse panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	text = strings.TrimSpace(buf.String())
	if isLikelyScanned(text, reader.NumPage()) {
		return ScannedPDFPlaceholder, nil
	}
	return text, nil
}

func isLikelyScanned(text string, pages int) bool {
	if pages <= 0 {
		pages = 1
	}
	return utf8.RuneCountInString(text)/pages < scannedCharsPerPage
}

func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	defer doc.Close()
	return stripDocxXML(doc.Editable().GetContent()), nil
}

func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

// NormalizeMimeType resolves the effective MIME type from the declared value, the
// file extension and the leading bytes.
func NormalizeMimeType(mimeType string, fileName string, data []byte) string {
	head := data
	if len(head) > 3072 {
		head = head[:3072]
	}
	clean := object.ContentType(mimeType, head)
	if clean != "application/zip" && clean != "application/octet-stream" && clean != "text/plain" {
		return clean
	}
	if mapped := mapOOXMLFromZip(data); mapped != "" {
		return mapped
	}

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return mimePDF
	case ".docx":
		return mimeDOCX
	case ".txt", ".md":
		return "text/plain"
	case ".csv":
		return "text/csv"
	default:
		return clean
	}
}

func mapOOXMLFromZip(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
	}
	for _, f := range zr.File {
		switch strings.ReplaceAll(f.Name, "\\", "/") {
		case "word/document.xml":
			return mimeDOCX
		case "xl/workbook.xml":
			return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		case "ppt/presentation.xml":
			return "application/vnd.openxmlformats-officedocument.presentationml.presentation"
		}
	}
	return ""
}

func isPlainText(mimeType string) bool {
	if strings.HasPrefix(mimeType, "text/") {
		return true
	}
	switch mimeType {
	case "application/json", "application/xml", "application/csv":
		return true
	}
	return false
}

func toValidUTF8(data []byte) string {
	return strings.TrimSpace(strings.ToValidUTF8(string(data), ""))
}
