package extract

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrDocumentProcessing indicates the input bytes could not be processed as a PDF.
var ErrDocumentProcessing = errors.New("document processing failed")

// DocInfo carries bibliographic fields from the PDF Info dictionary.
type DocInfo struct {
	Title   string `json:"title"`
	Author  string `json:"author"`
	Subject string `json:"subject"`
	Creator string `json:"creator"`
}

// Result is the outcome of text extraction for one document.
type Result struct {
	Text      string
	PageCount int
	HasText   bool
	Info      *DocInfo
}

// PDFExtractor extracts plain text and metadata from PDF bytes.
type PDFExtractor struct{}

// Extract decodes the PDF page sequence and concatenates page texts,
// each prefixed with a 1-indexed page marker. Extraction is
// all-or-nothing: any page that fails to decode fails the document.
func (PDFExtractor) Extract(data []byte) (result Result, err error) {
	// The underlying parser panics on some malformed inputs; surface
	// those as processing errors instead of crashing the request.
	defer func() {
		if rec := recover(); rec != nil {
			result = Result{}
			err = fmt.Errorf("%w: %v", ErrDocumentProcessing, rec)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrDocumentProcessing, err)
	}

	pageCount := reader.NumPage()
	var text strings.Builder
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			return Result{}, fmt.Errorf("%w: page %d is missing", ErrDocumentProcessing, pageNum)
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return Result{}, fmt.Errorf("%w: page %d: %v", ErrDocumentProcessing, pageNum, err)
		}
		fmt.Fprintf(&text, "\n--- Page %d ---\n%s", pageNum, pageText)
	}

	return Result{
		Text:      text.String(),
		PageCount: pageCount,
		HasText:   strings.TrimSpace(text.String()) != "",
		Info:      readInfo(reader),
	}, nil
}

func readInfo(reader *pdf.Reader) *DocInfo {
	info := reader.Trailer().Key("Info")
	if info.Kind() != pdf.Dict {
		return nil
	}
	return &DocInfo{
		Title:   stringField(info, "Title"),
		Author:  stringField(info, "Author"),
		Subject: stringField(info, "Subject"),
		Creator: stringField(info, "Creator"),
	}
}

func stringField(dict pdf.Value, key string) string {
	val := dict.Key(key)
	if val.Kind() != pdf.String {
		return ""
	}
	return val.Text()
}
