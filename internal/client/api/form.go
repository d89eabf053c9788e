package api

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
)

// NewForm encodes a multipart form containing the given scalar fields
// and, when file is non-nil, one file part named fileField with the
// given file name.
func NewForm(fields map[string]string, fileField, fileName string, file io.Reader) (*FormPayload, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("write form field %q: %w", name, err)
		}
	}
	if file != nil {
		part, err := w.CreateFormFile(fileField, fileName)
		if err != nil {
			return nil, fmt.Errorf("create form file: %w", err)
		}
		if _, err := io.Copy(part, file); err != nil {
			return nil, fmt.Errorf("copy form file: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close form writer: %w", err)
	}

	return &FormPayload{ContentType: w.FormDataContentType(), Body: &buf}, nil
}
