package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
)

// Request describes one call to the API. Body is JSON-encoded; Form, when
// set, takes precedence and is sent as multipart/form-data.
type Request struct {
	Method string
	Path   string
	Body   any
	Form   *Multipart
	Auth   bool
}

type Field struct {
	Name  string
	Value string
}

// File is a multipart file part read from Path.
type File struct {
	Field string
	Path  string
}

// Multipart is a form with text fields followed by file parts.
type Multipart struct {
	Fields []Field
	Files  []File
}

func (m *Multipart) AddField(name, value string) {
	m.Fields = append(m.Fields, Field{Name: name, Value: value})
}

func (m *Multipart) AddFile(field, path string) {
	m.Files = append(m.Files, File{Field: field, Path: path})
}

// Value returns the first value of a text field.
func (m *Multipart) Value(name string) (string, bool) {
	for _, f := range m.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

func (m *Multipart) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range m.Fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f.Name, err)
		}
	}

	for _, f := range m.Files {
		if err := writeFile(w, f); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func writeFile(w *multipart.Writer, f File) error {
	src, err := os.Open(f.Path)
	if err != nil {
		return fmt.Errorf("open %s: %w", f.Path, err)
	}
	defer src.Close()

	ct := mime.TypeByExtension(filepath.Ext(f.Path))
	if ct == "" {
		ct = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, filepath.Base(f.Path)))
	h.Set("Content-Type", ct)

	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create part %s: %w", f.Field, err)
	}
	if _, err := io.Copy(part, src); err != nil {
		return fmt.Errorf("copy %s: %w", f.Path, err)
	}
	return nil
}

func (r Request) encode() (io.Reader, string, error) {
	if r.Form != nil {
		return r.Form.encode()
	}
	if r.Body == nil {
		return nil, "", nil
	}
	b, err := json.Marshal(r.Body)
	if err != nil {
		return nil, "", fmt.Errorf("encode body: %w", err)
	}
	return bytes.NewReader(b), "application/json", nil
}
