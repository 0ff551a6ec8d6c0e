package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"codeberg.org/algopatterns/dedup/internal/dedup"
)

// longest JSONL line accepted
const maxLineSize = 64 << 20

// reads one document per JSON line
type reader struct {
	scanner   *bufio.Scanner
	textField string
	line      int
}

func newReader(r io.Reader, textField string) *reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	return &reader{scanner: scanner, textField: textField}
}

// returns the next document, or io.EOF once the input is exhausted
func (r *reader) Next() (dedup.Document, error) {
	for r.scanner.Scan() {
		r.line++

		line := strings.TrimSpace(r.scanner.Text())
		if line == "" {
			continue
		}

		var raw map[string]any
		if err := json.Unmarshal([]byte(line), &raw); err != nil {
			return dedup.Document{}, fmt.Errorf("line %d: %w", r.line, err)
		}

		doc, err := dedup.FromMap(raw, r.textField)
		if err != nil {
			return dedup.Document{}, fmt.Errorf("line %d: %w", r.line, err)
		}

		return doc, nil
	}

	if err := r.scanner.Err(); err != nil {
		return dedup.Document{}, fmt.Errorf("line %d: %w", r.line+1, err)
	}

	return dedup.Document{}, io.EOF
}

// writes documents as JSON lines, keeping the input text key
type writer struct {
	buf       *bufio.Writer
	enc       *json.Encoder
	textField string
	written   int
}

func newWriter(w io.Writer, textField string) *writer {
	buf := bufio.NewWriter(w)

	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)

	return &writer{buf: buf, enc: enc, textField: textField}
}

func (w *writer) Write(doc dedup.Document) error {
	if err := w.enc.Encode(doc.Map(w.textField)); err != nil {
		return err
	}

	w.written++
	return nil
}

func (w *writer) Flush() error {
	return w.buf.Flush()
}

// opens path for reading; "-" and "" mean stdin
func openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}

	return f, nil
}

// creates path for writing; "-" and "" mean stdout
func createOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output: %w", err)
	}

	return f, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
