// Package wire encodes HTTP/1.0 requests onto a byte stream.
//
// Writer enforces the order of a request on the wire: request line, then
// headers, then the blank line that starts the body. Responses are never
// decoded here; the fetch engine copies them through untouched.
package wire

import (
	"bytes"
	"fmt"
	"io"
)

// HTTP10 is the only protocol version spoken.
const HTTP10 = "HTTP/1.0"

// DefaultUserAgent identifies the tool in the User-Agent header.
const DefaultUserAgent = "mini-wget-ce"

type phase int

const (
	requestline phase = iota
	headers
	body
)

func (p phase) String() string {
	switch p {
	case requestline:
		return "requestline"
	case headers:
		return "headers"
	case body:
		return "body"
	default:
		return "UNKNOWN"
	}
}

// PhaseError is returned when a part of the request is written out of order.
type PhaseError struct {
	Expected, Got phase
}

func (p *PhaseError) Error() string {
	return fmt.Sprintf("phase error: expected %s, got %s", p.Expected, p.Got)
}

// Writer writes a single request to an io.Writer.
type Writer struct {
	phase
	w io.Writer
}

// NewWriter returns a Writer positioned at the request line.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteRequestLine writes the request line and moves to the headers phase.
func (w *Writer) WriteRequestLine(method, uri, version string) error {
	if w.phase != requestline {
		return &PhaseError{requestline, w.phase}
	}
	_, err := fmt.Fprintf(w.w, "%s %s %s\r\n", method, uri, version)
	w.phase = headers
	return err
}

// WriteHeader writes one header line.
func (w *Writer) WriteHeader(key, value string) error {
	if w.phase != headers {
		return &PhaseError{headers, w.phase}
	}
	_, err := fmt.Fprintf(w.w, "%s: %s\r\n", key, value)
	return err
}

// StartBody terminates the header block. No further headers may be sent.
func (w *Writer) StartBody() error {
	if w.phase != headers {
		return &PhaseError{headers, w.phase}
	}
	w.phase = body
	_, err := io.WriteString(w.w, "\r\n")
	return err
}

// Get returns the encoded GET request for path on host.
func Get(path, host, userAgent string) ([]byte, error) {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.WriteRequestLine("GET", path, HTTP10); err != nil {
		return nil, err
	}
	if err := w.WriteHeader("Host", host); err != nil {
		return nil, err
	}
	if err := w.WriteHeader("User-Agent", userAgent); err != nil {
		return nil, err
	}
	if err := w.StartBody(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGet sends a GET request to dst in a single write.
func WriteGet(dst io.Writer, path, host, userAgent string) (int, error) {
	req, err := Get(path, host, userAgent)
	if err != nil {
		return 0, err
	}
	n, err := dst.Write(req)
	if err == nil && n != len(req) {
		err = io.ErrShortWrite
	}
	return n, err
}
