// Package urlparse splits absolute http:// URLs into host, port and path.
package urlparse

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Scheme is the only URL prefix accepted.
const Scheme = "http://"

// DefaultPort is used when the URL carries no port, or an unusable one.
const DefaultPort = 80

// Capacity limits for the decomposed parts.
const (
	MaxHostLen = 127
	MaxPathLen = 255
)

// Kind classifies a decomposition failure.
type Kind int

const (
	UnsupportedScheme Kind = iota + 1
	BufferTooSmall
	MissingHost
	InvalidPort
)

func (k Kind) String() string {
	switch k {
	case UnsupportedScheme:
		return "unsupported scheme"
	case BufferTooSmall:
		return "buffer too small"
	case MissingHost:
		return "missing host"
	case InvalidPort:
		return "invalid port"
	default:
		return "UNKNOWN"
	}
}

// Sentinel errors, one per Kind. A *ParseError matches its sentinel with errors.Is.
var (
	ErrUnsupportedScheme = errors.New("only http:// URLs supported")
	ErrBufferTooSmall    = errors.New("URL component exceeds capacity")
	ErrMissingHost       = errors.New("URL has no host")
	ErrInvalidPort       = errors.New("invalid port")
)

// ParseError reports why a URL could not be decomposed.
type ParseError struct {
	Kind   Kind
	URL    string
	Detail string
}

func (e *ParseError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("parse %q: %s", e.URL, e.sentinel())
	}
	return fmt.Sprintf("parse %q: %s: %s", e.URL, e.sentinel(), e.Detail)
}

func (e *ParseError) sentinel() error {
	switch e.Kind {
	case UnsupportedScheme:
		return ErrUnsupportedScheme
	case BufferTooSmall:
		return ErrBufferTooSmall
	case MissingHost:
		return ErrMissingHost
	case InvalidPort:
		return ErrInvalidPort
	default:
		return errors.New(e.Kind.String())
	}
}

// Is lets errors.Is match a *ParseError against the sentinel of its Kind.
func (e *ParseError) Is(target error) bool {
	return e.sentinel() == target
}

// Target is a decomposed URL.
type Target struct {
	Host string
	Port int
	Path string
}

// Addr returns host:port suitable for dialing.
func (t Target) Addr() string {
	return t.Host + ":" + strconv.Itoa(t.Port)
}

// String renders the target back into URL form.
func (t Target) String() string {
	if t.Port == DefaultPort {
		return Scheme + t.Host + t.Path
	}
	return Scheme + t.Addr() + t.Path
}

// Options tunes decomposition.
type Options struct {
	// StrictPort rejects port text that is not a number in 1..65535
	// instead of falling back to DefaultPort.
	StrictPort bool
	// MaxHostLen and MaxPathLen override the capacity limits when non-zero.
	MaxHostLen int
	MaxPathLen int
}

func (o Options) hostLimit() int {
	if o.MaxHostLen > 0 {
		return o.MaxHostLen
	}
	return MaxHostLen
}

func (o Options) pathLimit() int {
	if o.MaxPathLen > 0 {
		return o.MaxPathLen
	}
	return MaxPathLen
}

// Decompose splits raw with the default, permissive options.
func Decompose(raw string) (Target, error) {
	return DecomposeWith(raw, Options{})
}

// DecomposeWith splits raw into a Target.
//
// The first ':' before the first '/' separates host and port. Port text
// that does not begin with digits, or is out of range, degrades to
// DefaultPort unless opts.StrictPort is set.
func DecomposeWith(raw string, opts Options) (Target, error) {
	if !strings.HasPrefix(raw, Scheme) {
		return Target{}, &ParseError{Kind: UnsupportedScheme, URL: raw}
	}
	rest := raw[len(Scheme):]

	slash := strings.IndexByte(rest, '/')
	authority := rest
	path := "/"
	if slash >= 0 {
		authority = rest[:slash]
		path = rest[slash:]
	}

	host := authority
	port := DefaultPort
	if colon := strings.IndexByte(authority, ':'); colon >= 0 {
		host = authority[:colon]
		p, err := parsePort(authority[colon+1:], opts.StrictPort)
		if err != nil {
			return Target{}, &ParseError{Kind: InvalidPort, URL: raw, Detail: err.Error()}
		}
		port = p
	}

	if host == "" {
		return Target{}, &ParseError{Kind: MissingHost, URL: raw}
	}
	if len(host) > opts.hostLimit() {
		return Target{}, &ParseError{
			Kind:   BufferTooSmall,
			URL:    raw,
			Detail: fmt.Sprintf("host is %d bytes, limit %d", len(host), opts.hostLimit()),
		}
	}
	if len(path) > opts.pathLimit() {
		return Target{}, &ParseError{
			Kind:   BufferTooSmall,
			URL:    raw,
			Detail: fmt.Sprintf("path is %d bytes, limit %d", len(path), opts.pathLimit()),
		}
	}

	return Target{Host: host, Port: port, Path: path}, nil
}

// parsePort reads the leading decimal digits of s. In permissive mode any
// problem yields DefaultPort.
func parsePort(s string, strict bool) (int, error) {
	n := 0
	digits := 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		if n <= 65535 {
			n = n*10 + int(s[digits]-'0')
		}
		digits++
	}

	switch {
	case strict && (digits == 0 || digits != len(s)):
		return 0, fmt.Errorf("port %q is not numeric", s)
	case strict && (n < 1 || n > 65535):
		return 0, fmt.Errorf("port %q out of range", s)
	case digits == 0 || n < 1 || n > 65535:
		return DefaultPort, nil
	}
	return n, nil
}
