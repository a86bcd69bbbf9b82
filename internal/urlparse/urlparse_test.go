package urlparse

import (
	"errors"
	"strings"
	"testing"
)

func TestDecompose(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want Target
	}{
		{"host and path", "http://example.test/index.html", Target{"example.test", 80, "/index.html"}},
		{"host port root", "http://example.test:8080/", Target{"example.test", 8080, "/"}},
		{"host only", "http://example.test", Target{"example.test", 80, "/"}},
		{"host port no path", "http://example.test:8080", Target{"example.test", 8080, "/"}},
		{"ipv4 literal", "http://127.0.0.1:3000/a/b?c=d", Target{"127.0.0.1", 3000, "/a/b?c=d"}},
		{"colon in path only", "http://example.test/a:b", Target{"example.test", 80, "/a:b"}},
		{"trailing slash", "http://example.test/", Target{"example.test", 80, "/"}},
		{"non-numeric port", "http://example.test:abc/x", Target{"example.test", 80, "/x"}},
		{"empty port", "http://example.test:/x", Target{"example.test", 80, "/x"}},
		{"zero port", "http://example.test:0/", Target{"example.test", 80, "/"}},
		{"port too large", "http://example.test:70000/", Target{"example.test", 80, "/"}},
		{"port with garbage suffix", "http://example.test:8080abc/", Target{"example.test", 8080, "/"}},
		{"max port", "http://example.test:65535/", Target{"example.test", 65535, "/"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decompose(tt.url)
			if err != nil {
				t.Fatalf("Decompose(%q) error = %v", tt.url, err)
			}
			if got != tt.want {
				t.Errorf("Decompose(%q) = %+v, want %+v", tt.url, got, tt.want)
			}
		})
	}
}

func TestDecomposeErrors(t *testing.T) {
	tests := []struct {
		name string
		url  string
		kind Kind
		want error
	}{
		{"https", "https://example.test/", UnsupportedScheme, ErrUnsupportedScheme},
		{"ftp", "ftp://example.test/", UnsupportedScheme, ErrUnsupportedScheme},
		{"no scheme", "example.test/index.html", UnsupportedScheme, ErrUnsupportedScheme},
		{"upper case scheme", "HTTP://example.test/", UnsupportedScheme, ErrUnsupportedScheme},
		{"empty", "", UnsupportedScheme, ErrUnsupportedScheme},
		{"empty host", "http:///index.html", MissingHost, ErrMissingHost},
		{"port without host", "http://:8080/", MissingHost, ErrMissingHost},
		{"long host", "http://" + strings.Repeat("h", MaxHostLen+1) + "/", BufferTooSmall, ErrBufferTooSmall},
		{"long path", "http://example.test/" + strings.Repeat("p", MaxPathLen), BufferTooSmall, ErrBufferTooSmall},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decompose(tt.url)
			if err == nil {
				t.Fatalf("Decompose(%q) expected error", tt.url)
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected %T, got %T", perr, err)
			}
			if perr.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", perr.Kind, tt.kind)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("errors.Is(%v, %v) = false", err, tt.want)
			}
		})
	}
}

func TestDecomposeLimitsAreInclusive(t *testing.T) {
	host := strings.Repeat("h", MaxHostLen)
	path := "/" + strings.Repeat("p", MaxPathLen-1)

	got, err := Decompose("http://" + host + path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Host != host || got.Path != path {
		t.Errorf("components were altered: host %d bytes, path %d bytes", len(got.Host), len(got.Path))
	}
}

func TestDecomposeWithCustomLimits(t *testing.T) {
	opts := Options{MaxHostLen: 4, MaxPathLen: 4}

	if _, err := DecomposeWith("http://abcd/abc", opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := DecomposeWith("http://abcde/", opts); !errors.Is(err, ErrBufferTooSmall) {
		t.Errorf("long host: got %v, want %v", err, ErrBufferTooSmall)
	}
	if _, err := DecomposeWith("http://abcd/abcd", opts); !errors.Is(err, ErrBufferTooSmall) {
		t.Errorf("long path: got %v, want %v", err, ErrBufferTooSmall)
	}
}

func TestDecomposeStrictPort(t *testing.T) {
	strict := Options{StrictPort: true}

	tests := []struct {
		name    string
		url     string
		want    int
		wantErr bool
	}{
		{"valid", "http://example.test:8080/", 8080, false},
		{"default", "http://example.test/", 80, false},
		{"letters", "http://example.test:abc/", 0, true},
		{"suffix", "http://example.test:80x/", 0, true},
		{"empty", "http://example.test:/", 0, true},
		{"zero", "http://example.test:0/", 0, true},
		{"too large", "http://example.test:65536/", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecomposeWith(tt.url, strict)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecomposeWith(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPort) {
					t.Errorf("expected ErrInvalidPort, got %v", err)
				}
				return
			}
			if got.Port != tt.want {
				t.Errorf("Port = %d, want %d", got.Port, tt.want)
			}
		})
	}
}

func TestTargetAddrAndString(t *testing.T) {
	tests := []struct {
		target   Target
		addr     string
		rendered string
	}{
		{Target{"example.test", 80, "/"}, "example.test:80", "http://example.test/"},
		{Target{"example.test", 8080, "/a"}, "example.test:8080", "http://example.test:8080/a"},
	}

	for _, tt := range tests {
		if got := tt.target.Addr(); got != tt.addr {
			t.Errorf("Addr() = %q, want %q", got, tt.addr)
		}
		if got := tt.target.String(); got != tt.rendered {
			t.Errorf("String() = %q, want %q", got, tt.rendered)
		}
	}
}

func TestParseErrorMessage(t *testing.T) {
	_, err := Decompose("https://example.test/")
	want := `parse "https://example.test/": only http:// URLs supported`
	if err == nil || err.Error() != want {
		t.Errorf("Error() = %v, want %q", err, want)
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{UnsupportedScheme, "unsupported scheme"},
		{BufferTooSmall, "buffer too small"},
		{MissingHost, "missing host"},
		{InvalidPort, "invalid port"},
		{Kind(0), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
