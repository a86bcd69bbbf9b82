// Package net performs the single HTTP/1.0 exchange behind miniwget.
package net

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/monolythium/miniwget/internal/urlparse"
	"github.com/monolythium/miniwget/internal/wire"
)

// DefaultChunkSize is the size of each socket read.
const DefaultChunkSize = 1024

// Failure classes carried in Result.Err. Match them with errors.Is.
var (
	ErrResolution = errors.New("resolution failure")
	ErrConnection = errors.New("connection failure")
	ErrTransfer   = errors.New("transfer failure")
)

// Status is the outcome of a fetch.
type Status int

const (
	StatusSuccess Status = iota
	StatusResolutionFailure
	StatusConnectionFailure
	StatusTransferFailure
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusResolutionFailure:
		return "resolution failure"
	case StatusConnectionFailure:
		return "connection failure"
	case StatusTransferFailure:
		return "transfer failure"
	default:
		return "UNKNOWN"
	}
}

// Resolver looks up the addresses of a host. *net.Resolver implements it.
type Resolver interface {
	LookupIP(ctx context.Context, network, host string) ([]net.IP, error)
}

// Dialer opens stream connections. *net.Dialer implements it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Endpoint is a resolved IPv4 address and port.
type Endpoint struct {
	IP   net.IP
	Port int
}

// String returns ip:port.
func (e Endpoint) String() string {
	if e.IP == nil {
		return ""
	}
	return net.JoinHostPort(e.IP.String(), strconv.Itoa(e.Port))
}

// Result describes a finished fetch.
type Result struct {
	// Bytes is exactly the number of bytes the sink accepted.
	Bytes    int64
	Status   Status
	Endpoint Endpoint
	Elapsed  time.Duration
	// Err is nil on success and wraps one of ErrResolution, ErrConnection
	// or ErrTransfer otherwise.
	Err error
}

// OK reports whether the response was copied through to a clean peer close.
func (r Result) OK() bool {
	return r.Status == StatusSuccess
}

// Engine fetches a single URL per call. The zero value is not usable; use NewEngine.
type Engine struct {
	Resolver  Resolver
	Dialer    Dialer
	UserAgent string
	ChunkSize int
	Logger    *slog.Logger

	// OnRelease, if set, runs once when the session of a fetch is released.
	OnRelease func()
}

// NewEngine creates an Engine backed by the system resolver and dialer.
func NewEngine() *Engine {
	return &Engine{
		Resolver:  net.DefaultResolver,
		Dialer:    &net.Dialer{},
		UserAgent: wire.DefaultUserAgent,
		ChunkSize: DefaultChunkSize,
		Logger:    slog.Default(),
	}
}

// Get decomposes rawURL and fetches it into sink. A decomposition failure is
// returned as the error and no network activity takes place.
func (e *Engine) Get(ctx context.Context, rawURL string, sink io.Writer) (Result, error) {
	target, err := urlparse.Decompose(rawURL)
	if err != nil {
		return Result{}, err
	}
	return e.Fetch(ctx, target, sink), nil
}

// Fetch resolves target.Host, connects, sends a GET for target.Path and
// copies the response to sink until the peer closes the connection.
func (e *Engine) Fetch(ctx context.Context, target urlparse.Target, sink io.Writer) Result {
	logger := e.Logger
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	sess := OpenSession(e.OnRelease)
	defer sess.Close()

	result := e.fetch(ctx, sess, logger, target, sink)
	result.Elapsed = time.Since(start)

	if result.Err != nil {
		logger.Debug("fetch failed", "url", target.String(), "status", result.Status, "bytes", result.Bytes, "error", result.Err)
	} else {
		logger.Debug("fetch complete", "url", target.String(), "bytes", result.Bytes, "elapsed", result.Elapsed)
	}
	return result
}

func (e *Engine) fetch(ctx context.Context, sess *Session, logger *slog.Logger, target urlparse.Target, sink io.Writer) Result {
	ip, err := e.resolve(ctx, target.Host)
	if err != nil {
		return Result{Status: StatusResolutionFailure, Err: err}
	}
	ep := Endpoint{IP: ip, Port: target.Port}
	logger.Debug("resolved host", "host", target.Host, "ip", ip.String())

	dialer := e.Dialer
	if dialer == nil {
		dialer = &net.Dialer{}
	}
	conn, err := dialer.DialContext(ctx, "tcp4", ep.String())
	if err != nil {
		return Result{
			Status:   StatusConnectionFailure,
			Endpoint: ep,
			Err:      fmt.Errorf("%w: connect %s: %w", ErrConnection, ep, err),
		}
	}
	sess.Attach(conn)
	logger.Debug("connected", "remote", conn.RemoteAddr().String())

	if _, err := wire.WriteGet(conn, target.Path, target.Host, e.UserAgent); err != nil {
		return Result{
			Status:   StatusConnectionFailure,
			Endpoint: ep,
			Err:      fmt.Errorf("%w: send request to %s: %w", ErrConnection, ep, err),
		}
	}
	logger.Debug("request sent", "path", target.Path)

	n, err := e.copy(sink, conn)
	if err != nil {
		return Result{
			Bytes:    n,
			Status:   StatusTransferFailure,
			Endpoint: ep,
			Err:      fmt.Errorf("%w: after %d bytes: %w", ErrTransfer, n, err),
		}
	}
	return Result{Bytes: n, Status: StatusSuccess, Endpoint: ep}
}

// resolve returns the first IPv4 address of host.
func (e *Engine) resolve(ctx context.Context, host string) (net.IP, error) {
	if ip := net.ParseIP(host); ip != nil {
		if v4 := ip.To4(); v4 != nil {
			return v4, nil
		}
		return nil, fmt.Errorf("%w: %s is not an IPv4 address", ErrResolution, host)
	}

	resolver := e.Resolver
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	ips, err := resolver.LookupIP(ctx, "ip4", host)
	if err != nil {
		return nil, fmt.Errorf("%w: lookup %s: %w", ErrResolution, host, err)
	}
	for _, ip := range ips {
		if v4 := ip.To4(); v4 != nil {
			return v4, nil
		}
	}
	return nil, fmt.Errorf("%w: no IPv4 address for %s", ErrResolution, host)
}

// copy streams src to dst one chunk at a time. It returns nil only when src
// reports io.EOF.
func (e *Engine) copy(dst io.Writer, src io.Reader) (int64, error) {
	size := e.ChunkSize
	if size <= 0 {
		size = DefaultChunkSize
	}
	buf := make([]byte, size)

	var total int64
	for {
		nr, rerr := src.Read(buf)
		if nr > 0 {
			nw, werr := dst.Write(buf[:nr])
			if nw < 0 || nw > nr {
				nw = 0
				if werr == nil {
					werr = errors.New("invalid write result")
				}
			}
			total += int64(nw)
			if werr != nil {
				return total, fmt.Errorf("write output: %w", werr)
			}
			if nw != nr {
				return total, fmt.Errorf("write output: %w", io.ErrShortWrite)
			}
		}
		if rerr == io.EOF {
			return total, nil
		}
		if rerr != nil {
			return total, fmt.Errorf("read response: %w", rerr)
		}
	}
}
