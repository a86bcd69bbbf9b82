// Package main provides the CLI entry point for miniwget.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/monolythium/miniwget/internal/checksum"
	fetch "github.com/monolythium/miniwget/internal/net"
	"github.com/monolythium/miniwget/internal/report"
	"github.com/monolythium/miniwget/internal/tui"
	"github.com/monolythium/miniwget/internal/urlparse"
	"github.com/monolythium/miniwget/internal/wire"
)

// Version is set at build time.
var Version = "dev"

const usageLine = "usage: miniwget [-O outputfile] [--binary|-b] http://host[:port]/path"

var (
	errMultipleURLs = errors.New("multiple URLs specified")
	errOutputOpen   = errors.New("output open failure")
)

// cliOptions collects the command-line configuration of a single run.
type cliOptions struct {
	output     string
	binary     bool
	userAgent  string
	strictPort bool
	checksum   string
	expect     string
	progress   bool
	quiet      bool
	verbose    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs the CLI and returns the process exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		report.New(stderr).Error(err)
		return 1
	}
	return 0
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &cliOptions{}

	cmd := &cobra.Command{
		Use:   "miniwget [flags] http://host[:port]/path",
		Short: "Fetch a single http:// URL over HTTP/1.0",
		Long: `miniwget resolves the host of an http:// URL, sends a single HTTP/1.0 GET
request and copies the raw response (status line, headers and body) to
standard output or to a file.

  miniwget http://example.com/
  miniwget -O index.html http://example.com:8080/index.html`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return errMultipleURLs
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprintln(stdout, usageLine)
				return nil
			}
			return run(cmd.Context(), opts, args[0], stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.StringVarP(&opts.output, "output", "O", "", "Write the response to `file` instead of standard output")
	flags.BoolVarP(&opts.binary, "binary", "b", true, "Write output in binary mode (always on)")
	flags.StringVarP(&opts.userAgent, "user-agent", "A", wire.DefaultUserAgent, "User-Agent header value")
	flags.BoolVar(&opts.strictPort, "strict-port", false, "Reject malformed port numbers instead of using port 80")
	flags.StringVar(&opts.checksum, "checksum", "", "Print a digest of the received bytes (sha256, sha3-256, blake2b-256)")
	flags.StringVar(&opts.expect, "expect", "", "Fail unless the digest of the received bytes equals `hex`")
	flags.BoolVar(&opts.progress, "progress", false, "Show transfer progress on standard error")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "Do not print the byte count summary")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output")

	return cmd
}

// run performs one fetch of rawURL.
func run(ctx context.Context, opts *cliOptions, rawURL string, stdout, stderr io.Writer) (err error) {
	var logger *slog.Logger
	if opts.verbose {
		logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	} else {
		logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	target, err := urlparse.DecomposeWith(rawURL, urlparse.Options{StrictPort: opts.strictPort})
	if err != nil {
		return err
	}
	logger.Debug("decomposed url", "host", target.Host, "port", target.Port, "path", target.Path)

	sink, closeSink, err := openSink(opts.output, stdout)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeSink(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output: %w", cerr)
		}
	}()

	var digest *checksum.Writer
	if opts.checksum != "" || opts.expect != "" {
		alg := opts.checksum
		if alg == "" {
			alg = checksum.SHA256
		}
		digest, err = checksum.NewWriter(sink, alg)
		if err != nil {
			return err
		}
		sink = digest
	}

	engine := fetch.NewEngine()
	engine.UserAgent = opts.userAgent
	engine.Logger = logger

	var result fetch.Result
	if opts.progress && report.IsTerminal(stderr) && !report.IsTerminal(stdoutIfUsed(opts, stdout)) {
		result, err = tui.Run(ctx, stderr, target.String(), sink, func(w io.Writer) fetch.Result {
			return engine.Fetch(ctx, target, w)
		})
		if err != nil {
			logger.Debug("progress display failed", "error", err)
		}
	} else {
		result = engine.Fetch(ctx, target, sink)
	}

	rep := report.New(stderr)
	if !opts.quiet {
		rep.Result(result)
	}
	if result.Err != nil {
		return result.Err
	}

	if digest != nil {
		sum := digest.Sum()
		rep.Checksum(digest.Algorithm(), sum)
		if opts.expect != "" {
			if err := checksum.Verify(sum, opts.expect); err != nil {
				return err
			}
			rep.Verified(digest.Algorithm())
		}
	}
	return nil
}

// openSink returns the destination for response bytes: a freshly created
// file when path is set, stdout otherwise.
func openSink(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", errOutputOpen, err)
	}
	return f, f.Close, nil
}

// stdoutIfUsed returns stdout when it is the sink, nil otherwise.
func stdoutIfUsed(opts *cliOptions, stdout io.Writer) io.Writer {
	if opts.output != "" {
		return nil
	}
	return stdout
}
