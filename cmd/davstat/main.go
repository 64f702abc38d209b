package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sourcegraph/conc/pool"
	flag "github.com/spf13/pflag"
	"github.com/studio-b12/gowebdav"

	"github.com/davstat/internal/core/config"
	"github.com/davstat/internal/core/logger"
	"github.com/davstat/internal/core/operations"
	"github.com/davstat/internal/core/webdav"
	"github.com/davstat/internal/interfaces"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, paths, err := config.ParseCommandLineArgs()
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to parse config/flags:", err)
		return 2
	}

	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "Error: missing required positional arguments: <remote-path>...")
		return 2
	}

	logger, err := logger.New(cfg.Verbose, cfg.StdLog, cfg.ErrLog)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		return 1
	}
	defer logger.Close()

	resolver, err := webdav.NewResolver(cfg.URL, cfg.DavRoot, cfg.Username)
	if err != nil {
		logger.Errorf("Bad server address: %v", err)
		return 2
	}

	logger.Logf("server=%q files=%q user=%q workers=%d", cfg.URL, resolver.FilesDavPath(), cfg.Username, cfg.Workers)

	if !cfg.SkipCheck {
		if err := probe(resolver, cfg, logger); err != nil {
			logger.Errorf("webdav client: couldn't connect to the server: %v", err)
			return 1
		}
	}

	client := webdav.NewClient(resolver, webdav.Options{
		Username: cfg.Username,
		Password: cfg.Password,
	})

	outs := readAll(client, paths, cfg, logger)

	if err := printOutcomes(os.Stdout, paths, outs); err != nil {
		logger.Errorf("Cannot write results: %v", err)
		return 1
	}

	for _, out := range outs {
		if !out.Success() {
			return 1
		}
	}
	return 0
}

// probe checks the files collection is reachable with the configured
// credentials before any read is issued.
func probe(resolver *webdav.Resolver, cfg *config.Config, logger interfaces.FullLogger) error {
	timeout := cfg.ConnectTimeout
	if timeout == 0 {
		timeout = operations.DefaultConnectTimeout
	}

	c := gowebdav.NewClient(resolver.Root(), cfg.Username, cfg.Password)
	c.SetTimeout(timeout)

	logger.Log("Trying to connect to the server...")
	if err := c.Connect(); err != nil {
		return err
	}
	logger.Log("Server health check successful")
	return nil
}

func readAll(client interfaces.TransportClient, paths []string, cfg *config.Config, logger interfaces.FullLogger) []operations.Outcome {
	outs := make([]operations.Outcome, len(paths))
	p := pool.New().WithMaxGoroutines(cfg.Workers)

	for i, remotePath := range paths {
		i, remotePath := i, remotePath
		op := operations.NewReadFile(remotePath,
			operations.WithTimeouts(cfg.ReadTimeout, cfg.ConnectTimeout),
			operations.WithLogger(logger),
		)
		p.Go(func() {
			outs[i] = operations.Execute(op.Operation(), client)
			logger.Logf("%s: %s", remotePath, outs[i].Message())
		})
	}

	p.Wait()
	return outs
}

func printOutcomes(w io.Writer, paths []string, outs []operations.Outcome) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tSTATUS\tTYPE\tSIZE\tMODIFIED\tETAG")

	for i, out := range outs {
		if !out.Success() || len(out.Payload()) == 0 {
			status := "-"
			if out.StatusCode() != 0 {
				status = fmt.Sprint(out.StatusCode())
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t\t\t\n", paths[i], status, out.Code())
			continue
		}

		f := out.Payload()[0]
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\n",
			f.Path(), out.StatusCode(), f.ContentType(), size(f.Size()), modified(f.Modified()), f.ETag())
	}

	return tw.Flush()
}

func size(n int64) string {
	if n < 0 {
		return "-"
	}
	return humanize.IBytes(uint64(n))
}

func modified(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}
