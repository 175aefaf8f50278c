// Command imglink fingerprints an image and opens the link stored for it.
//
//	imglink [flags] <image> [dictionary.csv]
//
// With one argument the fingerprint is printed. With a dictionary the link is
// looked up exactly, then by proximity, and opened in the default browser.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/pflag"

	imglink "github.com/anatolykoptev/go-imglink"
)

const usageText = `Usage:
  imglink [flags] <image> [dictionary]
  imglink --add <link> [flags] <image> <dictionary>
  imglink --scan <dir> [flags]
  imglink --watch <dir> [flags] <dictionary>

<image> is a file path, an http(s) URL or a data: URI.

Flags:
`

func main() {
	a := &app{stdout: os.Stdout, stderr: os.Stderr, opener: imglink.BrowserOpener{}}
	os.Exit(a.run(os.Args[1:]))
}

// app carries the process streams and link opener so the command can be
// exercised in tests.
type app struct {
	stdout io.Writer
	stderr io.Writer
	opener imglink.URLOpener
}

func (a *app) run(args []string) int {
	opts := loadOptions()
	fs := pflag.NewFlagSet("imglink", pflag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.IntVarP(&opts.HashSize, "hash-size", "s", opts.HashSize, "hash grid side, 1-8 (env IMGLINK_HASH_SIZE)")
	fs.Float64VarP(&opts.Threshold, "threshold", "t", opts.Threshold, "minimum proximity for similar matches, 0-1 (env IMGLINK_THRESHOLD)")
	fs.BoolVar(&opts.Trim, "trim", opts.Trim, "crop near-white borders before hashing (env IMGLINK_TRIM)")
	fs.BoolVar(&opts.AutoOrient, "auto-orient", opts.AutoOrient, "apply EXIF orientation before hashing (env IMGLINK_AUTO_ORIENT)")
	fs.IntVarP(&opts.Workers, "workers", "w", opts.Workers, "concurrent hashes for --scan, 0 = GOMAXPROCS (env IMGLINK_WORKERS)")
	fs.BoolVarP(&opts.NoOpen, "no-open", "n", false, "print the link instead of opening it")
	fs.BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")
	fs.StringVarP(&opts.AddLink, "add", "a", "", "append the image hash with this link to the dictionary")
	fs.StringVar(&opts.ScanDir, "scan", "", "print the hash of every image in a directory")
	fs.StringVar(&opts.WatchDir, "watch", "", "resolve every new image written to a directory")
	fs.Usage = func() {
		fmt.Fprint(a.stderr, usageText)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 1
	}

	setupLogging(a.stderr, opts.Verbose)

	// Zero means "default" to the library; the command requires 1-8.
	if opts.HashSize < 1 {
		fmt.Fprintf(a.stderr, "Error: %v: hash size must be between 1 and %d, got %d\n",
			imglink.ErrConfig, imglink.MaxHashSize, opts.HashSize)
		return 1
	}

	cfg := opts.config()
	cfg.Opener = a.opener
	cfg.OnMatch = func(m imglink.Match) {
		slog.Debug("imglink: match", "hash", m.Hash, "link", m.Link, "score", m.Score, "distance", m.Distance, "exact", m.Exact)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	pos := fs.Args()
	var err error
	switch {
	case opts.ScanDir != "" && len(pos) == 0:
		err = a.scan(ctx, cfg, opts.ScanDir)
	case opts.WatchDir != "" && len(pos) == 1:
		err = a.watch(ctx, cfg, opts, pos[0])
	case opts.ScanDir != "" || opts.WatchDir != "":
		fs.Usage()
		return 1
	case opts.AddLink != "" && len(pos) == 2:
		err = a.add(ctx, cfg, pos[0], pos[1], opts.AddLink)
	case opts.AddLink == "" && len(pos) == 1:
		err = a.printHash(ctx, cfg, pos[0])
	case opts.AddLink == "" && len(pos) == 2:
		err = a.lookup(ctx, cfg, opts, pos[0], pos[1])
	default:
		fs.Usage()
		return 1
	}

	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

func (a *app) printHash(ctx context.Context, cfg *imglink.Config, src string) error {
	hash, err := cfg.HashSource(ctx, src)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, hash)
	return nil
}

func (a *app) add(ctx context.Context, cfg *imglink.Config, src, dictPath, link string) error {
	hash, err := cfg.HashSource(ctx, src)
	if err != nil {
		return err
	}
	if err := imglink.AppendDictionaryEntries(dictPath, []imglink.Entry{{Hash: hash, Link: link}}); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Added %s -> %s\n", hash, link)
	return nil
}

func (a *app) lookup(ctx context.Context, cfg *imglink.Config, opts options, src, dictPath string) error {
	hash, err := cfg.HashSource(ctx, src)
	if err != nil {
		return err
	}
	dict, err := imglink.LoadDictionary(dictPath)
	if err != nil {
		return err
	}
	return a.resolve(cfg, opts, dict, hash)
}

// resolve prints or opens the link for hash. A miss is reported, not failed.
func (a *app) resolve(cfg *imglink.Config, opts options, dict imglink.Dictionary, hash string) error {
	m, err := cfg.Resolve(dict, hash)
	if errors.Is(err, imglink.ErrNotFound) {
		fmt.Fprintf(a.stdout, "No matching link found for hash %s\n", hash)
		return nil
	}
	if err != nil {
		return err
	}

	line := m.Link
	if !m.Exact {
		line = fmt.Sprintf("%s (Proximity: %.2f%%)", m.Link, m.Score*100)
	}
	if opts.NoOpen {
		fmt.Fprintln(a.stdout, line)
		return nil
	}
	if err := cfg.OpenLink(m.Link); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Opened %s\n", line)
	return nil
}

func (a *app) scan(ctx context.Context, cfg *imglink.Config, dir string) error {
	paths, err := imglink.ListImageFiles(dir)
	if err != nil {
		return err
	}

	bar := progressbar.NewOptions(len(paths),
		progressbar.OptionSetWriter(a.stderr),
		progressbar.OptionSetDescription("Hashing images"),
		progressbar.OptionShowCount(),
	)
	results, err := cfg.HashFiles(ctx, paths, func() { _ = bar.Add(1) })
	_ = bar.Finish()
	fmt.Fprintln(a.stderr)
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(a.stderr, "skip %s: %v\n", r.Path, r.Err)
			continue
		}
		fmt.Fprintf(a.stdout, "%s  %s\n", r.Hash, r.Path)
	}
	if failed > 0 && failed == len(results) {
		return fmt.Errorf("none of %d images in %s could be hashed", failed, dir)
	}
	return nil
}

func (a *app) watch(ctx context.Context, cfg *imglink.Config, opts options, dictPath string) error {
	dict, err := imglink.LoadDictionary(dictPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stderr, "Watching %s (Ctrl+C to stop)\n", opts.WatchDir)

	return cfg.Watch(ctx, opts.WatchDir, func(fh imglink.FileHash) {
		if fh.Err != nil {
			slog.Warn("imglink: cannot hash new image", "path", fh.Path, "error", fh.Err.Error())
			return
		}
		fmt.Fprintf(a.stdout, "%s  %s\n", fh.Hash, fh.Path)
		if err := a.resolve(cfg, opts, dict, fh.Hash); err != nil {
			slog.Warn("imglink: resolve failed", "path", fh.Path, "error", err.Error())
		}
	})
}
