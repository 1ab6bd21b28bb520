package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/gofrs/flock"

	"github.com/7591yj/tg-webm-converter/internal/converter"
	"github.com/7591yj/tg-webm-converter/internal/history"
	"github.com/7591yj/tg-webm-converter/internal/logging"
)

// lockFileName is created inside the output directory while a batch runs.
const lockFileName = ".tg-webm-converter.lock"

// ErrBusy indicates another conversion run holds the output directory lock.
var ErrBusy = errors.New("output directory is locked by another conversion run")

// Options selects what a run converts.
//
// FilePath, IconFilePath, and IconPath are mutually exclusive (the CLI
// enforces this). With none of them set, every supported image in SourceDir
// becomes a sticker. IconPath additionally marks one batch member as the
// set icon.
type Options struct {
	FilePath     string
	IconFilePath string
	IconPath     string
	SourceDir    string
}

// Converter is the subset of converter.Converter the runner drives.
type Converter interface {
	ConvertToSticker(ctx context.Context, path string) (converter.Result, error)
	ConvertToIcon(ctx context.Context, path string) (converter.Result, error)
	OutputDir() string
}

// Recorder persists conversion attempts. A nil Recorder disables history.
type Recorder interface {
	Record(ctx context.Context, entry history.Entry) (history.Entry, error)
}

// Summary reports how a run went.
type Summary struct {
	Attempted int
	Converted int
}

// AllSucceeded reports whether every attempted conversion produced output.
func (s Summary) AllSucceeded() bool {
	return s.Converted == s.Attempted
}

// Runner validates inputs and dispatches them to the converter.
type Runner struct {
	opts     Options
	conv     Converter
	recorder Recorder
	logger   *slog.Logger
	out      io.Writer
	emoji    bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithRecorder enables history recording.
func WithRecorder(recorder Recorder) Option {
	return func(r *Runner) {
		r.recorder = recorder
	}
}

// WithLogger overrides the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithWriter overrides where per-file status lines are written.
func WithWriter(out io.Writer) Option {
	return func(r *Runner) {
		if out != nil {
			r.out = out
		}
	}
}

// WithEmoji toggles emoji status prefixes. Off for non-terminal output.
func WithEmoji(enabled bool) Option {
	return func(r *Runner) {
		r.emoji = enabled
	}
}

// New constructs a Runner.
func New(opts Options, conv Converter, options ...Option) *Runner {
	runner := &Runner{
		opts:   opts,
		conv:   conv,
		logger: logging.Discard(),
		out:    os.Stdout,
	}
	for _, option := range options {
		option(runner)
	}
	runner.logger = runner.logger.With("component", "runner")
	return runner
}

// Run validates the requested inputs and converts them. Per-file failures are
// reflected in the summary, not returned as an error; the error return covers
// validation problems, lock contention, and cancellation.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	if err := r.validate(); err != nil {
		return Summary{}, err
	}

	unlock, err := r.acquireLock()
	if err != nil {
		return Summary{}, err
	}
	defer unlock()

	switch {
	case r.opts.FilePath != "":
		return r.runSingle(ctx, r.opts.FilePath, false)
	case r.opts.IconFilePath != "":
		return r.runSingle(ctx, r.opts.IconFilePath, true)
	default:
		return r.runBatch(ctx)
	}
}

func (r *Runner) validate() error {
	for _, path := range []string{r.opts.FilePath, r.opts.IconFilePath, r.opts.IconPath} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("file %s does not exist", path)
			}
			return fmt.Errorf("inspect %s: %w", path, err)
		}
	}
	return nil
}

func (r *Runner) acquireLock() (func(), error) {
	lock := flock.New(filepath.Join(r.conv.OutputDir(), lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock output directory: %w", err)
	}
	if !locked {
		return nil, ErrBusy
	}
	return func() { _ = lock.Unlock() }, nil
}

func (r *Runner) runSingle(ctx context.Context, path string, icon bool) (Summary, error) {
	summary := Summary{Attempted: 1}
	if r.convertOne(ctx, path, icon) {
		summary.Converted = 1
	}
	return summary, ctx.Err()
}

func (r *Runner) runBatch(ctx context.Context) (Summary, error) {
	sourceDir := r.opts.SourceDir
	if sourceDir == "" {
		sourceDir = "."
	}

	files, err := converter.FindSupportedFiles(sourceDir)
	if err != nil {
		return Summary{}, err
	}

	var summary Summary
	for _, file := range files {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
		summary.Attempted++
		icon := r.opts.IconPath != "" && samePath(file, r.opts.IconPath)
		if r.convertOne(ctx, file, icon) {
			summary.Converted++
		}
	}
	return summary, ctx.Err()
}

// convertOne runs a single conversion, records it, and prints a status line.
func (r *Runner) convertOne(ctx context.Context, path string, icon bool) bool {
	kind := converter.KindSticker
	convert := r.conv.ConvertToSticker
	if icon {
		kind = converter.KindIcon
		convert = r.conv.ConvertToIcon
	}

	result, err := convert(ctx, path)
	if err != nil {
		r.record(ctx, history.Entry{
			Kind:       string(kind),
			SourcePath: path,
			Status:     history.StatusFailed,
			Error:      err.Error(),
		})
		fmt.Fprintf(r.out, "%s: %s: %v\n", r.statusLabel(false), filepath.Base(path), err)
		r.logger.Error("conversion failed", "kind", string(kind), "source", path, "error", err)
		return false
	}

	r.record(ctx, history.Entry{
		Kind:        string(result.Kind),
		SourcePath:  result.SourcePath,
		OutputPath:  result.OutputPath,
		OutputBytes: result.OutputBytes,
		Passes:      result.Passes,
		Elapsed:     result.Elapsed,
		Status:      history.StatusSuccess,
	})
	fmt.Fprintf(r.out, "%s: %s (%s)\n", r.statusLabel(true), filepath.Base(result.OutputPath), humanize.IBytes(uint64(result.OutputBytes)))
	return true
}

func (r *Runner) record(ctx context.Context, entry history.Entry) {
	if r.recorder == nil {
		return
	}
	if _, err := r.recorder.Record(ctx, entry); err != nil {
		r.logger.Warn("record history entry", "error", err)
	}
}

func (r *Runner) statusLabel(ok bool) string {
	switch {
	case ok && r.emoji:
		return "✅ Done"
	case ok:
		return "Done"
	case r.emoji:
		return "❌ Failed"
	default:
		return "Failed"
	}
}

// samePath compares two paths after cleaning, falling back to a base-name
// match so "--icon icon.png" matches "./icon.png" from directory scans.
func samePath(a, b string) bool {
	if filepath.Clean(a) == filepath.Clean(b) {
		return true
	}
	if absA, err := filepath.Abs(a); err == nil {
		if absB, err := filepath.Abs(b); err == nil && absA == absB {
			return true
		}
	}
	return filepath.Base(a) == filepath.Base(b)
}
