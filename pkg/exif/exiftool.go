// Package exif reads photo metadata by shelling out to exiftool. The bridge
// never fails the UI: when exiftool is missing, times out, or prints garbage,
// the reader returns an empty result with an error note instead.
package exif

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os/exec"
	"sync"
	"time"
)

// DefaultReadTimeout is the default timeout for one exiftool invocation.
const DefaultReadTimeout = 5 * time.Second

// MaxOutputSize is the max bytes to read from exiftool output (1MB).
const MaxOutputSize = 1024 * 1024

// MaxConcurrentReads limits concurrent exiftool processes.
const MaxConcurrentReads = 2

// Status describes whether exiftool is usable on this machine.
type Status int

const (
	StatusUnknown Status = iota
	StatusHealthy
	StatusUnavailable
)

// Detector caches whether exiftool exists on PATH.
type Detector struct {
	mu     sync.Mutex
	status Status

	// For testing: allow overriding binary lookup
	lookPath func(name string) (string, error)
}

// NewDetector creates a Detector with the status unchecked.
func NewDetector() *Detector {
	return &Detector{lookPath: exec.LookPath}
}

// Check probes for exiftool and caches the result.
func (d *Detector) Check() Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.lookPath("exiftool"); err != nil {
		d.status = StatusUnavailable
	} else {
		d.status = StatusHealthy
	}
	return d.status
}

// Status returns the last checked status without probing.
func (d *Detector) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status
}

// Metadata is the subset of exiftool tags the detail view shows.
type Metadata struct {
	SourceFile       string  `json:"SourceFile"`
	FileName         string  `json:"FileName"`
	ImageWidth       int     `json:"ImageWidth"`
	ImageHeight      int     `json:"ImageHeight"`
	Make             string  `json:"Make"`
	Model            string  `json:"Model"`
	LensModel        string  `json:"LensModel"`
	DateTimeOriginal string  `json:"DateTimeOriginal"`
	ExposureTime     string  `json:"ExposureTime"`
	FNumber          float64 `json:"FNumber"`
	ISO              int     `json:"ISO"`
	FocalLength      string  `json:"FocalLength"`
}

// Result wraps a metadata read. Error is non-empty when the read failed; the
// Metadata is then the zero value.
type Result struct {
	Metadata  Metadata
	ElapsedMs int
	Error     string
}

// Reader executes exiftool reads with safety wrappers.
// It enforces timeouts, limits concurrent processes, and handles errors
// gracefully. Safe for concurrent use.
type Reader struct {
	detector  *Detector
	semaphore chan struct{}
	timeout   time.Duration

	// For testing: allow overriding command execution
	runCommand func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewReader creates a Reader that uses the provided detector.
func NewReader(detector *Detector) *Reader {
	return &Reader{
		detector:   detector,
		semaphore:  make(chan struct{}, MaxConcurrentReads),
		timeout:    DefaultReadTimeout,
		runCommand: defaultRunCommand,
	}
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithReadTimeout sets the per-read timeout. Non-positive values keep the
// default.
func WithReadTimeout(timeout time.Duration) ReaderOption {
	return func(r *Reader) {
		if timeout > 0 {
			r.timeout = timeout
		}
	}
}

// NewReaderWithOptions creates a Reader with custom options.
func NewReaderWithOptions(detector *Detector, opts ...ReaderOption) *Reader {
	r := NewReader(detector)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Read fetches metadata for one photo file.
func (r *Reader) Read(ctx context.Context, path string) Result {
	if r.detector.Status() != StatusHealthy {
		if r.detector.Check() != StatusHealthy {
			return Result{Error: "exiftool not available"}
		}
	}

	select {
	case r.semaphore <- struct{}{}:
		defer func() { <-r.semaphore }()
	case <-ctx.Done():
		return Result{Error: "context cancelled waiting for semaphore"}
	}

	readCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	output, err := r.runCommand(readCtx, "exiftool", buildArgs(path)...)
	elapsed := time.Since(start)

	if err != nil {
		return Result{
			ElapsedMs: int(elapsed.Milliseconds()),
			Error:     "exiftool execution failed",
		}
	}

	return parseOutput(output, int(elapsed.Milliseconds()))
}

// buildArgs constructs command line arguments for exiftool. -fast2 stops it
// scanning past the metadata segments of large files.
func buildArgs(path string) []string {
	return []string{"-json", "-fast2", path}
}

// parseOutput parses exiftool's JSON output (an array with one object per
// file). Malformed output yields an empty result, not a crash.
func parseOutput(output []byte, elapsedMs int) Result {
	res := Result{ElapsedMs: elapsedMs}
	if len(output) == 0 {
		res.Error = "empty output"
		return res
	}

	var entries []Metadata
	if err := json.Unmarshal(output, &entries); err != nil || len(entries) == 0 {
		res.Error = "failed to parse output"
		return res
	}
	res.Metadata = entries[0]
	return res
}

// defaultRunCommand executes a command and returns its stdout.
func defaultRunCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout bytes.Buffer
	cmd.Stdout = &limitedWriter{w: &stdout, limit: MaxOutputSize}

	if err := cmd.Run(); err != nil {
		return nil, err
	}
	return stdout.Bytes(), nil
}

// limitedWriter wraps a writer and limits total bytes written.
type limitedWriter struct {
	w       io.Writer
	limit   int
	written int
}

func (lw *limitedWriter) Write(p []byte) (n int, err error) {
	remaining := lw.limit - lw.written
	if remaining <= 0 {
		return len(p), nil // Silently discard, return original length
	}
	toWrite := p
	if len(p) > remaining {
		toWrite = p[:remaining]
	}
	written, err := lw.w.Write(toWrite)
	lw.written += written
	if err != nil {
		return written, err
	}
	return len(p), nil // Return original length - we "handled" all data
}
