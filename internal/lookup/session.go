// Package lookup runs one lookup cycle: resolve the input to a title and file
// list, collect Drive file details and optionally enrich the title.
package lookup

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Digital-Shane/semv/internal/ident"
	semvlog "github.com/Digital-Shane/semv/internal/log"
	"github.com/Digital-Shane/semv/internal/media"
	"github.com/Digital-Shane/semv/internal/provider"
)

// ErrStale is returned by Run when a newer cycle started before this one
// finished. The stale result is discarded.
var ErrStale = errors.New("lookup superseded by a newer request")

// ContentLookup maps a post ID to its title and file IDs.
type ContentLookup interface {
	Lookup(ctx context.Context, ct provider.ContentType, id string) (provider.ContentResult, error)
}

// DriveResolver resolves Drive IDs and fetches file details.
type DriveResolver interface {
	Resolve(ctx context.Context, id string) (provider.ContentResult, provider.FileInfoSet, error)
	FetchAll(ctx context.Context, ids []string) provider.FileInfoSet
	HasKey() bool
}

// Enricher yields the providers to try for a content type, best first.
// *provider.Registry implements it.
type Enricher interface {
	Enabled(ct provider.ContentType) []provider.Provider
}

// Recorder receives every finished, non-stale cycle.
type Recorder interface {
	Record(entry semvlog.LookupLog)
}

type Options struct {
	Content  ContentLookup
	Drive    DriveResolver
	Enricher Enricher
	Recorder Recorder
	Logger   *slog.Logger

	// Timeout bounds a whole cycle. Zero means no limit beyond the caller's
	// context.
	Timeout time.Duration

	// SkipFiles disables the batch file-info fetch after a content lookup.
	SkipFiles bool
}

// Outcome is the result of a successful cycle.
type Outcome struct {
	Request    provider.LookupRequest
	ID         string
	Result     provider.ContentResult
	Files      provider.FileInfoSet
	Metadata   *provider.Metadata
	Generation uint64
	Duration   time.Duration
}

// Session serializes lookup cycles. Starting a cycle cancels the one in
// flight, and only the newest cycle may return a result.
type Session struct {
	opts       Options
	logger     *slog.Logger
	generation atomic.Uint64

	mu     sync.Mutex
	cancel context.CancelFunc
}

func New(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Session{opts: opts, logger: logger}
}

// Current returns the generation of the most recently started cycle.
func (s *Session) Current() uint64 {
	return s.generation.Load()
}

// Cancel aborts the cycle in flight, if any.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Run executes one lookup cycle for req.
func (s *Session) Run(ctx context.Context, req provider.LookupRequest) (*Outcome, error) {
	input := strings.TrimSpace(req.RawInput)
	if input == "" {
		return nil, provider.NewError("lookup", provider.CodeInvalidInput, "input is empty", nil)
	}

	cctx, gen, done := s.begin(ctx)
	defer done()

	start := time.Now()
	logger := s.logger.With("generation", gen, "type", req.ContentType, "input", input)
	logger.Debug("lookup started")

	out, err := s.run(cctx, req.ContentType, input, logger)

	if s.generation.Load() != gen {
		logger.Debug("lookup discarded", "reason", "superseded")
		return nil, ErrStale
	}

	elapsed := time.Since(start)
	s.record(req, input, out, err, elapsed)

	if err != nil {
		logger.Info("lookup failed", "error", err, "code", provider.CodeOf(err), "elapsed", elapsed)
		return nil, err
	}

	out.Request = req
	out.Generation = gen
	out.Duration = elapsed
	logger.Info("lookup done", "title", out.Result.Title, "files", len(out.Result.FileIDs), "details", len(out.Files), "elapsed", elapsed)
	return out, nil
}

// begin starts a new generation and cancels the previous cycle.
func (s *Session) begin(ctx context.Context) (context.Context, uint64, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	gen := s.generation.Add(1)

	var cctx context.Context
	var cancel context.CancelFunc
	if s.opts.Timeout > 0 {
		cctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
	} else {
		cctx, cancel = context.WithCancel(ctx)
	}
	s.cancel = cancel

	return cctx, gen, func() {
		s.mu.Lock()
		if s.generation.Load() == gen {
			s.cancel = nil
		}
		s.mu.Unlock()
		cancel()
	}
}

func (s *Session) run(ctx context.Context, ct provider.ContentType, input string, logger *slog.Logger) (*Outcome, error) {
	switch ct {
	case provider.ContentMovie, provider.ContentSeries:
		return s.runContent(ctx, ct, input, logger)
	case provider.ContentDrive:
		return s.runDrive(ctx, input)
	default:
		return nil, provider.NewError("lookup", provider.CodeInvalidInput, "unknown content type: "+string(ct), nil)
	}
}

func (s *Session) runContent(ctx context.Context, ct provider.ContentType, id string, logger *slog.Logger) (*Outcome, error) {
	if s.opts.Content == nil {
		return nil, errors.New("content lookup is not configured")
	}

	result, err := s.opts.Content.Lookup(ctx, ct, id)
	if err != nil {
		return nil, err
	}
	out := &Outcome{ID: id, Result: result}

	switch {
	case s.opts.SkipFiles, len(result.FileIDs) == 0:
	case s.opts.Drive == nil || !s.opts.Drive.HasKey():
		logger.Debug("file details skipped", "reason", "no drive api key")
	default:
		out.Files = s.opts.Drive.FetchAll(ctx, result.FileIDs)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	out.Metadata = s.enrich(ctx, ct, result, logger)
	return out, nil
}

func (s *Session) runDrive(ctx context.Context, input string) (*Outcome, error) {
	id, ok := ident.ExtractID(input)
	if !ok {
		return nil, provider.NewError("lookup", provider.CodeInvalidInput, "no Google Drive ID found in input", nil)
	}
	if s.opts.Drive == nil || !s.opts.Drive.HasKey() {
		return nil, provider.NewError("drive", provider.CodeAuthFailed, "no Google Drive API key configured", nil)
	}

	result, files, err := s.opts.Drive.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Outcome{ID: id, Result: result, Files: files}, nil
}

// enrich tries each enabled provider in priority order. The first success
// wins; failures are logged and never fail the cycle.
func (s *Session) enrich(ctx context.Context, ct provider.ContentType, result provider.ContentResult, logger *slog.Logger) *provider.Metadata {
	if s.opts.Enricher == nil {
		return nil
	}

	title, year := media.ParseTitle(result.Title)
	if title == "" {
		return nil
	}
	if result.Year != "" {
		year = result.Year
	}

	for _, p := range s.opts.Enricher.Enabled(ct) {
		meta, err := p.Fetch(ctx, provider.FetchRequest{
			ContentType: ct,
			Title:       title,
			Year:        year,
		})
		if err != nil {
			logger.Debug("enrichment failed", "provider", p.Name(), "error", err)
			if ctx.Err() != nil {
				return nil
			}
			continue
		}
		if meta != nil {
			logger.Debug("enriched", "provider", p.Name(), "year", meta.Core.Year)
			return meta
		}
	}
	return nil
}

func (s *Session) record(req provider.LookupRequest, input string, out *Outcome, err error, elapsed time.Duration) {
	if s.opts.Recorder == nil {
		return
	}

	entry := semvlog.LookupLog{
		Timestamp:  time.Now(),
		Kind:       semvlog.LookupKind(req.ContentType),
		Input:      input,
		DurationMS: elapsed.Milliseconds(),
		Success:    err == nil,
	}
	if err != nil {
		entry.Error = err.Error()
	}
	if out != nil {
		entry.Title = out.Result.Title
		entry.FileIDs = out.Result.FileIDs
		entry.FilesFound = len(out.Result.FileIDs)
	}
	s.opts.Recorder.Record(entry)
}
