// Package logging builds the slog logger used by the tisch CLI and by
// tables constructed with WithLogger.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/paveg/tisch/internal/config"
	slogseq "github.com/sokkalf/slog-seq"
)

const seqFlushInterval = 500 * time.Millisecond

// multiHandler forwards log records to multiple handlers
type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}

// Level maps the verbose flag of cfg to a slog level.
func Level(cfg config.Config) slog.Level {
	if cfg.VerboseLogging {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// SetupLogger builds a text logger on stderr at the level cfg asks for.
// When cfg.SeqURL is set, records are also shipped to Seq. The returned
// function flushes and closes the Seq sink.
func SetupLogger(cfg config.Config) (*slog.Logger, func()) {
	return setupLogger(cfg, os.Stderr)
}

func setupLogger(cfg config.Config, w io.Writer) (*slog.Logger, func()) {
	opts := &slog.HandlerOptions{Level: Level(cfg)}
	consoleHandler := slog.NewTextHandler(w, opts)

	if cfg.SeqURL == "" {
		return slog.New(consoleHandler), func() {}
	}

	_, seqHandler := slogseq.NewLogger(
		cfg.SeqURL,
		slogseq.WithBatchSize(1),
		slogseq.WithFlushInterval(seqFlushInterval),
		slogseq.WithHandlerOptions(opts),
	)

	// If Seq is not available, use console only
	if seqHandler == nil {
		return slog.New(consoleHandler), func() {}
	}

	multi := &multiHandler{
		handlers: []slog.Handler{consoleHandler, seqHandler},
	}

	closeFn := func() {
		seqHandler.Close()
	}
	return slog.New(multi), closeFn
}
