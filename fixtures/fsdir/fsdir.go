// Package fsdir serves fixtures from a directory tree laid out as
// <root>/<subject>/<resource>. Each Read hits the filesystem directly so a
// fixture file edited while the gateway runs is reflected on the next read.
package fsdir

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/finvel/fingate/fixtures"
)

var _ fixtures.Provider = (*Provider)(nil)

// Option configures the Provider.
type Option func(*Provider)

// WithLogger sets the slog logger used by Watch. Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(p *Provider) { p.log = log }
}

// Provider reads fixture files rooted at a directory.
type Provider struct {
	root string
	log  *slog.Logger
}

// New creates a Provider rooted at root. The directory does not need to exist
// yet; reads against a missing tree simply fail per-request.
func New(root string, opts ...Option) *Provider {
	p := &Provider{root: root, log: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Read returns the current content of <root>/<subject>/<resource>.
func (p *Provider) Read(ctx context.Context, subject string, resource string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(p.root, subject, resource))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("fixture %s/%s: %w", subject, resource, fixtures.ErrNotFound)
		}
		return nil, fmt.Errorf("read fixture %s/%s: %w", subject, resource, err)
	}
	return data, nil
}

// Subjects lists the subject directories under the root, in lexical order.
func (p *Provider) Subjects(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(p.root)
	if err != nil {
		return nil, fmt.Errorf("list fixture root: %w", err)
	}
	subjects := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			subjects = append(subjects, e.Name())
		}
	}
	return subjects, nil
}

// Watch logs fixture mutations under the root until ctx is cancelled. It is
// purely an operator aid: serving never depends on it, since every read goes
// to the filesystem anyway. Returns ctx.Err() on cancellation.
func (p *Provider) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fixture watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(p.root); err != nil {
		return fmt.Errorf("watch fixture root: %w", err)
	}
	subjects, err := p.Subjects(ctx)
	if err != nil {
		return err
	}
	for _, s := range subjects {
		if err := w.Add(filepath.Join(p.root, s)); err != nil {
			p.log.WarnContext(ctx, "fixture.watch.add.fail",
				slog.String("subject", s), slog.String("err", err.Error()))
		}
	}

	p.log.InfoContext(ctx, "fixture.watch.start", slog.String("root", p.root))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op.Has(fsnotify.Create) {
				// Subject directories created after startup get watched too.
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					if err := w.Add(ev.Name); err != nil {
						p.log.WarnContext(ctx, "fixture.watch.add.fail",
							slog.String("path", ev.Name), slog.String("err", err.Error()))
					}
				}
			}
			p.log.InfoContext(ctx, "fixture.change",
				slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			p.log.WarnContext(ctx, "fixture.watch.err", slog.String("err", err.Error()))
		}
	}
}
