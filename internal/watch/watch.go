// Package watch re-lexes files as they change on disk. File events are
// debounced, the changed suffix is relexed incrementally, and subscribers
// are notified over a pub/sub broker. Lexed documents live in a TTL cache
// and their styles and per-line state are persisted to the snapshot store,
// so reopening an unchanged file restores them instead of relexing.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/kwatters/hilex/internal/config"
	"github.com/kwatters/hilex/internal/document"
	"github.com/kwatters/hilex/internal/highlight"
	"github.com/kwatters/hilex/internal/log"
	"github.com/kwatters/hilex/internal/pubsub"
	"github.com/kwatters/hilex/internal/statedb"
)

// Update describes a (re)lexed document delivered to subscribers.
type Update struct {
	ID       uuid.UUID
	Path     string
	Lang     highlight.Language
	Doc      *document.Document
	FromLine int // first relexed line; 0 for a full lex
}

type entry struct {
	id   uuid.UUID
	path string
	lang highlight.Language
	doc  *document.Document
}

// Service watches files and keeps their styled documents current.
type Service struct {
	hl       *highlight.Highlighter
	cfg      config.Config
	store    *statedb.Store // may be nil
	fsw      *fsnotify.Watcher
	cache    *gocache.Cache
	broker   *pubsub.Broker[Update]
	debounce time.Duration
	done     chan struct{}
	tracer   *tracer
}

// NewService builds a watch service. store may be nil to skip persistence.
func NewService(hl *highlight.Highlighter, cfg config.Config, store *statedb.Store) (*Service, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	s := &Service{
		hl:       hl,
		cfg:      cfg,
		store:    store,
		fsw:      fsw,
		cache:    gocache.New(cfg.CacheTTL(), 2*cfg.CacheTTL()),
		broker:   pubsub.NewBroker[Update](),
		debounce: cfg.DebounceDuration(),
		done:     make(chan struct{}),
	}
	if cfg.Watch.Trace {
		t, err := newTracer()
		if err != nil {
			_ = fsw.Close()
			return nil, err
		}
		s.tracer = t
	}
	return s, nil
}

// Events returns the broker carrying document updates.
func (s *Service) Events() *pubsub.Broker[Update] { return s.broker }

// Watch loads, lexes and starts watching path. The returned document is the
// one future updates mutate.
func (s *Service) Watch(path string) (*document.Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	lang, err := highlight.DetectLanguage(abs)
	if err != nil {
		return nil, err
	}

	text, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", abs, err)
	}
	doc := document.New(text)

	// a fresh snapshot carries styles, line states and fold levels, so a
	// hit replaces the cold full lex outright; anything stale is evicted
	restored := false
	if s.store != nil {
		if info, err := os.Stat(abs); err == nil {
			snap, err := s.store.Load(abs, info.ModTime())
			if err == nil && snap.Dialect == int(s.hl.Dialect()) && snap.Apply(doc) {
				restored = true
				log.Info(log.CatDB, "snapshot restored, skipping full lex", "path", abs)
			} else if delErr := s.store.Delete(abs); delErr != nil {
				log.ErrorErr(log.CatDB, "evicting stale snapshot", delErr, "path", abs)
			}
		}
	}

	if !restored {
		_, span := s.tracer.start(context.Background(), "lex.full", abs)
		s.hl.LexDocument(doc, lang)
		s.tracer.end(span)
	}

	e := &entry{id: uuid.New(), path: abs, lang: lang, doc: doc}
	s.cache.Set(abs, e, gocache.DefaultExpiration)
	if !restored {
		s.persist(e)
	}

	if err := s.fsw.Add(filepath.Dir(abs)); err != nil {
		return nil, fmt.Errorf("watching directory %s: %w", filepath.Dir(abs), err)
	}
	log.Info(log.CatWatch, "watching", "path", abs, "id", e.id, "lang", lang)

	s.broker.Publish(pubsub.LexedEvent, Update{ID: e.id, Path: abs, Lang: lang, Doc: doc})
	return doc, nil
}

// Start begins processing file events until Stop is called.
func (s *Service) Start() {
	go s.loop()
}

// Stop terminates the watcher and releases resources.
func (s *Service) Stop() error {
	close(s.done)
	s.broker.Close()
	if s.tracer != nil {
		s.tracer.shutdown()
	}
	return s.fsw.Close()
}

func (s *Service) loop() {
	var (
		timer   *time.Timer
		pending = map[string]struct{}{}
	)
	timerC := func() <-chan time.Time {
		if timer != nil {
			return timer.C
		}
		return nil
	}

	for {
		select {
		case event, ok := <-s.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			if _, found := s.cache.Get(abs); !found {
				continue
			}
			pending[abs] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(s.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(s.debounce)
			}

		case <-timerC():
			for path := range pending {
				s.relex(path)
				delete(pending, path)
			}
			timer = nil

		case err, ok := <-s.fsw.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatWatch, "watcher error", err)

		case <-s.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

func (s *Service) relex(path string) {
	cached, found := s.cache.Get(path)
	if !found {
		return
	}
	e, ok := cached.(*entry)
	if !ok {
		log.Error(log.CatCache, "wrong type in document cache", "path", path)
		return
	}

	text, err := os.ReadFile(path)
	if err != nil {
		log.ErrorErr(log.CatWatch, "re-reading changed file", err, "path", path)
		return
	}

	firstDiff := e.doc.UpdateText(text)
	if firstDiff < 0 {
		log.Debug(log.CatWatch, "change event without content change", "path", path)
		return
	}
	fromLine := e.doc.LineOfPos(firstDiff)

	_, span := s.tracer.start(context.Background(), "lex.incremental", path)
	s.hl.Relex(e.doc, e.lang, firstDiff)
	s.tracer.end(span)

	s.cache.Set(path, e, gocache.DefaultExpiration)
	s.persist(e)
	log.Info(log.CatWatch, "relexed", "path", path, "id", e.id, "from_line", fromLine)

	s.broker.Publish(pubsub.LexedEvent, Update{
		ID: e.id, Path: path, Lang: e.lang, Doc: e.doc, FromLine: fromLine,
	})
}

func (s *Service) persist(e *entry) {
	if s.store == nil {
		return
	}
	info, err := os.Stat(e.path)
	if err != nil {
		return
	}
	snap := statedb.FromDocument(e.path, info.ModTime(), int(s.hl.Dialect()), e.doc)
	if err := s.store.Save(snap); err != nil {
		log.ErrorErr(log.CatDB, "persisting snapshot", err, "path", e.path)
	}
}
