package api

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nyashahama/dengue-assessment-console/internal/areas"
	"github.com/nyashahama/dengue-assessment-console/internal/assistant"
	"github.com/nyashahama/dengue-assessment-console/internal/feed"
	"github.com/nyashahama/dengue-assessment-console/internal/gauge"
	"github.com/nyashahama/dengue-assessment-console/internal/orchestrator"
	"github.com/nyashahama/dengue-assessment-console/internal/predictor"
	"github.com/nyashahama/dengue-assessment-console/internal/session"
)

// ErrSessionNotFound is returned for an unknown or evicted operator session.
var ErrSessionNotFound = errors.New("api: session not found")

// Deps are the collaborators shared by every operator session. Archiver and
// Scheduler may be nil.
type Deps struct {
	Predictor predictor.Predictor
	Assistant assistant.Assistant
	Archiver  orchestrator.Archiver
	Scheduler orchestrator.Scheduler
}

// operator is everything one open assessment page owns.
type operator struct {
	id          uuid.UUID
	session     *session.Session
	feed        *feed.Feed
	predictions *orchestrator.Predictions
	chats       *orchestrator.Conversations

	mu       sync.Mutex
	lastSeen time.Time
}

func (o *operator) touch(now time.Time) {
	o.mu.Lock()
	o.lastSeen = now
	o.mu.Unlock()
}

func (o *operator) idleSince() time.Time {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastSeen
}

// registry holds the live operator sessions.
type registry struct {
	deps   Deps
	cfg    orchestrator.PredictionConfig
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time

	mu        sync.RWMutex
	operators map[uuid.UUID]*operator
}

func newRegistry(deps Deps, cfg orchestrator.PredictionConfig, ttl time.Duration, logger *slog.Logger) *registry {
	return &registry{
		deps:      deps,
		cfg:       cfg,
		ttl:       ttl,
		logger:    logger,
		now:       time.Now,
		operators: make(map[uuid.UUID]*operator),
	}
}

// create wires a fresh session, feed, gauge and both orchestrators.
func (g *registry) create() *operator {
	id := uuid.New()
	log := g.logger.With("session_id", id)

	sess := session.New()
	f := feed.New()
	chats := orchestrator.NewConversations(sess, g.deps.Assistant, f, log)

	o := &operator{
		id:       id,
		session:  sess,
		feed:     f,
		chats:    chats,
		lastSeen: g.now(),
		predictions: orchestrator.NewPredictions(orchestrator.PredictionDeps{
			Session:       sess,
			Predictor:     g.deps.Predictor,
			Conversations: chats,
			View:          f,
			Renderer:      gauge.NewRenderer(f),
			Archiver:      g.deps.Archiver,
			Scheduler:     g.deps.Scheduler,
			AreaChecker:   areas.Contains,
			Logger:        log,
		}, g.cfg),
	}

	g.mu.Lock()
	g.operators[id] = o
	g.mu.Unlock()

	log.Info("session: opened")
	return o
}

func (g *registry) get(id uuid.UUID) (*operator, error) {
	g.mu.RLock()
	o, ok := g.operators[id]
	g.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	o.touch(g.now())
	return o, nil
}

func (g *registry) remove(id uuid.UUID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.operators[id]; !ok {
		return ErrSessionNotFound
	}
	delete(g.operators, id)
	return nil
}

func (g *registry) len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.operators)
}

// sweep evicts sessions idle for longer than the TTL and returns how many
// were removed.
func (g *registry) sweep() int {
	cutoff := g.now().Add(-g.ttl)

	g.mu.Lock()
	defer g.mu.Unlock()

	n := 0
	for id, o := range g.operators {
		if o.idleSince().Before(cutoff) {
			delete(g.operators, id)
			n++
		}
	}
	return n
}

// janitor sweeps every interval until ctx is cancelled.
func (g *registry) janitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := g.sweep(); n > 0 {
				g.logger.Info("session: evicted idle sessions", "count", n, "live", g.len())
			}
		}
	}
}
