package syncengine

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/dmitrijs2005/gastrolog/internal/client/client"
	"github.com/dmitrijs2005/gastrolog/internal/client/models"
	"github.com/dmitrijs2005/gastrolog/internal/logging"
)

// LocalStore is the durable half of the engine's state.
type LocalStore interface {
	LoadLogs(ctx context.Context) []models.LogRecord
	SaveLogs(ctx context.Context, records []models.LogRecord) error
}

// TokenSource hands out a bearer token for the signed-in identity.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Observer receives a private copy of the collection after every change.
// Observers may read from the engine but must not mutate it.
type Observer func(logs []models.LogRecord)

type State int

const (
	StateIdle State = iota
	StateRunning
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "syncing"
	case StateDone:
		return "synced"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type Status struct {
	Identity string
	State    State
	Total    int
	Pending  int
	RetryAt  time.Time
}

type Options struct {
	Policy      Policy
	BackoffBase time.Duration
	BackoffCap  time.Duration
	// MaxRetries bounds backoff retries per identity; zero means no bound.
	MaxRetries uint64
	Now        func() time.Time
	NewID      func() string
}

type Engine struct {
	mu       sync.Mutex
	notifyMu sync.Mutex

	local  LocalStore
	remote client.RemoteStore
	tokens TokenSource
	log    logging.Logger
	opts   Options

	identity   string
	generation uint64
	state      State
	logs       []models.LogRecord
	// loaded reports whether logs holds the durable collection for this
	// identity, not just records added since the switch.
	loaded bool
	// deleted holds ids removed while the current pass is in flight.
	deleted map[string]struct{}
	backoff retry.Backoff
	retryAt    time.Time

	observers map[int]Observer
	nextObsID int
	seq       uint64
	delivered uint64 // guarded by notifyMu
}

func New(local LocalStore, remote client.RemoteStore, tokens TokenSource, log logging.Logger, opts Options) *Engine {
	if opts.Policy == "" {
		opts.Policy = PolicyGiveUp
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	e := &Engine{
		local:     local,
		remote:    remote,
		tokens:    tokens,
		log:       logging.Component(log, "syncengine"),
		opts:      opts,
		logs:      []models.LogRecord{},
		deleted:   map[string]struct{}{},
		observers: map[int]Observer{},
	}
	e.backoff = e.newBackoff()
	return e
}

// SetIdentity switches the engine to another user ("" for local-only).
// The in-memory collection is cleared and the reconciliation guard reset;
// the caller triggers the next Reconcile. It reports whether anything
// changed.
func (e *Engine) SetIdentity(identity string) bool {
	e.mu.Lock()
	if identity == e.identity {
		e.mu.Unlock()
		return false
	}
	e.log.Info(context.Background(), "identity changed", "from", e.identity, "to", identity)
	e.identity = identity
	e.generation++
	e.state = StateIdle
	e.retryAt = time.Time{}
	e.backoff = e.newBackoff()
	e.logs = []models.LogRecord{}
	e.loaded = false
	e.deleted = map[string]struct{}{}
	e.commitLocked(context.Background(), false)
	return true
}

// Reconcile merges the local collection with the server for the current
// identity. Calls while a pass is running, or after one has finished for
// this identity, return immediately.
func (e *Engine) Reconcile(ctx context.Context) {
	e.mu.Lock()
	if !e.shouldRunLocked() {
		e.mu.Unlock()
		return
	}
	e.state = StateRunning
	e.deleted = map[string]struct{}{}
	gen, identity := e.generation, e.identity
	e.mu.Unlock()

	local := e.local.LoadLogs(ctx)

	if identity == "" {
		e.complete(ctx, gen, local, false)
		return
	}

	token, err := e.tokens.Token(ctx)
	if err != nil || token == "" {
		e.log.Info(ctx, "reconcile skipped: no usable token", "error", err)
		e.abort(ctx, gen, local)
		return
	}

	effective, err := e.pull(ctx, token, local)
	if err != nil {
		e.log.Error(ctx, "reconcile failed, showing local data", "identity", identity, "error", err)
		e.fail(ctx, gen, local)
		return
	}
	e.complete(ctx, gen, effective, true)
}

// Resync forgets that the current identity was reconciled and runs a new
// pass.
func (e *Engine) Resync(ctx context.Context) {
	e.mu.Lock()
	if e.state != StateRunning {
		e.state = StateIdle
		e.retryAt = time.Time{}
		e.backoff = e.newBackoff()
	}
	e.mu.Unlock()
	e.Reconcile(ctx)
}

// pull pushes the local records that are explicitly unsynced and returns
// the server's collection, all marked synced.
func (e *Engine) pull(ctx context.Context, token string, local []models.LogRecord) ([]models.LogRecord, error) {
	remote, err := e.remote.GetLogs(ctx, token)
	if err != nil {
		return nil, err
	}

	var pending []models.LogRecord
	for _, r := range local {
		if r.IsUnsynced() {
			pending = append(pending, r)
		}
	}
	if len(pending) > 0 {
		e.log.Debug(ctx, "pushing unsynced records", "count", len(pending))
		if err := e.remote.SaveLogs(ctx, token, pending); err != nil {
			return nil, err
		}
		if remote, err = e.remote.GetLogs(ctx, token); err != nil {
			return nil, err
		}
	}

	out := make([]models.LogRecord, len(remote))
	for i, r := range remote {
		out[i] = r.WithSynced(true)
	}
	return out, nil
}

func (e *Engine) complete(ctx context.Context, gen uint64, logs []models.LogRecord, persist bool) {
	e.mu.Lock()
	if gen != e.generation {
		e.mu.Unlock()
		e.log.Debug(ctx, "dropping reconcile result for previous identity")
		return
	}
	logs, changed := e.mergeLocked(logs)
	e.logs = logs
	e.loaded = true
	e.state = StateDone
	e.retryAt = time.Time{}
	e.backoff = e.newBackoff()
	e.commitLocked(ctx, persist || changed)
}

// abort leaves the guard open so the next trigger tries again.
func (e *Engine) abort(ctx context.Context, gen uint64, local []models.LogRecord) {
	e.mu.Lock()
	if gen != e.generation {
		e.mu.Unlock()
		return
	}
	logs, changed := e.mergeLocked(local)
	e.logs = logs
	e.loaded = true
	e.state = StateIdle
	e.commitLocked(ctx, changed)
}

func (e *Engine) fail(ctx context.Context, gen uint64, local []models.LogRecord) {
	e.mu.Lock()
	if gen != e.generation {
		e.mu.Unlock()
		return
	}
	logs, changed := e.mergeLocked(local)
	e.logs = logs
	e.loaded = true
	e.state = StateDone
	if e.opts.Policy == PolicyBackoff {
		if next, stop := e.backoff.Next(); !stop {
			e.state = StateFailed
			e.retryAt = e.opts.Now().Add(next)
			e.log.Info(ctx, "reconcile will be retried", "after", next)
		} else {
			e.log.Warn(ctx, "reconcile retries exhausted")
		}
	}
	e.commitLocked(ctx, changed)
}

// mergeLocked returns base without the records deleted while the pass was
// in flight, plus the records added meanwhile, which base cannot know
// about yet. changed reports that the result differs from base, so the
// durable copy needs rewriting.
func (e *Engine) mergeLocked(base []models.LogRecord) (out []models.LogRecord, changed bool) {
	seen := make(map[string]struct{}, len(base))
	for _, r := range base {
		seen[r.ID] = struct{}{}
	}
	var extra []models.LogRecord
	for _, r := range e.logs {
		if _, ok := seen[r.ID]; !ok && r.IsUnsynced() {
			extra = append(extra, r)
		}
	}
	out = make([]models.LogRecord, 0, len(extra)+len(base))
	out = append(out, extra...)
	for _, r := range base {
		if _, gone := e.deleted[r.ID]; gone {
			continue
		}
		out = append(out, r)
	}
	return out, len(out) != len(base)
}

// ensureLoadedLocked pulls the durable collection into memory when no pass
// has done so for this identity yet, so a mutation never persists a
// partial collection over it.
func (e *Engine) ensureLoadedLocked(ctx context.Context) {
	if e.loaded {
		return
	}
	e.logs, _ = e.mergeLocked(e.local.LoadLogs(ctx))
	e.loaded = true
}

func (e *Engine) shouldRunLocked() bool {
	switch e.state {
	case StateIdle:
		return true
	case StateFailed:
		return !e.opts.Now().Before(e.retryAt)
	default:
		return false
	}
}

// Add stores a new record built from draft. Only an invalid draft is an
// error; remote failures leave the record unsynced.
func (e *Engine) Add(ctx context.Context, draft models.Draft) (models.LogRecord, error) {
	if err := draft.Validate(); err != nil {
		return models.LogRecord{}, err
	}

	now := e.opts.Now().UTC()
	ingredients := append([]string{}, draft.Ingredients...)
	rec := models.LogRecord{
		ID:          e.opts.NewID(),
		Date:        draft.Date,
		Image:       draft.Image,
		Memo:        draft.Memo,
		Ingredients: ingredients,
		Life:        draft.Life,
		CreatedAt:   now,
		UpdatedAt:   &now,
	}
	rec = rec.WithSynced(false)

	e.mu.Lock()
	e.ensureLoadedLocked(ctx)
	e.logs = append([]models.LogRecord{rec}, e.logs...)
	gen, identity := e.generation, e.identity
	batch := models.CloneAll(e.logs)
	e.commitLocked(ctx, true)

	if identity == "" {
		return rec.Clone(), nil
	}
	token, err := e.tokens.Token(ctx)
	if err != nil || token == "" {
		e.log.Info(ctx, "record kept local: no usable token", "id", rec.ID, "error", err)
		return rec.Clone(), nil
	}
	if err := e.remote.SaveLogs(ctx, token, batch); err != nil {
		e.log.Error(ctx, "upload failed, record stays unsynced", "id", rec.ID, "error", err)
		return rec.Clone(), nil
	}

	e.mu.Lock()
	if gen != e.generation {
		e.mu.Unlock()
		return rec.Clone(), nil
	}
	e.markSyncedLocked(batch)
	e.commitLocked(ctx, true)
	return rec.Clone(), nil
}

func (e *Engine) markSyncedLocked(pushed []models.LogRecord) {
	ids := make(map[string]struct{}, len(pushed))
	for _, r := range pushed {
		ids[r.ID] = struct{}{}
	}
	for i, r := range e.logs {
		if _, ok := ids[r.ID]; ok {
			e.logs[i] = r.WithSynced(true)
		}
	}
}

// Delete removes the record locally right away and then, when signed in,
// from the server. A failed remote delete is logged and not rolled back.
func (e *Engine) Delete(ctx context.Context, id string) bool {
	e.mu.Lock()
	e.ensureLoadedLocked(ctx)
	idx := -1
	for i, r := range e.logs {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		e.mu.Unlock()
		return false
	}
	e.logs = append(e.logs[:idx:idx], e.logs[idx+1:]...)
	if e.state == StateRunning {
		e.deleted[id] = struct{}{}
	}
	identity := e.identity
	e.commitLocked(ctx, true)

	if identity == "" {
		return true
	}
	token, err := e.tokens.Token(ctx)
	if err != nil || token == "" {
		e.log.Info(ctx, "remote delete skipped: no usable token", "id", id, "error", err)
		return true
	}
	if err := e.remote.DeleteLog(ctx, token, id); err != nil {
		e.log.Error(ctx, "remote delete failed, local delete kept", "id", id, "error", err)
	}
	return true
}

// commitLocked optionally persists the collection, then delivers snapshots
// to observers. It must be called with e.mu held and releases it before
// delivery, so observers may read from the engine. A snapshot overtaken by
// a newer one is not delivered; the newer one already contains it.
func (e *Engine) commitLocked(ctx context.Context, persist bool) {
	if persist {
		if err := e.local.SaveLogs(ctx, e.logs); err != nil {
			e.log.Error(ctx, "local persist failed", "error", err)
		}
	}
	e.seq++
	seq := e.seq
	observers := make([]Observer, 0, len(e.observers))
	snapshots := make([][]models.LogRecord, 0, len(e.observers))
	for _, fn := range e.observers {
		observers = append(observers, fn)
		snapshots = append(snapshots, models.CloneAll(e.logs))
	}
	e.mu.Unlock()

	e.notifyMu.Lock()
	defer e.notifyMu.Unlock()
	if seq < e.delivered {
		return
	}
	e.delivered = seq
	for i, fn := range observers {
		fn(snapshots[i])
	}
}

// Subscribe registers fn for every later change and returns its cancel
// function.
func (e *Engine) Subscribe(fn Observer) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextObsID
	e.nextObsID++
	e.observers[id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.observers, id)
	}
}

// Logs returns a copy of the collection, newest first.
func (e *Engine) Logs() []models.LogRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return models.CloneAll(e.logs)
}

func (e *Engine) LogsByDate(date string) []models.LogRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := []models.LogRecord{}
	for _, r := range e.logs {
		if r.Date == date {
			out = append(out, r.Clone())
		}
	}
	return out
}

func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	st := Status{
		Identity: e.identity,
		State:    e.state,
		Total:    len(e.logs),
		RetryAt:  e.retryAt,
	}
	for _, r := range e.logs {
		if !r.IsSynced() {
			st.Pending++
		}
	}
	return st
}

func (e *Engine) newBackoff() retry.Backoff {
	return newBackoff(e.opts.BackoffBase, e.opts.BackoffCap, e.opts.MaxRetries)
}
