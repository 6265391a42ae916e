package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dmitrijs2005/gastrolog/internal/client/auth"
	"github.com/dmitrijs2005/gastrolog/internal/client/client"
	"github.com/dmitrijs2005/gastrolog/internal/client/config"
	"github.com/dmitrijs2005/gastrolog/internal/client/localstore"
	"github.com/dmitrijs2005/gastrolog/internal/client/models"
	"github.com/dmitrijs2005/gastrolog/internal/client/repositories/kv"
	"github.com/dmitrijs2005/gastrolog/internal/client/services"
	"github.com/dmitrijs2005/gastrolog/internal/client/syncengine"
	"github.com/dmitrijs2005/gastrolog/internal/filex"
	"github.com/dmitrijs2005/gastrolog/internal/logging"
)

type logEngine interface {
	Add(ctx context.Context, draft models.Draft) (models.LogRecord, error)
	Delete(ctx context.Context, id string) bool
	Logs() []models.LogRecord
	LogsByDate(date string) []models.LogRecord
	Status() syncengine.Status
	Reconcile(ctx context.Context)
	Resync(ctx context.Context)
}

type safeLister interface {
	Items() models.SafeList
	Add(ctx context.Context, item string) bool
	Remove(ctx context.Context, item string) bool
	Filter(ingredients []string) []string
}

type analyzer interface {
	Analyze(ctx context.Context, image, memo string) (services.AnalysisResult, error)
}

type session interface {
	Restore(ctx context.Context) string
	Login(ctx context.Context, accessToken, refreshToken string) (string, error)
	Logout(ctx context.Context) error
	Identity(ctx context.Context) string
}

type App struct {
	config   *config.Config
	log      logging.Logger
	engine   logEngine
	safeList safeLister
	analysis analyzer
	session  session
	reader   *bufio.Reader
	out      io.Writer
	now      func() time.Time
	closers  []io.Closer
}

// NewApp wires the client from cfg: file logging, the SQLite database, the
// remote client, token provider, sync engine and services.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	for _, p := range []string{cfg.LogFile, cfg.DatabasePath} {
		if err := filex.EnsureParentDir(p); err != nil {
			return nil, err
		}
	}

	logger, logCloser := logging.NewFileLogger(logging.FileOptions{
		Path:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		Level:      slog.LevelInfo,
	})

	db, err := client.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		_ = logCloser.Close()
		return nil, fmt.Errorf("init database: %w", err)
	}

	policy, err := syncengine.ParsePolicy(cfg.ReconcilePolicy)
	if err != nil {
		_ = db.Close()
		_ = logCloser.Close()
		return nil, err
	}

	repo := kv.NewSQLiteRepository(db)
	store := localstore.New(repo, logger)
	remote := client.NewHTTPClient(cfg.ServerURL, cfg.RequestTimeout)
	provider := auth.NewProvider(repo, auth.Options{TokenURL: cfg.AuthTokenURL, ClientID: cfg.AuthClientID}, logger)

	engine := syncengine.New(store, remote, provider, logger, syncengine.Options{
		Policy:      policy,
		BackoffBase: cfg.ReconcileBackoff,
	})
	safeList := services.NewSafeListService(ctx, store, remote, provider, logger)
	analysis := services.NewAnalysisService(remote, provider, safeList, cfg.DefaultModel)
	sess := services.NewSessionService(provider, engine, safeList, logger)

	return &App{
		config:   cfg,
		log:      logger,
		engine:   engine,
		safeList: safeList,
		analysis: analysis,
		session:  sess,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		now:      time.Now,
		closers:  []io.Closer{db, logCloser},
	}, nil
}

// Run restores the previous session in the background and serves the
// REPL until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	printlnFn("Welcome to GastroLog (type 'help' for commands)")
	go a.session.Restore(ctx)
	runREPL(ctx, a, a.prompt, bufio.NewScanner(a.reader))
}

func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

func (a *App) isLoggedIn() bool {
	return a.engine.Status().Identity != ""
}

// Tick gives a due reconciliation a chance to start. It never blocks the
// prompt.
func (a *App) Tick(ctx context.Context) {
	go a.engine.Reconcile(ctx)
}

func (a *App) prompt() string {
	st := a.engine.Status()
	who := "local"
	if st.Identity != "" {
		who = st.Identity
	}
	s := fmt.Sprintf("%s %s", who, st.State)
	if st.Pending > 0 {
		s += fmt.Sprintf(", %d pending", st.Pending)
	}
	return "(" + s + ")"
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
