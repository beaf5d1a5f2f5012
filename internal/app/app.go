// Package app wires the jmbglens components together and runs them.
//
// The host event loop, the config file watcher and the terminal input pump
// each run in their own goroutine under one errgroup. Every change to editor
// state happens on the host loop.
package app

import (
	"context"
	"errors"
	"math/rand/v2"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"k8s.io/utils/clock"

	"github.com/dshills/jmbglens/internal/clipboard"
	"github.com/dshills/jmbglens/internal/config"
	"github.com/dshills/jmbglens/internal/coordinator"
	"github.com/dshills/jmbglens/internal/decoration"
	"github.com/dshills/jmbglens/internal/editor"
	"github.com/dshills/jmbglens/internal/event"
	"github.com/dshills/jmbglens/internal/event/events"
	"github.com/dshills/jmbglens/internal/logging"
	"github.com/dshills/jmbglens/internal/message"
	"github.com/dshills/jmbglens/internal/panel"
	"github.com/dshills/jmbglens/internal/paste"
	"github.com/dshills/jmbglens/internal/tui"
)

// Options configures the application.
type Options struct {
	// ConfigPath is a TOML or YAML settings file. It is watched for changes.
	ConfigPath string

	// Files are opened on startup. The last one becomes active.
	Files []string

	// ReadOnly opens files read-only.
	ReadOnly bool

	// LogLevel overrides log.level from the settings when set.
	LogLevel string

	// ShowPanel shows the side panel on startup.
	ShowPanel bool

	// SnapshotDir holds the panel snapshot. Empty uses the user cache dir.
	SnapshotDir string

	// NoSnapshots disables the panel snapshot.
	NoSnapshots bool

	// Screen overrides the terminal screen, for tests.
	Screen *tui.Screen

	// Clock overrides the host clock, for tests.
	Clock clock.WithDelayedExecution

	// Logger overrides the logger built from the settings.
	Logger *logging.Logger

	// Clipboard overrides the OSC 52 terminal clipboard.
	Clipboard clipboard.Clipboard

	// Opener overrides the browser used for external links.
	Opener coordinator.Opener

	// Rand overrides the source used to generate identifiers.
	Rand *rand.Rand
}

// Application holds the wired components.
type Application struct {
	opts Options
	log  *logging.Logger

	bus     event.Bus
	host    *editor.Host
	store   *config.Store
	model   *message.Model
	deco    *decoration.Manager
	coord   *coordinator.Coordinator
	paste   *paste.Reconciler
	channel *panel.Channel
	ui      *tui.UI
	watcher *config.Watcher

	logSub    event.Subscription
	stopPanel func()

	running atomic.Bool
}

// New creates and wires an Application.
func New(opts Options) (*Application, error) {
	app := &Application{opts: opts}
	if err := app.bootstrap(); err != nil {
		app.shutdown()
		return nil, err
	}
	return app, nil
}

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Logging
	app.log = app.opts.Logger
	if app.log == nil {
		l, err := logging.New(logging.DefaultConfig())
		if err != nil {
			return &InitError{Component: "logging", Err: err}
		}
		app.log = l
	}

	// 2. Event bus and host
	app.bus = event.NewBus(
		event.WithErrorHandler(func(err error) { app.log.Warn("handler: %v", err) }),
		event.WithPanicHandler(func(ev any, sub event.Subscription, r any) {
			app.log.Error("handler panic on %v: %v", sub.Topic(), r)
		}),
	)
	hostOpts := []editor.Option{editor.WithLogger(app.log)}
	if app.opts.Clock != nil {
		hostOpts = append(hostOpts, editor.WithClock(app.opts.Clock))
	}
	app.host = editor.NewHost(app.bus, hostOpts...)

	// 3. Settings. A broken file is not fatal: defaults apply until it is fixed.
	app.store = config.NewStore(
		config.WithPath(app.opts.ConfigPath),
		config.WithNotifier(app.host),
		config.WithLogger(app.log),
	)
	if err := app.store.Load(); err != nil {
		app.log.Warn("config: %v", err)
	}
	if err := app.applyLogLevel(); err != nil {
		return &InitError{Component: "logging", Err: err}
	}
	sub, err := app.bus.Subscribe(events.TopicConfigChanged,
		event.AsHandlerFunc(func(_ context.Context, ev event.Event[events.ConfigChanged]) error {
			if ev.Payload.Affects("log") {
				return app.applyLogLevel()
			}
			return nil
		}))
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	app.logSub = sub

	// 4. Model, decorations, coordinator and paste reconciler
	app.model = message.NewModel(app.log)
	app.deco = decoration.NewManager(app.host, app.store, app.log)

	clip := app.opts.Clipboard
	if clip == nil {
		clip = clipboard.NewTerminal(os.Stdout, os.Getenv("TMUX") != "")
	}
	opener := app.opts.Opener
	if opener == nil {
		opener = openBrowser
	}
	app.coord = coordinator.New(app.host, app.model, app.deco,
		coordinator.WithClipboard(clip),
		coordinator.WithOpener(opener),
		coordinator.WithLogger(app.log),
	)
	app.paste = paste.New(app.host, app.coord, app.deco, app.model,
		paste.WithSettleDelayFunc(func() time.Duration { return app.store.Settings().Paste.SettleDelay }),
		paste.WithLogger(app.log),
	)
	app.coord.SetPaster(app.paste)

	// 5. Terminal UI and panel channel
	screen := app.opts.Screen
	if screen == nil {
		s, err := tui.NewScreen()
		if err != nil {
			return &InitError{Component: "screen", Err: err}
		}
		screen = s
	}
	uiOpts := []tui.Option{tui.WithLogger(app.log)}
	if app.opts.Rand != nil {
		uiOpts = append(uiOpts, tui.WithRand(app.opts.Rand))
	}
	app.ui = tui.New(screen, app.host, uiOpts...)

	chOpts := []panel.Option{panel.WithNotifier(app.host), panel.WithLogger(app.log)}
	if snaps := app.snapshots(); snaps != nil {
		chOpts = append(chOpts, panel.WithSnapshots(snaps))
	}
	app.channel = panel.New(app.ui.Panel(), chOpts...)
	app.channel.SetHandler(app.coord)
	app.ui.Attach(app.channel)
	app.model.SetObserver(app.channel.Observe)

	stop, err := app.coord.FollowPanel()
	if err != nil {
		return &InitError{Component: "coordinator", Err: err}
	}
	app.stopPanel = stop

	// 6. Config watcher
	if app.opts.ConfigPath != "" {
		w, err := config.NewWatcher(app.opts.ConfigPath, app.reloadConfig,
			config.WithWatcherLogger(app.log),
		)
		if err != nil {
			app.log.Warn("config watcher: %v", err)
		} else {
			app.watcher = w
		}
	}

	// 7. Documents
	for _, file := range app.opts.Files {
		if _, err := app.openFile(file); err != nil {
			return err
		}
	}
	if app.host.ActiveView() == nil {
		app.host.Open(editor.NewDocument(scratchURI, ""))
	}

	// 8. Panel
	if _, err := app.channel.Restore(); err != nil {
		app.log.Warn("restore panel: %v", err)
	}
	if app.opts.ShowPanel {
		app.channel.SetVisible(true)
	}
	return nil
}

func (app *Application) snapshots() *panel.SnapshotStore {
	if app.opts.NoSnapshots {
		return nil
	}
	dir := app.opts.SnapshotDir
	if dir == "" {
		d, err := panel.DefaultSnapshotDir()
		if err != nil {
			app.log.Warn("snapshot dir: %v", err)
			return nil
		}
		dir = d
	}
	return panel.NewSnapshotStore(dir)
}

func (app *Application) applyLogLevel() error {
	level := app.opts.LogLevel
	if level == "" {
		level = app.store.Settings().Log.Level
	}
	return app.log.SetLevel(level)
}

// reloadConfig is called by the watcher from its own goroutine.
func (app *Application) reloadConfig() {
	app.host.Post(func() {
		if err := app.store.Reload(); err != nil {
			app.log.Warn("reload config: %v", err)
		}
	})
}

// Run starts the host loop, the config watcher and the terminal UI, and
// blocks until ctx is cancelled or the user quits.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)
	defer app.shutdown()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ignoreCanceled(app.host.Run(gctx))
	})
	if app.watcher != nil {
		g.Go(func() error {
			return ignoreCanceled(app.watcher.Run(gctx))
		})
	}
	g.Go(func() error {
		defer cancel()
		return app.ui.Run(gctx)
	})
	return g.Wait()
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// shutdown releases components in reverse order. It is safe to call more
// than once and on a partially bootstrapped application.
func (app *Application) shutdown() {
	if app.stopPanel != nil {
		app.stopPanel()
		app.stopPanel = nil
	}
	if app.coord != nil {
		app.coord.Deactivate()
	}
	if app.channel != nil {
		app.channel.Dispose()
	}
	if app.watcher != nil {
		_ = app.watcher.Close()
	}
	if app.logSub != nil {
		_ = app.bus.Unsubscribe(app.logSub)
		app.logSub = nil
	}
	if app.log != nil {
		_ = app.log.Sync()
	}
}

// IsRunning reports whether Run is in progress.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Host returns the editor host.
func (app *Application) Host() *editor.Host { return app.host }

// Store returns the settings store.
func (app *Application) Store() *config.Store { return app.store }

// Coordinator returns the selection coordinator.
func (app *Application) Coordinator() *coordinator.Coordinator { return app.coord }

// Paste returns the paste reconciler.
func (app *Application) Paste() *paste.Reconciler { return app.paste }

// Panel returns the panel channel.
func (app *Application) Panel() *panel.Channel { return app.channel }

// UI returns the terminal UI.
func (app *Application) UI() *tui.UI { return app.ui }
