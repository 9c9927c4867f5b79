package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/idilsaglam/shoplist/internal/config"
	"github.com/idilsaglam/shoplist/internal/liststore"
	"github.com/idilsaglam/shoplist/internal/logging"
	"github.com/idilsaglam/shoplist/internal/store"
	"github.com/idilsaglam/shoplist/internal/store/fileslot"
	"github.com/idilsaglam/shoplist/internal/store/sqliteslot"
	"github.com/idilsaglam/shoplist/internal/ui"
)

// Exit codes: 0 ok, 1 error, 2 usage or rejected input.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// sqliteFile is used when the sqlite backend is pointed at a directory.
const sqliteFile = "shoplist.db"

// Options tune output behavior from root flags.
type Options struct {
	ConfigPath string
	Verbose    bool
	Theme      string
	Backend    string
	Ephemeral  bool // keep the list in memory only
}

// app is everything a subcommand needs, built once per invocation. The
// list itself is read on first use, so commands that never touch it leave
// the stored list alone.
type app struct {
	cfgPath string
	cfg     *config.Config
	log     *zap.Logger
	slot    store.Slot
	store   *liststore.Store
	loaded  bool
}

// list returns the store after loading it once. A corrupt list is reported
// on w and replaced by an empty one.
func (a *app) list(w io.Writer) (*liststore.Store, error) {
	if a.loaded {
		return a.store, nil
	}
	if err := a.store.Load(); err != nil {
		if !errors.Is(err, liststore.ErrCorruptState) {
			return nil, &exitErr{code: exitError, err: fmt.Errorf("load: %w", err)}
		}
		ui.Warn(w, ui.Message(err))
	}
	a.loaded = true
	return a.store, nil
}

func (a *app) close() {
	if a.slot != nil {
		_ = a.slot.Close()
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}

// exitErr carries an exit code through cobra's error return.
type exitErr struct {
	code int
	err  error
}

func (e *exitErr) Error() string { return e.err.Error() }
func (e *exitErr) Unwrap() error { return e.err }

func usageErr(format string, a ...any) error {
	return &exitErr{code: exitUsage, err: fmt.Errorf(format, a...)}
}

// storeErr maps a store error onto an exit code; input problems are usage.
func storeErr(err error) error {
	code := exitError
	if ui.IsValidation(err) || errors.Is(err, liststore.ErrNotFound) {
		code = exitUsage
	}
	return &exitErr{code: code, err: err}
}

// session holds the app built by the root pre-run so Run can release it
// whether or not the subcommand succeeded.
type session struct {
	app *app
}

func (s *session) get() *app { return s.app }

// Run executes the CLI and returns an exit code.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root, sess := newRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if sess.app != nil {
		sess.app.close()
	}
	if err == nil {
		return exitOK
	}
	var ee *exitErr
	if errors.As(err, &ee) {
		ui.Fail(stderr, ui.Message(ee.err))
		return ee.code
	}
	// flag and argument errors from cobra itself
	ui.Fail(stderr, err.Error())
	return exitUsage
}

// newRootCmd assembles the command tree.
func newRootCmd() (*cobra.Command, *session) {
	opt := &Options{}
	sess := &session{}

	root := &cobra.Command{
		Use:   "shop",
		Short: "shop - a tiny shopping list",
		Long: `shop keeps a shopping list on disk.

Items have a name and a category. Names are unique. The list can be
sorted by category, and removing an item asks for confirmation.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return &exitErr{code: exitUsage, err: errors.New("missing command")}
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || !cmd.HasParent() {
				return nil
			}
			var err error
			sess.app, err = newApp(cmd, opt)
			return err
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true

	root.PersistentFlags().StringVar(&opt.ConfigPath, "config", config.DefaultPath(), "config file")
	root.PersistentFlags().BoolVarP(&opt.Verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().StringVar(&opt.Theme, "theme", "", "classic, neon or mono (overrides config)")
	root.PersistentFlags().StringVar(&opt.Backend, "backend", "", "file, sqlite or memory (overrides config)")
	root.PersistentFlags().BoolVar(&opt.Ephemeral, "ephemeral", false, "do not touch disk; keep the list in memory")

	get := sess.get
	root.AddCommand(
		newAddCmd(get),
		newListCmd(get),
		newRemoveCmd(get),
		newSortCmd(get),
		newCategoriesCmd(get),
		newConfigCmd(get),
		newUICmd(get),
	)
	return root, sess
}

func newApp(cmd *cobra.Command, opt *Options) (*app, error) {
	cfg, err := config.Load(opt.ConfigPath)
	if err != nil {
		return nil, &exitErr{code: exitError, err: err}
	}
	if opt.Theme != "" {
		cfg.UI.Theme = opt.Theme
	}
	if opt.Backend != "" {
		cfg.Storage.Backend = opt.Backend
	}
	if opt.Ephemeral {
		cfg.Storage.Backend = config.BackendMemory
	}
	if err := cfg.Validate(); err != nil {
		return nil, usageErr("%v", err)
	}
	ui.SetTheme(cfg.UI.Theme)

	var logger *zap.Logger
	if cfg.Log.File != "" {
		logger, err = logging.New(cfg.Log.Level, cfg.Log.File, opt.Verbose)
	} else {
		logger, err = logging.NewTo(cmd.ErrOrStderr(), cfg.Log.Level, opt.Verbose)
	}
	if err != nil {
		return nil, &exitErr{code: exitError, err: err}
	}

	slot, err := openSlot(cfg.Storage)
	if err != nil {
		_ = logger.Sync()
		return nil, &exitErr{code: exitError, err: fmt.Errorf("open storage: %w", err)}
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		slot.Close()
		return nil, &exitErr{code: exitError, err: err}
	}

	logger.Debug("storage opened",
		zap.String("backend", cfg.Storage.Backend),
		zap.String("path", cfg.Storage.Path),
		zap.String("key", cfg.Storage.Key))

	st := liststore.New(slot, catalog,
		liststore.WithKey(cfg.Storage.Key),
		liststore.WithLogger(logger))

	return &app{cfgPath: opt.ConfigPath, cfg: cfg, log: logger, slot: slot, store: st}, nil
}

func openSlot(sc config.StorageConfig) (store.Slot, error) {
	switch sc.Backend {
	case config.BackendMemory:
		return store.NewMemory(), nil
	case config.BackendSQLite:
		path := sc.Path
		if path == "" {
			path = config.HomeDir()
		}
		if ext := strings.ToLower(filepath.Ext(path)); ext != ".db" && ext != ".sqlite" {
			path = filepath.Join(path, sqliteFile)
		}
		return sqliteslot.Open(path)
	default:
		return fileslot.Open(sc.Path)
	}
}

// Main is the process entry point used by cmd/shop.
func Main() {
	os.Exit(Run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
