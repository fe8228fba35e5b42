// Package cmd implements the hilex command line interface.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kwatters/hilex/internal/config"
	"github.com/kwatters/hilex/internal/highlight"
	"github.com/kwatters/hilex/internal/log"
	"github.com/kwatters/hilex/internal/statedb"
	"github.com/kwatters/hilex/internal/viewer"
	"github.com/kwatters/hilex/internal/watch"
)

func init() {
	// Query the terminal background before any Bubble Tea program starts so
	// the OSC response cannot race the input loop.
	_ = lipgloss.HasDarkBackground()
}

var (
	version = "dev"
	cfgFile string
	debug   bool
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:     "hilex [file]",
	Short:   "An incremental syntax highlighter and code folder for the terminal",
	Long: `hilex lexes C-family and BASIC-family sources into styled, foldable
terminal views. The engine is incremental: edits re-lex only the changed
suffix of the file, driven by per-line resume state.`,
	Version: version,
	Args:    cobra.ExactArgs(1),
	RunE:    runView,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .hilex/config.yaml, then ~/.config/hilex/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"write a debug log to hilex.log")
	rootCmd.PersistentFlags().Int("dialect", 0,
		"BASIC dialect: 0 modern, 1 classic, 2 scripting")
	rootCmd.Flags().Bool("no-watch", false,
		"disable live reload when the file changes on disk")

	_ = viper.BindPFlag("dialect", rootCmd.PersistentFlags().Lookup("dialect"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("dialect", defaults.Dialect)
	viper.SetDefault("task_markers", defaults.TaskMarkers)
	viper.SetDefault("watch.debounce", defaults.Watch.Debounce)
	viper.SetDefault("cache.ttl", defaults.Cache.TTL)
	setThemeDefaults(defaults.Theme)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// config lookup order: .hilex/config.yaml, then the user config dir
		if _, err := os.Stat(".hilex/config.yaml"); err == nil {
			viper.SetConfigFile(".hilex/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "hilex"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	// a missing config file just means defaults
	_ = viper.ReadInConfig()
	_ = viper.Unmarshal(&cfg)

	if debug || os.Getenv("HILEX_DEBUG") != "" {
		if _, err := log.Init("hilex.log"); err == nil {
			log.SetEnabled(true)
		}
	}
}

func setThemeDefaults(t config.ThemeConfig) {
	viper.SetDefault("theme.comment", t.Comment)
	viper.SetDefault("theme.doc_comment", t.DocComment)
	viper.SetDefault("theme.xml_tag", t.XMLTag)
	viper.SetDefault("theme.task_marker", t.TaskMarker)
	viper.SetDefault("theme.string", t.String)
	viper.SetDefault("theme.escape", t.Escape)
	viper.SetDefault("theme.placeholder", t.Placeholder)
	viper.SetDefault("theme.number", t.Number)
	viper.SetDefault("theme.operator", t.Operator)
	viper.SetDefault("theme.keyword", t.Keyword)
	viper.SetDefault("theme.type_name", t.TypeName)
	viper.SetDefault("theme.class_name", t.ClassName)
	viper.SetDefault("theme.function", t.Function)
	viper.SetDefault("theme.label", t.Label)
	viper.SetDefault("theme.preprocessor", t.Preprocessor)
	viper.SetDefault("theme.date", t.Date)
	viper.SetDefault("theme.fold_gutter", t.FoldGutter)
	viper.SetDefault("theme.line_number", t.LineNumber)
	viper.SetDefault("theme.status_bar", t.StatusBar)
	viper.SetDefault("theme.status_bar_text", t.StatusBarText)
}

// openStateDB opens the snapshot store configured in cfg, defaulting to the
// user cache directory. Returns nil when unavailable; persistence is an
// optimization, never a requirement.
func openStateDB() *statedb.Store {
	path := cfg.StateDB
	if path == "" {
		cacheDir, err := os.UserCacheDir()
		if err != nil {
			return nil
		}
		dir := filepath.Join(cacheDir, "hilex")
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil
		}
		path = filepath.Join(dir, "state.db")
	}
	store, err := statedb.Open(path)
	if err != nil {
		log.ErrorErr(log.CatDB, "opening snapshot store", err, "path", path)
		return nil
	}
	return store
}

func runView(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	hl, err := highlight.New(cfg)
	if err != nil {
		return err
	}

	store := openStateDB()
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	svc, err := watch.NewService(hl, cfg, store)
	if err != nil {
		return err
	}
	doc, err := svc.Watch(args[0])
	if err != nil {
		_ = svc.Stop()
		return err
	}
	lang, err := highlight.DetectLanguage(args[0])
	if err != nil {
		_ = svc.Stop()
		return err
	}

	noWatch, _ := cmd.Flags().GetBool("no-watch")
	events := svc.Events()
	if noWatch {
		events = nil
	} else {
		svc.Start()
	}

	model := viewer.New(hl, doc, lang, args[0], events)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()

	if stopErr := svc.Stop(); stopErr != nil && err == nil {
		err = stopErr
	}
	if err != nil {
		return fmt.Errorf("running viewer: %w", err)
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags).
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
