// Command hangar is a personal catalog and launcher for terminal
// applications. Run without arguments it opens the interactive browser;
// the subcommands cover scripting and one-shot launches.
package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"hangar/internal/catalog"
	"hangar/internal/config"
	"hangar/internal/debug"
	"hangar/internal/discover"
	"hangar/internal/launch"
	"hangar/internal/tui"
)

var (
	debugMode bool
	dbPath    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hangar",
		Short: "Catalog and launcher for terminal applications",
		Long: `hangar keeps a catalog of terminal programs and opens them in a
detected terminal emulator, recording every launch attempt.

Run without arguments to browse the catalog interactively.`,
		Example: `  # Browse the catalog
  hangar

  # Launch by name without the UI
  hangar launch htop

  # Find known programs on PATH and catalog them
  hangar scan --add`,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debugMode {
				debug.EnableAll()
			}
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return runBrowser()
		},
	}

	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable all debug categories")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Catalog database path (default: ~/.config/hangar/hangar.db)")

	rootCmd.AddCommand(
		newLaunchCmd(), newListCmd(), newAddCmd(), newRemoveCmd(),
		newFavoriteCmd(), newScanCmd(), newHistoryCmd(),
		newTerminalsCmd(), newConfigCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadedConfig returns a config manager with the user's settings applied.
func loadedConfig() *config.Manager {
	cfg := config.NewManager()
	if err := cfg.Load(); err != nil {
		debug.Log(debug.APP, "config load: %v", err)
	}
	return cfg
}

// openStore opens the catalog database and seeds the builtin registry
// into an empty one when the config allows it.
func openStore(cfg *config.Manager) (*catalog.Store, error) {
	path := dbPath
	if path == "" {
		var err error
		path, err = catalog.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	store, err := catalog.Open(path)
	if err != nil {
		return nil, err
	}

	if cfg.Get().Behavior.SeedBuiltins {
		if n, err := store.Count(); err == nil && n == 0 {
			// Seed only programs present on PATH; an empty scan falls
			// back to the full registry rather than an empty catalog.
			var available []string
			if candidates, err := discover.Scan(); err == nil {
				for _, c := range candidates {
					available = append(available, c.Command)
				}
			}
			if added, err := store.Seed(available); err != nil {
				debug.Log(debug.STORE, "seeding builtins: %v", err)
			} else {
				debug.Log(debug.APP, "seeded %d builtin entries", added)
			}
		}
	}
	return store, nil
}

// runBrowser starts the interactive catalog browser. An attached launch
// chosen in the browser runs here, after the UI has released the
// terminal, so the store close below covers every exit path.
func runBrowser() error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("hangar needs a terminal; use the subcommands for scripting")
	}

	cfg := loadedConfig()

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	var notify <-chan struct{}
	watcher, err := config.NewWatcher(config.ConfigPath(), 0)
	if err != nil {
		debug.Log(debug.CONFIG, "config watch unavailable: %v", err)
	} else {
		defer watcher.Close()
		notify = watcher.Notify()
	}

	launcher := launch.New(store)

	model, err := tui.NewModel(store, cfg, launcher, notify)
	if err != nil {
		return err
	}

	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}

	m, ok := final.(*tui.Model)
	if !ok || m.Pending() == nil {
		return nil
	}

	t := m.Pending()
	out := launcher.Launch(
		launch.Target{ID: t.ID, Command: t.Command, Args: t.Args, Dir: t.WorkingDir},
		launch.Options{Terminal: cfg.Get().Launch.Terminal, Attached: true},
	)
	printOutcome(t.Name, out)
	if out.Error != "" {
		return errors.New(out.Error)
	}
	return nil
}

func printOutcome(name string, out launch.Outcome) {
	switch {
	case out.Error != "":
		fmt.Fprintf(os.Stderr, "%s: launch failed: %s (%dms)\n",
			name, out.Error, out.Duration.Milliseconds())
	case out.ExitCode != nil:
		fmt.Printf("%s exited %d after %dms\n",
			name, *out.ExitCode, out.Duration.Milliseconds())
	default:
		fmt.Printf("%s launched (%dms)\n", name, out.Duration.Milliseconds())
	}
}
