package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"hangar/internal/catalog"
	"hangar/internal/config"
	"hangar/internal/discover"
	"hangar/internal/launch"
)

func newLaunchCmd() *cobra.Command {
	var terminal, cwd string
	var attach, detach bool

	cmd := &cobra.Command{
		Use:   "launch <name>",
		Short: "Launch a catalogued program in a terminal window",
		Long: `Launch a catalogued program by name, without the browser.

Attached launches wait for the program and mirror its exit status;
detached launches return as soon as the terminal window is on its way.
The default mode comes from the config file.`,
		Example: `  hangar launch htop
  hangar launch htop --attach
  hangar launch lazygit --terminal kitty --cwd ~/src/project`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg := loadedConfig()
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			t, err := store.GetByName(args[0])
			if err != nil {
				return err
			}
			if t == nil {
				return fmt.Errorf("no catalog entry named %q", args[0])
			}

			c := cfg.Get()
			attached := c.Launch.DefaultAttached
			if attach {
				attached = true
			}
			if detach {
				attached = false
			}
			if terminal == "" {
				terminal = c.Launch.Terminal
			}

			out := launch.New(store).Launch(
				launch.Target{ID: t.ID, Command: t.Command, Args: t.Args, Dir: t.WorkingDir},
				launch.Options{Terminal: terminal, Dir: cwd, Attached: attached},
			)
			printOutcome(t.Name, out)
			if out.Error != "" {
				return errors.New(out.Error)
			}
			if out.ExitCode != nil && *out.ExitCode != 0 {
				// Mirror the child's exit status; close the store first
				// since os.Exit skips the deferred close.
				store.Close()
				os.Exit(*out.ExitCode)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&terminal, "terminal", "", "Terminal emulator ID (default: auto-detect)")
	cmd.Flags().StringVar(&cwd, "cwd", "", "Working directory override")
	cmd.Flags().BoolVar(&attach, "attach", false, "Wait for the program to exit")
	cmd.Flags().BoolVar(&detach, "detach", false, "Return immediately after spawning")
	return cmd
}

func newListCmd() *cobra.Command {
	var category string
	var favorites bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalogued programs",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg := loadedConfig()
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			tuis, err := store.List(catalog.Filter{Category: category, FavoritesOnly: favorites})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCOMMAND\tCATEGORY\tFAV\tLAUNCHES\tLAST LAUNCHED")
			for _, t := range tuis {
				fav := ""
				if t.Favorite {
					fav = "*"
				}
				last := "-"
				if t.LastLaunched != nil {
					last = t.LastLaunched.Format("2006-01-02 15:04")
				}
				cmdline := t.Command
				if len(t.Args) > 0 {
					cmdline += " " + strings.Join(t.Args, " ")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
					t.Name, cmdline, t.Category, fav, t.LaunchCount, last)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Only entries in this category")
	cmd.Flags().BoolVar(&favorites, "favorites", false, "Only favorite entries")
	return cmd
}

func newAddCmd() *cobra.Command {
	var command, category, description, dir string
	var cmdArgs []string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a program to the catalog",
		Example: `  hangar add htop --command htop --category System
  hangar add logs --command journalctl --args -f --args -u --args nginx`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg := loadedConfig()
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			t := &catalog.TUI{
				Name:        args[0],
				Command:     command,
				Args:        cmdArgs,
				WorkingDir:  dir,
				Description: description,
				Category:    category,
			}
			if err := store.Add(t); err != nil {
				return err
			}
			fmt.Printf("Added %s\n", t.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&command, "command", "", "Executable to run (required)")
	cmd.Flags().StringSliceVar(&cmdArgs, "args", nil, "Argument passed to the command (repeatable)")
	cmd.Flags().StringVar(&category, "category", "", "Category")
	cmd.Flags().StringVar(&description, "description", "", "Short description")
	cmd.Flags().StringVar(&dir, "dir", "", "Working directory")
	cmd.MarkFlagRequired("command")
	return cmd
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a program and its launch history",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg := loadedConfig()
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			t, err := store.GetByName(args[0])
			if err != nil {
				return err
			}
			if t == nil {
				return fmt.Errorf("no catalog entry named %q", args[0])
			}
			if err := store.Delete(t.ID); err != nil {
				return err
			}
			fmt.Printf("Removed %s\n", t.Name)
			return nil
		},
	}
}

func newFavoriteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "favorite <name>",
		Short: "Toggle the favorite flag on a program",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg := loadedConfig()
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			t, err := store.GetByName(args[0])
			if err != nil {
				return err
			}
			if t == nil {
				return fmt.Errorf("no catalog entry named %q", args[0])
			}
			if err := store.SetFavorite(t.ID, !t.Favorite); err != nil {
				return err
			}
			if t.Favorite {
				fmt.Printf("%s is no longer a favorite\n", t.Name)
			} else {
				fmt.Printf("%s is now a favorite\n", t.Name)
			}
			return nil
		},
	}
}

func newScanCmd() *cobra.Command {
	var addMissing bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Find known programs on PATH",
		Long: `Scan every PATH directory for executables matching the builtin
registry of known terminal programs. With --add, programs not yet in
the catalog are added.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			candidates, err := discover.Scan()
			if err != nil {
				return err
			}
			if len(candidates) == 0 {
				fmt.Println("No known programs found on PATH")
				return nil
			}

			var store *catalog.Store
			if addMissing {
				cfg := loadedConfig()
				store, err = openStore(cfg)
				if err != nil {
					return err
				}
				defer store.Close()
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tPATH\tCATEGORY\tSTATUS")
			for _, c := range candidates {
				status := "found"
				if store != nil {
					existing, err := store.GetByName(c.Name)
					if err != nil {
						return err
					}
					if existing != nil {
						status = "already catalogued"
					} else {
						err := store.Add(&catalog.TUI{
							Name:        c.Name,
							Command:     c.Command,
							Description: c.Description,
							Category:    c.Category,
						})
						if err != nil {
							return err
						}
						status = "added"
					}
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.Name, c.Path, c.Category, status)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&addMissing, "add", false, "Add programs missing from the catalog")
	return cmd
}

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [name]",
		Short: "Show launch history, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg := loadedConfig()
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if limit == 0 {
				limit = cfg.Get().UI.HistoryLimit
			}

			tuiID := ""
			names := make(map[string]string)
			if len(args) > 0 {
				t, err := store.GetByName(args[0])
				if err != nil {
					return err
				}
				if t == nil {
					return fmt.Errorf("no catalog entry named %q", args[0])
				}
				tuiID = t.ID
				names[t.ID] = t.Name
			} else {
				tuis, err := store.List(catalog.Filter{})
				if err != nil {
					return err
				}
				for _, t := range tuis {
					names[t.ID] = t.Name
				}
			}

			recs, err := store.History(tuiID, limit)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tNAME\tRESULT\tEXIT\tDURATION\tERROR")
			for _, r := range recs {
				result := "fail"
				if r.Success {
					result = "ok"
				}
				exit := "-"
				if r.ExitCode != nil {
					exit = fmt.Sprintf("%d", *r.ExitCode)
				}
				name := names[r.TUIID]
				if name == "" {
					name = r.TUIID
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%dms\t%s\n",
					r.LaunchedAt.Format("2006-01-02 15:04:05"), name, result,
					exit, r.DurationMS, r.Error)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Rows to show (default: history limit from config)")
	return cmd
}

func newTerminalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "terminals",
		Short: "List installed terminal emulators in detection order",
		RunE: func(_ *cobra.Command, _ []string) error {
			installed := launch.DetectTerminals()
			if len(installed) == 0 {
				return errors.New("no terminal emulator found")
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tVERSION\t")
			for _, t := range installed {
				marker := ""
				if t.Default {
					marker = "(default)"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.ID, t.Name, t.Version, marker)
			}
			return w.Flush()
		},
	}
}

func newConfigCmd() *cobra.Command {
	var generate bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or regenerate the config file",
		RunE: func(_ *cobra.Command, _ []string) error {
			if generate {
				backup, err := config.GenerateConfig()
				if err != nil {
					return err
				}
				if backup != "" {
					fmt.Printf("Backed up existing config to %s\n", backup)
				}
				fmt.Printf("Wrote default config to %s\n", config.ConfigPath())
				return nil
			}

			path := config.ConfigPath()
			fmt.Println(path)
			cfg := config.NewManager()
			if err := cfg.Load(); err != nil {
				return err
			}
			if perr := cfg.ParseError(); perr != nil {
				fmt.Fprintf(os.Stderr, "Warning: config has errors, using defaults: %v\n", perr)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&generate, "generate", false, "Write a fresh default config, backing up any existing file")
	return cmd
}
