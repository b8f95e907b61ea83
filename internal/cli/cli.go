package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yemekhane/menucal/internal/config"
	"github.com/yemekhane/menucal/internal/logger"
	"github.com/yemekhane/menucal/internal/meal"
	"github.com/yemekhane/menucal/internal/scraper"
	"github.com/yemekhane/menucal/internal/storage"
)

const (
	ExitSuccess = 0
	ExitError   = 1
	ExitNoMenu  = 2
)

// errNoMenu signals that none of the requested dates had a menu.
var errNoMenu = errors.New("no menu found for the requested dates")

// now is replaced in tests.
var now = time.Now

type options struct {
	configPath string
	dataDir    string
	baseURL    string
	date       string
	days       int
	format     string
	output     string
	save       bool
	savePages  bool
	verbose    bool
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "menucal",
		Short: "Fetch the METU cafeteria menu",
		Long: `A CLI tool to fetch the METU cafeteria lunch and dinner menus.
Prints the menu for a date (today by default) or a range of days, and can
export it as an iCalendar file or a printable PDF.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, opts)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "Config file (default "+config.DefaultConfigPath+" if present)")
	pf.StringVar(&opts.dataDir, "data-dir", "", "Data directory for saved menus and pages")
	pf.StringVar(&opts.baseURL, "base-url", "", "Cafeteria site base URL")
	pf.StringVar(&opts.format, "format", string(FormatText), "Output format: text, json, ics or pdf")
	pf.StringVarP(&opts.output, "output", "o", "", "Write output to a file instead of stdout")
	pf.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")

	f := cmd.Flags()
	f.StringVar(&opts.date, "date", "", "Date to fetch as DD/MM/YYYY (default today)")
	f.IntVar(&opts.days, "days", 1, "Number of consecutive days to fetch")
	f.BoolVar(&opts.save, "save", false, "Merge fetched menus into the local snapshot")
	f.BoolVar(&opts.savePages, "save-pages", false, "Keep raw pages under <data-dir>/pages")

	cmd.AddCommand(newParseCmd(opts))

	return cmd
}

func newParseCmd(opts *options) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "parse <file.html>",
		Short: "Extract the menu from a saved page",
		Long: `Runs menu extraction on an HTML page saved to disk, for example one
written by --save-pages. The date defaults to the file name when it is
YYYY-MM-DD.html.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, opts, args[0], date)
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Menu date as DD/MM/YYYY")

	return cmd
}

// setup resolves configuration and installs the logger.
func setup(cmd *cobra.Command, opts *options) (config.Config, OutputFormat, error) {
	format, err := ParseFormat(opts.format)
	if err != nil {
		return config.Config{}, "", err
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return cfg, "", err
	}
	if opts.dataDir != "" {
		cfg.DataDir = opts.dataDir
	}
	if opts.baseURL != "" {
		cfg.BaseURL = opts.baseURL
	}
	if err := cfg.Validate(); err != nil {
		return cfg, "", err
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return cfg, "", err
	}
	if opts.verbose {
		logger.SetDefault(logger.NewConsole(logger.LevelDebug, cmd.ErrOrStderr()))
	} else {
		logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))
	}

	return cfg, format, nil
}

// runFetch is the main command logic
func runFetch(cmd *cobra.Command, opts *options) error {
	cfg, format, err := setup(cmd, opts)
	if err != nil {
		return err
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	start := now().In(loc)
	if opts.date != "" {
		start, err = meal.ParseDate(opts.date, loc)
		if err != nil {
			return err
		}
	}
	if opts.days < 1 {
		return fmt.Errorf("--days must be at least 1, got %d", opts.days)
	}
	dates := meal.DateRange(start, opts.days)

	var store *storage.Storage
	if opts.save || opts.savePages {
		store, err = storage.New(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("initializing storage: %w", err)
		}
	}

	var scOpts []scraper.Option
	if opts.savePages {
		scOpts = append(scOpts, scraper.WithPageSink(store))
	}
	sc := scraper.NewFromConfig(cfg, scOpts...)

	logger.Info("Fetching menus", logger.Fields{"from": dates[0], "days": len(dates), "url": cfg.BaseURL})

	menus := make(map[string]*meal.Result, len(dates))
	for _, date := range dates {
		if err := cmd.Context().Err(); err != nil {
			return err
		}
		menus[date] = sc.FetchAndFormatMenu(cmd.Context(), date)
	}

	result := NewOutputResult(dates, menus)

	if opts.save {
		changes, err := store.SaveMenus(result.Found())
		if err != nil {
			return fmt.Errorf("saving menus: %w", err)
		}
		result.Changes = changes
		logger.Info("Saved snapshot", logger.Fields{"dir": store.Dir(), "changes": len(changes)})
	}

	if err := writeResult(cmd, opts, result, format); err != nil {
		return err
	}

	if result.MealCount == 0 {
		return errNoMenu
	}
	return nil
}

func runParse(cmd *cobra.Command, opts *options, path, date string) error {
	cfg, format, err := setup(cmd, opts)
	if err != nil {
		return err
	}

	if date == "" {
		date, err = dateFromFileName(path)
		if err != nil {
			return err
		}
	}
	if _, err := meal.ParseDate(date, nil); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening page: %w", err)
	}
	defer f.Close()

	sc := scraper.NewFromConfig(cfg)
	res, err := sc.ParseMenu(f, date)
	if err != nil && !errors.Is(err, scraper.ErrNoMenu) {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	result := NewOutputResult([]string{date}, map[string]*meal.Result{date: res})
	if err := writeResult(cmd, opts, result, format); err != nil {
		return err
	}

	if result.MealCount == 0 {
		return errNoMenu
	}
	return nil
}

// dateFromFileName turns a YYYY-MM-DD.html file name into DD/MM/YYYY.
func dateFromFileName(path string) (string, error) {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	t, err := time.Parse("2006-01-02", stem)
	if err != nil {
		return "", fmt.Errorf("--date is required when the file name is not YYYY-MM-DD.html")
	}
	return meal.FormatDate(t), nil
}

func writeResult(cmd *cobra.Command, opts *options, result *OutputResult, format OutputFormat) error {
	var w io.Writer = cmd.OutOrStdout()
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := WriteOutput(w, result, format, opts.verbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// ExitCode maps an error returned by the root command to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, errNoMenu):
		return ExitNoMenu
	default:
		return ExitError
	}
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := NewRootCmd().ExecuteContext(ctx)
	code := ExitCode(err)
	if code == ExitError {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	stop()
	os.Exit(code)
}
