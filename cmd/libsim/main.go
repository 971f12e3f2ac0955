// Package main provides the CLI entrypoint for libsim.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/libsim/internal/catalog"
	"github.com/verte-zerg/libsim/internal/config"
	"github.com/verte-zerg/libsim/internal/events"
	"github.com/verte-zerg/libsim/internal/library"
	"github.com/verte-zerg/libsim/internal/model"
	"github.com/verte-zerg/libsim/internal/sim"
	"github.com/verte-zerg/libsim/internal/stats"
	"github.com/verte-zerg/libsim/internal/statsui"
	"github.com/verte-zerg/libsim/internal/store"
	"github.com/verte-zerg/libsim/internal/tui"
)

const (
	defaultDays    = 30
	defaultPBorrow = 0.5
	defaultPReturn = 0.95
	defaultMinLoan = 1
	defaultMaxLoan = 14
	defaultTop     = 10
)

var (
	runDays      int
	runPBorrow   float64
	runPReturn   float64
	runMinLoan   int
	runMaxLoan   int
	runSeed      int64
	runCatalog   string
	runWatch     bool
	runQuiet     bool
	runNoArchive bool

	statsSince  string
	statsLast   int
	statsTop    int
	statsChart  bool
	statsBrowse bool

	catalogInitForce bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "libsim",
		Short:         "Library circulation simulator",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runSimCmd,
	}

	rootCmd.Flags().IntVar(&runDays, "days", defaultDays, "number of days to simulate")
	rootCmd.Flags().Float64Var(&runPBorrow, "p-borrow", defaultPBorrow, "borrow probability per day (0-1)")
	rootCmd.Flags().Float64Var(&runPReturn, "p-return", defaultPReturn, "return probability per day (0-1)")
	rootCmd.Flags().IntVar(&runMinLoan, "min-loan", defaultMinLoan, "shortest loan period in days")
	rootCmd.Flags().IntVar(&runMaxLoan, "max-loan", defaultMaxLoan, "longest loan period in days")
	rootCmd.Flags().Int64Var(&runSeed, "seed", 0, "random seed (0 = time-based)")
	rootCmd.Flags().StringVar(&runCatalog, "catalog", "", "path to the catalog CSV (default: XDG config dir)")
	rootCmd.Flags().BoolVar(&runWatch, "watch", false, "watch the simulation day by day in a TUI")
	rootCmd.Flags().BoolVar(&runQuiet, "quiet", false, "suppress the per-day log, print the summary only")
	rootCmd.Flags().BoolVar(&runNoArchive, "no-archive", false, "do not record the run in the archive")

	rootCmd.AddCommand(newCatalogCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runSimCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "days", &runDays, fileCfg.Simulation.Days)
	applyFloatConfig(cmd, "p-borrow", &runPBorrow, fileCfg.Simulation.PBorrow)
	applyFloatConfig(cmd, "p-return", &runPReturn, fileCfg.Simulation.PReturn)
	applyIntConfig(cmd, "min-loan", &runMinLoan, fileCfg.Simulation.MinLoan)
	applyIntConfig(cmd, "max-loan", &runMaxLoan, fileCfg.Simulation.MaxLoan)
	applyInt64Config(cmd, "seed", &runSeed, fileCfg.Simulation.Seed)
	applyStringConfig(cmd, "catalog", &runCatalog, fileCfg.Simulation.Catalog)

	if runCatalog == "" {
		runCatalog = config.DefaultCatalogPath()
	}

	cfg := model.RunConfig{
		Days:        runDays,
		PBorrow:     runPBorrow,
		PReturn:     runPReturn,
		MinLoan:     runMinLoan,
		MaxLoan:     runMaxLoan,
		Seed:        runSeed,
		CatalogPath: runCatalog,
	}

	if err := validateConfig(cfg); err != nil {
		return err
	}

	entries, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return catalogLoadError(cfg.CatalogPath, err)
	}
	lib, err := library.New(entries)
	if err != nil {
		return fmt.Errorf("failed to open library: %w", err)
	}

	genCfg := events.Config{
		PBorrow: cfg.PBorrow,
		PReturn: cfg.PReturn,
		MinLoan: cfg.MinLoan,
		MaxLoan: cfg.MaxLoan,
	}
	var gen *events.Generator
	if cfg.Seed != 0 {
		gen = events.NewSeeded(genCfg, cfg.Seed)
	} else {
		gen = events.New(genCfg)
	}

	run := sim.New(lib, gen, cfg)

	if runWatch {
		watchModel := tui.NewModel(run)
		program := tea.NewProgram(watchModel, tea.WithAltScreen())
		finished, err := program.Run()
		if err != nil {
			return fmt.Errorf("failed to run TUI: %w", err)
		}
		run = finished.(*tui.Model).Run()
		if !run.Done() {
			// Quit before the last day: finish silently so the summary
			// and archive still cover the full run.
			run.RunAll()
		}
	} else {
		for !run.Done() {
			rec := run.Step()
			if !runQuiet {
				fmt.Fprintln(cmd.OutOrStdout(), tui.FormatDayLine(rec))
			}
		}
	}

	summary := run.Summary()
	tallies := run.Library().Tallies()
	records := run.Records()

	if !runQuiet && !runWatch {
		fmt.Fprintln(cmd.OutOrStdout())
	}
	if err := stats.WriteRunReport(cmd.OutOrStdout(), summary, tallies, records); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if runNoArchive {
		return nil
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	if _, err := st.InsertRun(context.Background(), summary, tallies, records); err != nil {
		return fmt.Errorf("failed to archive run: %w", err)
	}
	return nil
}

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the book catalog",
	}
	cmd.AddCommand(newCatalogInitCmd())
	cmd.AddCommand(newCatalogListCmd())
	return cmd
}

func newCatalogInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a sample catalog",
		Args:  cobra.NoArgs,
		RunE:  runCatalogInitCmd,
	}
	cmd.Flags().BoolVar(&catalogInitForce, "force", false, "overwrite an existing catalog")
	return cmd
}

func runCatalogInitCmd(_ *cobra.Command, _ []string) error {
	path := resolveCatalogPath()
	if !catalogInitForce {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("catalog already exists: %s (use --force to overwrite)", path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat catalog: %w", err)
		}
	}
	if err := catalog.WriteSample(path); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	logErrf("Wrote %s\n", path)
	return nil
}

func newCatalogListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalog books",
		Args:  cobra.NoArgs,
		RunE:  runCatalogListCmd,
	}
}

func runCatalogListCmd(cmd *cobra.Command, _ []string) error {
	path := resolveCatalogPath()
	entries, err := catalog.Load(path)
	if err != nil {
		return catalogLoadError(path, err)
	}
	for _, entry := range entries {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s — %s\n", entry.Title, entry.Author); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func resolveCatalogPath() string {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err == nil && fileCfg.Simulation.Catalog != nil && *fileCfg.Simulation.Catalog != "" {
		return *fileCfg.Simulation.Catalog
	}
	return config.DefaultCatalogPath()
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show archived run stats",
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N runs")
	cmd.Flags().IntVar(&statsTop, "top", defaultTop, "number of top books to show")
	cmd.Flags().BoolVar(&statsChart, "chart", false, "plot borrow activity across runs")
	cmd.Flags().BoolVar(&statsBrowse, "browse", false, "browse the archive in a TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}

	cfg := model.StatsConfig{
		Since: sinceTime,
		Last:  statsLast,
		Top:   statsTop,
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if statsBrowse {
		browser := statsui.NewModel(st, cfg)
		program := tea.NewProgram(browser, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run stats TUI: %w", err)
		}
		return nil
	}

	report, err := stats.BuildArchiveReport(context.Background(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	if err := stats.WriteArchiveReport(cmd.OutOrStdout(), report, statsChart); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# libsim configuration
# Uncomment a value to enable it. CLI flags override config values.

[simulation]
# days = %d               # Number of days to simulate
# p-borrow = %.2f         # Borrow probability per day (0-1)
# p-return = %.2f         # Return probability per day (0-1)
# min-loan = %d           # Shortest loan period in days
# max-loan = %d           # Longest loan period in days
# seed = 0                # Random seed (0 = time-based)
# catalog = ""            # Path to the catalog CSV
`,
		defaultDays,
		defaultPBorrow,
		defaultPReturn,
		defaultMinLoan,
		defaultMaxLoan,
	)
}

func validateConfig(cfg model.RunConfig) error {
	if cfg.Days <= 0 {
		return fmt.Errorf("--days must be > 0")
	}
	if cfg.PBorrow < 0 || cfg.PBorrow > 1 {
		return fmt.Errorf("--p-borrow must be between 0 and 1")
	}
	if cfg.PReturn < 0 || cfg.PReturn > 1 {
		return fmt.Errorf("--p-return must be between 0 and 1")
	}
	if cfg.MinLoan <= 0 {
		return fmt.Errorf("--min-loan must be > 0")
	}
	if cfg.MaxLoan < cfg.MinLoan {
		return fmt.Errorf("--max-loan must be >= --min-loan")
	}
	return nil
}

func catalogLoadError(path string, err error) error {
	lines := []string{
		fmt.Sprintf("failed to load catalog: %v", err),
		fmt.Sprintf("expected catalog at: %s", path),
		"Create a sample catalog: libsim catalog init",
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
