package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/IvanShishkin/dupehound/internal/cleaner"
	"github.com/IvanShishkin/dupehound/internal/config"
	"github.com/IvanShishkin/dupehound/internal/core"
	"github.com/IvanShishkin/dupehound/internal/renamer"
	"github.com/IvanShishkin/dupehound/internal/report"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

var (
	version    = "0.1.0"
	logger     *zap.Logger
	verbose    bool
	configPath string
)

// errNoCriteria is returned when every duplicate criterion is off
var errNoCriteria = errors.New("at least one duplicate criterion must be enabled (--hash, --size, --name, --mtime, --mime)")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := &cobra.Command{
		Use:   "dupehound",
		Short: "Dupehound - duplicate finder and batch renamer",
		Long: `Find duplicate files by content hash, size, name, modification time or
MIME type, clean them up, and batch-rename files from a naming schema.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initLogger()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: user config dir)")

	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(cleanCmd())
	rootCmd.AddCommand(candidatesCmd())
	rootCmd.AddCommand(renameCmd())
	rootCmd.AddCommand(undoCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// initLogger builds a development logger under --verbose, an error-only
// JSON logger otherwise
func initLogger() error {
	var err error
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		cfg := zap.Config{
			Level:            zap.NewAtomicLevelAt(zapcore.ErrorLevel),
			Encoding:         "json",
			OutputPaths:      []string{"stderr"},
			ErrorOutputPaths: []string{"stderr"},
			EncoderConfig:    zap.NewProductionEncoderConfig(),
		}
		logger, err = cfg.Build()
	}
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// loadConfig loads settings and validates them after flag overrides
func loadConfig(apply func(*config.Config) error) (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error("Failed to load config", zap.Error(err))
		return nil, err
	}
	if apply != nil {
		if err := apply(cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("\n  %s %s\n\n", report.ErrorStyle.Render("✗ Invalid parameter:"), err.Error())
		return nil, err
	}
	return cfg, nil
}

// newEngine wires the engine to the OS filesystem and the rename journal
func newEngine(cfg *config.Config) *core.Engine {
	fs := afero.NewOsFs()
	engine := core.NewEngine(fs, logger)
	engine.SetProgressCallback(progressPrinter())
	if dir := journalDir(cfg); dir != "" {
		engine.SetJournal(renamer.NewJournal(fs, dir))
	}
	return engine
}

// journalDir returns the configured journal folder or the user state folder
func journalDir(cfg *config.Config) string {
	if cfg.JournalDir != "" {
		return cfg.JournalDir
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "dupehound")
	}
	return ""
}

// progressPrinter redraws one line per phase
func progressPrinter() core.ProgressCallback {
	lastPhase := ""
	return func(phase string, current, total int, message string) {
		if lastPhase == phase {
			// Cursor up one line and clear it
			fmt.Print("\033[1A\033[K")
		}
		lastPhase = phase

		switch phase {
		case core.PhaseScanning:
			fmt.Printf("  %s      %s\n", report.LabelStyle.Render("Files:"), message)
		case core.PhaseHashing:
			if total > 0 {
				pct := float64(current) / float64(total) * 100
				barWidth := 30
				filled := int(float64(barWidth) * float64(current) / float64(total))
				bar := repeat("█", filled) + repeat("░", barWidth-filled)
				fmt.Printf("  %s   [%s] %s (%d/%d)\n",
					report.LabelStyle.Render("Hashing:"), report.AccentStyle.Render(bar),
					report.AccentStyle.Render(fmt.Sprintf("%.1f%%", pct)), current, total)
			}
		}
	}
}

// writeReport renders doc with the configured format
func writeReport(cfg *config.Config, doc *report.Document) error {
	gen, err := report.NewGenerator(cfg, afero.NewOsFs(), logger)
	if err != nil {
		return err
	}
	path, err := gen.Generate(doc)
	if err != nil {
		logger.Error("Failed to write report", zap.Error(err))
		return err
	}
	if path != "" {
		fmt.Printf("  %s    %s\n\n", report.LabelStyle.Render("Report:"), report.AccentStyle.Render(path))
	}
	return nil
}

// scanCmd creates the scan command
func scanCmd() *cobra.Command {
	var flags scanFlags

	cmd := &cobra.Command{
		Use:   "scan [folder]",
		Short: "Find duplicate files",
		Long:  `Scan a folder and group files that match on every enabled criterion.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(func(cfg *config.Config) error {
				return flags.apply(cmd, cfg, args)
			})
			if err != nil {
				return err
			}

			result, err := findDuplicates(cmd.Context(), cfg, &flags)
			if err != nil {
				return err
			}
			return writeReport(cfg, report.FromScan(result))
		},
	}

	flags.bind(cmd, true)
	return cmd
}

// cleanCmd creates the clean command
func cleanCmd() *cobra.Command {
	var (
		flags      scanFlags
		keep       string
		quarantine string
		apply      bool
	)

	cmd := &cobra.Command{
		Use:   "clean [folder]",
		Short: "Remove duplicates, keeping one file per group",
		Long: `Scan a folder for duplicates and remove all but one member of every group.
Without --apply only the plan is printed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(func(cfg *config.Config) error {
				if keep != "" {
					cfg.KeepPolicy = keep
				}
				if quarantine != "" {
					cfg.QuarantineDir = quarantine
				}
				return flags.apply(cmd, cfg, args)
			})
			if err != nil {
				return err
			}

			policy, err := cleaner.ParseKeepPolicy(cfg.KeepPolicy)
			if err != nil {
				return err
			}

			result, err := findDuplicates(cmd.Context(), cfg, &flags)
			if err != nil {
				return err
			}

			fs := afero.NewOsFs()
			var c *cleaner.Cleaner
			if cfg.QuarantineDir != "" {
				c = cleaner.NewCleaner(cleaner.NewQuarantineRemover(fs, cfg.QuarantineDir), cleaner.NewPermanentRemover(fs), logger)
			} else {
				c = cleaner.NewCleaner(cleaner.NewPermanentRemover(fs), nil, logger)
			}

			engine := newEngine(cfg)
			cleaned, err := engine.Clean(cmd.Context(), result.DuplicateGroups(), policy, c, !apply)
			if err != nil {
				return err
			}
			return writeReport(cfg, report.FromClean(cleaned))
		},
	}

	flags.bind(cmd, true)
	cmd.Flags().StringVar(&keep, "keep", "", "Which file to keep: first, oldest, newest, shortest-path")
	cmd.Flags().StringVar(&quarantine, "quarantine", "", "Move duplicates to this folder instead of deleting them")
	cmd.Flags().BoolVar(&apply, "apply", false, "Remove files instead of printing the plan")
	return cmd
}

// candidatesCmd creates the candidates command
func candidatesCmd() *cobra.Command {
	var (
		flags  scanFlags
		preset string
	)

	cmd := &cobra.Command{
		Use:   "candidates [folder]",
		Short: "List files eligible for auto-rename",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(func(cfg *config.Config) error {
				if preset != "" {
					cfg.FileTypePreset = preset
				}
				return flags.apply(cmd, cfg, args)
			})
			if err != nil {
				return err
			}

			engine := newEngine(cfg)
			result, err := engine.RenameCandidates(cmd.Context(), core.NewCandidateRequest(cfg))
			if err != nil {
				logger.Error("Candidate scan failed", zap.Error(err))
				return err
			}
			return writeReport(cfg, report.FromCandidates(result))
		},
	}

	flags.bind(cmd, false)
	cmd.Flags().StringVar(&preset, "preset", "", "File type preset: all, images, videos, audio, documents, archives")
	return cmd
}

// renameCmd creates the rename command
func renameCmd() *cobra.Command {
	var (
		flags      scanFlags
		preset     string
		components []string
		separator  string
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "rename [folder]",
		Short: "Rename files from a naming schema",
		Long: `Rename every candidate file in a folder from the configured schema.
Components: folder_name, date_created, date_modified, time_created,
time_modified, original_stem, literal:<text>, sequence[:<pad>].`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(func(cfg *config.Config) error {
				if preset != "" {
					cfg.FileTypePreset = preset
				}
				if len(components) > 0 {
					cfg.Rename.Components = components
				}
				if cmd.Flags().Changed("separator") {
					cfg.Rename.Separator = separator
				}
				return flags.apply(cmd, cfg, args)
			})
			if err != nil {
				return err
			}

			schema, err := cfg.Schema()
			if err != nil {
				return err
			}

			engine := newEngine(cfg)
			candidates, err := engine.RenameCandidates(cmd.Context(), core.NewCandidateRequest(cfg))
			if err != nil {
				logger.Error("Candidate scan failed", zap.Error(err))
				return err
			}

			result, err := engine.AutoRename(cmd.Context(), candidates.Paths(), schema, renamer.Options{DryRun: dryRun})
			if err != nil {
				return err
			}
			if err := writeReport(cfg, report.FromRename(result)); err != nil {
				return err
			}
			if !dryRun && result.JournalPath != "" && result.Outcome.RenamedCount() > 0 {
				fmt.Printf("  %s dupehound undo %s\n\n", report.LabelStyle.Render("Undo with:"), result.BatchID)
			}
			return nil
		},
	}

	flags.bind(cmd, false)
	cmd.Flags().StringVar(&preset, "preset", "", "File type preset: all, images, videos, audio, documents, archives")
	cmd.Flags().StringSliceVar(&components, "schema", nil, "Name components (comma-separated), e.g. folder_name,date_created,sequence:3")
	cmd.Flags().StringVar(&separator, "separator", "_", "Separator between name components")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Plan the renames without touching files")
	return cmd
}

// undoCmd creates the undo command
func undoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "undo <batch-id>",
		Short: "Revert a rename batch from the journal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(nil)
			if err != nil {
				return err
			}

			result, err := newEngine(cfg).UndoRename(cmd.Context(), args[0])
			if err != nil {
				logger.Error("Undo failed", zap.Error(err))
				return err
			}
			return writeReport(cfg, report.FromRename(result))
		},
	}
	return cmd
}

// configCmd creates the config command group
func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialize the settings file",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(nil)
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			fmt.Print(string(data))
			return nil
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default settings file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath
			if path == "" {
				path = config.DefaultPath()
			}
			if path == "" {
				return errors.New("no user config folder, pass --config")
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			cfg, err := config.LoadConfig("")
			if err != nil {
				return err
			}
			if err := config.SaveConfig(cfg, path); err != nil {
				return err
			}
			fmt.Printf("  %s %s\n", report.AccentStyle.Render("✓ Settings written:"), path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	cmd.AddCommand(show, initCmd)
	return cmd
}

// findDuplicates runs a duplicate scan and prints the banner
func findDuplicates(ctx context.Context, cfg *config.Config, flags *scanFlags) (*core.ScanReport, error) {
	if !cfg.AnyCriterion() {
		return nil, errNoCriteria
	}

	req := core.NewDuplicateRequest(cfg)
	if flags.hashMax != "" {
		limit, err := parseHashMax(flags.hashMax)
		if err != nil {
			return nil, err
		}
		req.HashMaxBytes = limit
	}

	printBanner(cfg.Folder, criteriaNames(cfg))

	result, err := newEngine(cfg).FindDuplicates(ctx, req)
	if err != nil {
		logger.Error("Scan failed", zap.Error(err))
		return nil, err
	}
	return result, nil
}

// printBanner prints the scan header
func printBanner(folder, criteria string) {
	fmt.Println()
	fmt.Printf("%s %s\n", report.TitleStyle.Render("DUPEHOUND"), report.LabelStyle.Render("v"+version))
	fmt.Println()
	fmt.Printf("  %s     %s\n", report.LabelStyle.Render("Folder:"), folder)
	fmt.Printf("  %s   %s\n", report.LabelStyle.Render("Criteria:"), criteria)
	fmt.Println()
}

func criteriaNames(cfg *config.Config) string {
	var names []string
	for _, c := range []struct {
		on   bool
		name string
	}{
		{cfg.UseHash, "hash"},
		{cfg.UseSize, "size"},
		{cfg.UseName, "name"},
		{cfg.UseMtime, "mtime"},
		{cfg.UseMime, "mime"},
	} {
		if c.on {
			names = append(names, c.name)
		}
	}
	if len(names) == 0 {
		return report.WarnStyle.Render("none")
	}
	return strings.Join(names, ", ")
}

// repeat returns a string repeated n times
func repeat(s string, n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(s, n)
}
