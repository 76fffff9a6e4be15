package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/obras-cli/internal/adapters/imageproc"
	"github.com/kamal-hamza/obras-cli/internal/adapters/letterhead"
	"github.com/kamal-hamza/obras-cli/internal/adapters/renderer/docx"
	"github.com/kamal-hamza/obras-cli/internal/adapters/renderer/pdf"
	"github.com/kamal-hamza/obras-cli/internal/adapters/repository"
	"github.com/kamal-hamza/obras-cli/internal/core/domain"
	"github.com/kamal-hamza/obras-cli/internal/core/ports"
	"github.com/kamal-hamza/obras-cli/internal/core/services"
	"github.com/kamal-hamza/obras-cli/internal/logging"
	"github.com/kamal-hamza/obras-cli/pkg/config"
	"github.com/kamal-hamza/obras-cli/pkg/ui"
	"github.com/kamal-hamza/obras-cli/pkg/vault"
)

var (
	// Global vault and configuration
	appVault  *vault.Vault
	appConfig *config.Config
	appLogger *logging.Logger
	appCtx    = context.Background()

	// Services
	catalogService  *services.CatalogService
	artworkService  *services.ArtworkService
	settingsService *services.SettingsService
	exportService   *services.ExportService
	statsService    *services.StatsService

	// Adapters
	store            *repository.SQLiteStore
	imageNormalizer  *imageproc.Normalizer
	letterheadSource ports.LetterheadSource

	// Global flags
	verbose       bool
	projectFlag   string
	errVaultSetup = errors.New("vault not initialized")
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "obras",
	Short: "Obras - artwork assignment lists",
	Long: ui.StyleTitle.Render("Obras") + " - Artwork Assignment Lists\n\n" +
		"Catalogue artworks (photo, asset number, author, title, technique, dimensions)\n" +
		"into named lists and export each list as a formal assignment document.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	appCtx = ctx

	err := rootCmd.Execute()
	stop()
	closeApp()

	if err != nil {
		if !errors.Is(err, errVaultSetup) {
			fmt.Fprintln(os.Stderr, ui.FormatError(describeError(err)))
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(captureCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(exportAllCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(doctorCmd)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Mirror log records to stderr")
	rootCmd.PersistentFlags().StringVarP(&projectFlag, "project", "p", "", "Project to operate on (default: the active project)")
}

// initializeApp initializes the application components
func initializeApp(cmd *cobra.Command, args []string) error {
	// These work without a vault
	switch cmd.Name() {
	case "init", "version", "help", "completion":
		return nil
	}

	v, err := vault.New()
	if err != nil {
		return fmt.Errorf("failed to initialize vault: %w", err)
	}
	appVault = v

	if !appVault.Exists() {
		fmt.Println(ui.FormatError("Vault not initialized"))
		fmt.Println(ui.FormatInfo("Run 'obras init' to initialize the vault"))
		return errVaultSetup
	}

	cfg, err := config.Load(appVault.ConfigPath)
	if err != nil {
		return err
	}
	appConfig = cfg
	ui.SetTheme(cfg.ColorTheme)

	appLogger, err = logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Path:   appVault.LogPath(),
		Stderr: verbose,
	})
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	logger := appLogger.Logger
	logger.Debug("command started", "command", cmd.CommandPath(), "vault", appVault.RootPath)

	mode, err := domain.ParseReplaceMode(cfg.PlaceholderMode)
	if err != nil {
		return err
	}

	// Initialize adapters
	store, err = repository.OpenSQLiteStore(appVault.DBPath, logger)
	if err != nil {
		return err
	}
	imageNormalizer = imageproc.NewNormalizer(cfg.ImageMaxWidth, cfg.ImageQuality)
	letterheadSource = letterhead.NewSource(
		cfg.Letterhead,
		appVault.AssetsPath,
		time.Duration(cfg.LetterheadTimeoutSeconds)*time.Second,
		logger,
	)
	renderers := []ports.Renderer{docx.New(), pdf.New()}

	// Initialize services
	catalogService = services.NewCatalogService(store, logger)
	artworkService = services.NewArtworkService(store, imageNormalizer, logger)
	settingsService = services.NewSettingsService(store, logger)
	exportService = services.NewExportService(
		store,
		store,
		letterheadSource,
		services.NewAssemblerService(mode),
		renderers,
		logger,
	)
	statsService = services.NewStatsService(store)

	return nil
}

// closeApp releases the store, the letterhead client and the log file
func closeApp() {
	if c, ok := letterheadSource.(io.Closer); ok {
		c.Close()
	}
	if store != nil {
		if err := store.Close(); err != nil && appLogger != nil {
			appLogger.Warn("failed to close store", logging.Err(err))
		}
	}
	if appLogger != nil {
		appLogger.Close()
	}
}

// getContext returns a context for operations, cancelled on Ctrl+C
func getContext() context.Context {
	return appCtx
}
