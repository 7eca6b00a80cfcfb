package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/samber/mo"

	"mcmonitor/clients/minecraft"
	"mcmonitor/config"
	"mcmonitor/core/log"
	"mcmonitor/handlers"
	"mcmonitor/middleware"
	"mcmonitor/services/cooldowns"
	"mcmonitor/services/presenter"
	"mcmonitor/services/snapshots"
	"mcmonitor/usecases/commands"
	"mcmonitor/usecases/dispatcher"
	"mcmonitor/usecases/status"
	"mcmonitor/utils"
)

type Options struct {
	EnvFile      string `long:"env-file" default:".env" description:"Path to the .env file to load"`
	SettingsFile string `long:"settings" description:"Path to an optional YAML settings file"`
	LockFile     string `long:"lock-file" description:"Path of the single-instance lock file (defaults to the temp directory)"`
	SkipRegister bool   `long:"skip-register" description:"Do not overwrite the application commands on startup"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(opts); err != nil {
		log.Error("❌ Fatal error", "error", err)
		os.Exit(1)
	}
}

func run(opts Options) error {
	cfg, err := config.LoadConfig(config.LoadOptions{
		EnvFile:      opts.EnvFile,
		SettingsFile: opts.SettingsFile,
	})
	if err != nil {
		return err
	}
	if err := log.Configure(os.Stdout, cfg.LogLevel, cfg.LogFormat); err != nil {
		return err
	}

	target := cfg.Minecraft.Target()
	instanceLock, err := utils.NewInstanceLock(opts.LockFile, target.Key())
	if err != nil {
		return err
	}
	if err := instanceLock.TryLock(); err != nil {
		return err
	}
	defer func() {
		if err := instanceLock.Unlock(); err != nil {
			log.Warn("⚠️ Failed to release instance lock", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ledger := cooldowns.NewCooldownLedger()
	ledger.StartSweeper(ctx, cfg.Cooldowns.SweepInterval)

	alertMiddleware := middleware.NewErrorAlertMiddleware(middleware.SlackAlertConfig{
		WebhookURL:  cfg.SlackAlertWebhookURL,
		Environment: cfg.Environment,
		AppName:     "mcmonitor",
		LogsURL:     cfg.ServerLogsURL,
	}, ledger)
	defer alertMiddleware.Wait()

	minecraftClient := minecraft.NewMinecraftClient(minecraft.WithSRVLookup(cfg.Minecraft.SRVLookup))
	statusUseCase := status.NewStatusUseCase(
		minecraftClient,
		presenter.NewPresenter(cfg.Bot.ServerName),
		snapshots.NewSnapshotStore(),
		target,
		cfg.Minecraft.QueryTimeout,
	)

	registry, err := buildRegistry(cfg, statusUseCase)
	if err != nil {
		return err
	}
	interactionDispatcher := dispatcher.NewDispatcher(
		registry,
		ledger,
		statusUseCase,
		cfg.Cooldowns.Default,
		dispatcher.WithFailureReporter(alertMiddleware),
	)

	renderer := handlers.NewRenderer(cfg.Theme, fmt.Sprintf("%s Monitor • v%s", cfg.Bot.Name, cfg.Bot.Version))
	discordHandler, err := handlers.NewDiscordEventsHandler(handlers.DiscordBotConfig{
		BotToken:                  cfg.Discord.BotToken,
		GuildID:                   cfg.Discord.GuildID,
		Presence:                  target.Address(),
		RegisterCommands:          !opts.SkipRegister,
		MaxConcurrentInteractions: cfg.Discord.MaxConcurrentInteractions,
	}, interactionDispatcher, registry.Definitions(), renderer, alertMiddleware)
	if err != nil {
		return err
	}
	if err := discordHandler.StartBot(); err != nil {
		return err
	}
	defer discordHandler.StopBot()

	statusPage := handlers.NewStatusPageHandler(statusUseCase, handlers.StatusPageConfig{
		BotName:  cfg.Bot.Name,
		Version:  cfg.Bot.Version,
		CacheTTL: cfg.StatusCacheTTL,
	})
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.NewHTTPHandler(statusPage, alertMiddleware),
		ReadHeaderTimeout: 30 * time.Second,
	}

	log.Info("🎮 Monitoring Minecraft server", "target", target.Key(), "timeout", cfg.Minecraft.QueryTimeout)
	return handleGracefulShutdown(server, alertMiddleware)
}

func buildRegistry(cfg *config.AppConfig, statusUseCase *status.StatusUseCase) (*commands.Registry, error) {
	override := func(name string) mo.Option[time.Duration] {
		if d, ok := cfg.Cooldowns.For(name); ok {
			return mo.Some(d)
		}
		return mo.None[time.Duration]()
	}

	registry := commands.NewRegistry()
	for _, cmd := range []commands.Command{
		commands.NewStatusCommand(statusUseCase, override("status")),
		commands.NewPlayersCommand(statusUseCase, override("players")),
		commands.NewHelpCommand(registry, cfg.Cooldowns.Default),
	} {
		if err := registry.Register(cmd); err != nil {
			return nil, fmt.Errorf("failed to register command: %w", err)
		}
	}
	return registry, nil
}

// serveStatusPage runs the status page until it is shut down; failures raise an alert
func serveStatusPage(server *http.Server, alerts *middleware.ErrorAlertMiddleware) func() error {
	return alerts.WrapBackgroundTask("status page server", func() error {
		log.Info("✅ Status page listening", "addr", "http://0.0.0.0"+server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
}

func handleGracefulShutdown(server *http.Server, alerts *middleware.ErrorAlertMiddleware) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serve := serveStatusPage(server, alerts)
	serverErr := make(chan error, 1)
	go func() {
		if err := serve(); err != nil {
			serverErr <- err
		}
	}()

	select {
	case <-stop:
		log.Info("🛑 Shutdown signal received, cleaning up...")
	case err := <-serverErr:
		return fmt.Errorf("status page server failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("❌ Server shutdown error", "error", err)
		return err
	}

	log.Info("✅ Server stopped gracefully")
	return nil
}
