package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"
	"unmark/internal/adapters/file"
	"unmark/internal/adapters/handler"
	"unmark/internal/adapters/remover"
	"unmark/internal/adapters/sender"
	"unmark/internal/adapters/ui"
	"unmark/internal/core/domain"
	"unmark/internal/core/domain/command"
	"unmark/internal/core/service"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func main() {
	log.Info().Msg("starting unmark...")

	// secrets may live in .env instead of config.toml
	_ = godotenv.Load(".env")

	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("toml")
	viper.SetEnvPrefix("unmark")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("app.mode", "desktop")
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("upload.max_size_mb", domain.DefaultMaxSizeMB)
	viper.SetDefault("handler.timeout", "2m")

	log.Info().Msg("reading config file...")
	err := viper.ReadInConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("could not read config file")
	}

	var logLevel zerolog.Level

	switch viper.GetString("app.log_level") {
	case "info":
		logLevel = zerolog.InfoLevel
	case "debug":
		logLevel = zerolog.DebugLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	baseURL := viper.GetString("service.base_url")
	if baseURL == "" {
		log.Fatal().Msg("service.base_url is not configured")
	}

	client := remover.NewClient(baseURL, viper.GetString("service.inpaint_url"), viper.GetString("service.api_key"))
	maxSizeMB := viper.GetInt("upload.max_size_mb")

	switch mode := viper.GetString("app.mode"); mode {
	case "desktop":
		runDesktop(ctx, client, maxSizeMB)
	case "telegram":
		runTelegram(ctx, client, baseURL, maxSizeMB)
	default:
		log.Fatal().Str("mode", mode).Msg("unknown app.mode, expected desktop or telegram")
	}
}

func runDesktop(ctx context.Context, client *remover.Client, maxSizeMB int) {
	store, err := file.NewStore(filepath.Join(os.TempDir(), "unmark"))
	if err != nil {
		log.Fatal().Err(err).Msg("could not create result store")
	}
	defer store.Close()

	session := service.NewSession(client, client, store, maxSizeMB)
	defer session.Close()

	log.Info().Msg("opening window")
	ui.Run(ctx, session)
}

func runTelegram(ctx context.Context, client *remover.Client, endpoint string, maxSizeMB int) {
	token := viper.GetString("telegram.bot_token")
	opts := []bot.Option{
		bot.WithDefaultHandler(noOpHandler),
	}

	b, err := bot.New(token, opts...)
	if err != nil {
		log.Panic().Err(err).Msg("failed initializing telegram bot")
	}

	s := sender.NewTelegram(b)

	authorizer, err := service.NewAuthorizer(s)
	if err != nil {
		log.Panic().Err(err).Msg("failed initializing authorizer")
	}

	tracker := service.NewUsageTracker(ctx, s)

	commandRegistry := &command.Registry{}
	commandRegistry.Register(command.NewClean(client, file.Fetcher{}, s, s, authorizer, tracker, maxSizeMB,
		"/clean"))
	commandRegistry.Register(command.NewHelp(commandRegistry, s, "/help"))
	commandRegistry.Register(command.NewUsage(tracker, s, "/usage"))
	commandRegistry.Register(command.NewStatus(s, endpoint, maxSizeMB, "/status"))

	handlerTimeout, err := time.ParseDuration(viper.GetString("handler.timeout"))
	if err != nil {
		log.Panic().Err(err).Msg("invalid timeout for handler in config")
	}

	commandHandler := handler.NewCommand(commandRegistry, handlerTimeout, maxSizeMB)

	b.RegisterHandler(bot.HandlerTypeMessageText, "/", bot.MatchTypePrefix, commandHandler.Handle)
	b.RegisterHandler(bot.HandlerTypePhotoCaption, "/", bot.MatchTypePrefix, commandHandler.Handle)

	log.Info().Msg("bot listening")
	b.Start(ctx)
}

func noOpHandler(_ context.Context, _ *bot.Bot, _ *models.Update) {}
