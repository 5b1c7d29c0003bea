package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	_ "github.com/lib/pq"
	"github.com/spf13/pflag"
	"github.com/streadway/amqp"

	"github.com/muhammadolammi/resumeanalyzer/internal/analysis"
	"github.com/muhammadolammi/resumeanalyzer/internal/api"
	"github.com/muhammadolammi/resumeanalyzer/internal/config"
	"github.com/muhammadolammi/resumeanalyzer/internal/database"
	"github.com/muhammadolammi/resumeanalyzer/internal/logger"
	"github.com/muhammadolammi/resumeanalyzer/internal/matcher"
	"github.com/muhammadolammi/resumeanalyzer/internal/recognizer"
	"github.com/muhammadolammi/resumeanalyzer/internal/resume"
)

func main() {
	mode := pflag.StringP("mode", "m", "serve", "serve, worker, check or rank")
	profile := pflag.StringP("profile", "p", "", "job profile to check against (check mode)")
	skills := pflag.StringP("skills", "s", "", "comma-separated job skills (rank mode)")
	envFile := pflag.String("env", ".env", "dotenv file to load")
	pflag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger.Init(cfg.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	analyzer, err := newAnalyzer(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to set up analyzer")
	}

	switch *mode {
	case "serve":
		err = serve(ctx, cfg, analyzer)
	case "worker":
		err = runWorker(ctx, cfg, analyzer)
	case "check":
		err = runCheck(ctx, analyzer, os.Stdout, *profile, pflag.Args())
	case "rank":
		err = runRank(ctx, analyzer, os.Stdout, *skills, pflag.Args())
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		logger.Fatal().Err(err).Str("mode", *mode).Msg("exiting")
	}
}

func newAnalyzer(ctx context.Context, cfg *config.Config) (*analysis.Analyzer, error) {
	catalog := matcher.DefaultCatalog()
	if cfg.CatalogPath != "" {
		var err error
		catalog, err = matcher.LoadCatalog(cfg.CatalogPath)
		if err != nil {
			return nil, err
		}
	}
	logger.Info().Int("profiles", len(catalog.Titles())).Msg("job profile catalog loaded")

	var rec recognizer.Recognizer = recognizer.Static{}
	if cfg.GoogleAPIKey != "" {
		gemini, err := recognizer.NewGemini(ctx, cfg.GoogleAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		rec = gemini
	} else {
		logger.Warn().Msg("empty GOOGLE_API_KEY in env, candidate names will not be recognized")
	}

	return analysis.New(resume.NewParser(rec), catalog), nil
}

func serve(ctx context.Context, cfg *config.Config, analyzer *analysis.Analyzer) error {
	app := api.NewApp(api.NewHandler(analyzer), int(cfg.MaxUploadBytes))

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Addr).Msg("server listening")
		errCh <- app.Listen(cfg.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down server")
	return app.Shutdown()
}

func runWorker(ctx context.Context, cfg *config.Config, analyzer *analysis.Analyzer) error {
	if err := cfg.ValidateWorker(); err != nil {
		return err
	}

	db, err := sql.Open("postgres", cfg.DBURL)
	if err != nil {
		return fmt.Errorf("error opening db: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("error connecting to db: %w", err)
	}

	awsConfig, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.R2.AccessKey, cfg.R2.SecretKey, "")),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return fmt.Errorf("error creating aws config: %w", err)
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		return fmt.Errorf("error connecting to RabbitMQ: %w", err)
	}
	defer conn.Close()
	if err := declareUpdateExchange(conn); err != nil {
		return err
	}

	workerConfig := &WorkerConfig{
		Store:         database.New(db),
		Objects:       newR2Store(awsConfig, cfg.R2),
		Analyzer:      analyzer,
		RABBITMQUrl:   cfg.RabbitMQURL,
		Updates:       &amqpPublisher{conn: conn},
		DownloadTries: cfg.DownloadTries,
	}

	logger.Info().Int("workers", cfg.WorkerCount).Msg("starting consumer worker pool")
	workerConfig.StartConsumerWorkerPool(ctx, cfg.WorkerCount)
	if ctx.Err() != nil {
		return nil
	}
	return errors.New("all consumers stopped")
}

func declareUpdateExchange(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("error opening rabbitmq channel: %w", err)
	}
	defer ch.Close()

	err = ch.ExchangeDeclare(
		sessionUpdateExchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", sessionUpdateExchange, err)
	}
	return nil
}
