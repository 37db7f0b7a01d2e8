package admin

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/studyhall-ai/studyhall/internal/api/handlers"
	"github.com/studyhall-ai/studyhall/internal/config"
	"github.com/studyhall-ai/studyhall/internal/jobs"
	"github.com/studyhall-ai/studyhall/internal/kb"
	"github.com/studyhall-ai/studyhall/internal/match"
	"github.com/studyhall-ai/studyhall/internal/ocr"
	"github.com/studyhall-ai/studyhall/internal/server"
	"github.com/studyhall-ai/studyhall/internal/service"
	"github.com/studyhall-ai/studyhall/internal/storage"
	"github.com/studyhall-ai/studyhall/internal/telemetry"
)

// Version is stamped at build time.
var Version = "dev"

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the studyhall API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.SentryDSN != "" {
		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              cfg.SentryDSN,
			Environment:      cfg.SentryEnvironment,
			TracesSampleRate: cfg.SentryTracesSampleRate,
			Debug:            cfg.Debug,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	applyPortFlag(cmd, cfg)

	source, err := newSource(ctx, cfg)
	if err != nil {
		return err
	}

	loader := kb.NewLoader(source, cfg.CourseFile, cfg.ForumFile)
	snap, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load knowledge base: %w", err)
	}
	store := kb.NewStore(snap)

	engine := match.NewEngine(match.Config{
		FuzzyWeight:   cfg.FuzzyWeight,
		KeywordWeight: cfg.KeywordWeight,
		MinScore:      cfg.MinScore,
		TopN:          cfg.TopN,
	})

	var extractor ocr.TextExtractor = ocr.Noop{}
	if cfg.HasOpenAI() {
		extractor = ocr.NewExtractorWithConfig(ocr.Config{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.VisionModel,
		})
		log.Println("image text extraction enabled")
	}

	qaSvc := service.NewQAService(store, engine, extractor, cfg.AnswerTimeout)
	kbSvc := service.NewKnowledgeBaseService(loader, store)

	var watcher *jobs.FileWatcher
	if !cfg.HasS3() {
		watcher = jobs.NewFileWatcher(
			filepath.Join(cfg.DataDir, cfg.CourseFile),
			filepath.Join(cfg.DataDir, cfg.ForumFile),
		)
	}
	reloadWorker := jobs.NewWorker(jobs.NewReloadWorker(kbSvc, watcher), cfg.ReloadInterval)
	go reloadWorker.Start(ctx)

	routerCfg := server.RouterConfig{
		QuestionHandler:      handlers.NewQuestionHandler(qaSvc),
		KnowledgeBaseHandler: handlers.NewKnowledgeBaseHandler(kbSvc),
		MetaHandler:          handlers.NewMetaHandler("studyhall", Version),
	}

	router := server.NewRouter(routerCfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	reloadWorker.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

// applyPortFlag overrides the configured port only when the flag was passed
// explicitly, so -p 8080 beats an env-configured port too.
func applyPortFlag(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("port") {
		cfg.Port, _ = cmd.Flags().GetString("port")
	}
}

// newSource picks the knowledge-base source: object storage when configured,
// otherwise the local data directory.
func newSource(ctx context.Context, cfg *config.Config) (kb.Source, error) {
	if !cfg.HasS3() {
		log.Printf("loading knowledge base from %s", cfg.DataDir)
		return &kb.FileSource{Dir: cfg.DataDir}, nil
	}

	s3Client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
		Endpoint:        cfg.S3Endpoint,
		Region:          cfg.S3Region,
		AccessKeyID:     cfg.S3AccessKey,
		SecretAccessKey: cfg.S3SecretKey,
		Bucket:          cfg.S3Bucket,
		UsePathStyle:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}
	if err := s3Client.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure S3 bucket: %w", err)
	}
	log.Printf("loading knowledge base from S3 bucket '%s'", cfg.S3Bucket)
	return &kb.S3Source{Client: s3Client}, nil
}
