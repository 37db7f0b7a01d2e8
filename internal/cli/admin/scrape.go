package admin

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/studyhall-ai/studyhall/internal/config"
	"github.com/studyhall-ai/studyhall/internal/scraper"
	"github.com/studyhall-ai/studyhall/internal/storage"
)

// ScrapeCmd returns the scrape command
func ScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape forum posts into the knowledge base",
		Long:  "Scrape a Discourse forum's matching categories and write the forum collection JSON",
		RunE:  runScrape,
	}

	cmd.Flags().String("base-url", "", "Discourse forum base URL (required)")
	cmd.Flags().StringSlice("category", nil, "Category name keywords to scrape (repeatable, default all)")
	cmd.Flags().String("since", "", "Only topics created on or after this date (YYYY-MM-DD)")
	cmd.Flags().String("until", "", "Only topics created on or before this date (YYYY-MM-DD)")
	cmd.Flags().StringP("output", "o", "", "Output file path (default the configured forum file)")
	cmd.Flags().Bool("upload", false, "Upload the result to the configured S3 bucket")
	_ = cmd.MarkFlagRequired("base-url")

	return cmd
}

func runScrape(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	baseURL, _ := cmd.Flags().GetString("base-url")
	categories, _ := cmd.Flags().GetStringSlice("category")

	since, err := parseDateFlag(cmd, "since")
	if err != nil {
		return err
	}
	until, err := parseDateFlag(cmd, "until")
	if err != nil {
		return err
	}

	entries, err := scraper.NewDiscourse(scraper.Config{
		BaseURL:          baseURL,
		CategoryKeywords: categories,
		Since:            since,
		Until:            until,
	}).Scrape(ctx)
	if err != nil {
		return fmt.Errorf("scrape failed: %w", err)
	}

	data, err := scraper.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode forum collection: %w", err)
	}

	upload, _ := cmd.Flags().GetBool("upload")
	if upload {
		if !cfg.HasS3() {
			return fmt.Errorf("--upload requires S3 configuration (STUDYHALL_S3_ENDPOINT)")
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
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		if err := s3Client.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("failed to ensure S3 bucket: %w", err)
		}
		if err := s3Client.PutObject(ctx, cfg.ForumFile, data, "application/json"); err != nil {
			return fmt.Errorf("failed to upload forum collection: %w", err)
		}
		log.Printf("uploaded %d forum entries to s3://%s/%s", len(entries), cfg.S3Bucket, cfg.ForumFile)
		return nil
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = cfg.ForumFile
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	log.Printf("wrote %d forum entries to %s", len(entries), output)
	return nil
}

func parseDateFlag(cmd *cobra.Command, name string) (time.Time, error) {
	value, _ := cmd.Flags().GetString(name)
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s date %q (expected YYYY-MM-DD)", name, value)
	}
	return t, nil
}
