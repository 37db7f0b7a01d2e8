package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	// DataDir is where the collection files live when loading from disk.
	DataDir    string `envconfig:"DATA_DIR" default:"data"`
	CourseFile string `envconfig:"COURSE_FILE" default:"course_content.json"`
	ForumFile  string `envconfig:"FORUM_FILE" default:"forum_posts.json"`

	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"studyhall-kb"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`

	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`
	VisionModel  string `envconfig:"VISION_MODEL"`

	FuzzyWeight   float64 `envconfig:"FUZZY_WEIGHT" default:"0.7"`
	KeywordWeight float64 `envconfig:"KEYWORD_WEIGHT" default:"0.3"`
	MinScore      float64 `envconfig:"MIN_SCORE" default:"0.3"`
	TopN          int     `envconfig:"TOP_N" default:"3"`

	AnswerTimeout  time.Duration `envconfig:"ANSWER_TIMEOUT" default:"30s"`
	ReloadInterval time.Duration `envconfig:"RELOAD_INTERVAL" default:"30s"`

	SentryDSN              string  `envconfig:"SENTRY_DSN"`
	SentryEnvironment      string  `envconfig:"SENTRY_ENVIRONMENT"`
	SentryTracesSampleRate float64 `envconfig:"SENTRY_TRACES_SAMPLE_RATE" default:"1.0"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("STUDYHALL", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

// HasS3 reports whether the knowledge base should be read from object storage.
func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}
