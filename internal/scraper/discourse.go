// Package scraper collects forum posts from a Discourse instance and shapes
// them into knowledge-base records.
package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"

	"github.com/studyhall-ai/studyhall/internal/domain"
)

const (
	maxReplies       = 5
	replyMaxChars    = 500
	defaultRateLimit = 500 * time.Millisecond
)

// Config configures a Discourse scrape run.
type Config struct {
	// BaseURL is the forum root, e.g. https://discourse.example.com
	BaseURL string
	// CategoryKeywords select which categories to scrape; a category matches
	// when its name or slug contains any keyword (case-insensitive). Empty
	// means all categories.
	CategoryKeywords []string
	// Since and Until bound topic creation dates. Zero values disable the
	// respective bound.
	Since time.Time
	Until time.Time
	// RateLimit is the pause between HTTP requests.
	RateLimit time.Duration
	// HTTPClient overrides the default client.
	HTTPClient *http.Client
}

// Discourse scrapes forum posts via the Discourse JSON API.
type Discourse struct {
	baseURL   string
	keywords  []string
	since     time.Time
	until     time.Time
	rateLimit time.Duration
	client    *http.Client
}

// NewDiscourse creates a scraper for the given forum.
func NewDiscourse(cfg Config) *Discourse {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	rateLimit := cfg.RateLimit
	if rateLimit <= 0 {
		rateLimit = defaultRateLimit
	}
	return &Discourse{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		keywords:  cfg.CategoryKeywords,
		since:     cfg.Since,
		until:     cfg.Until,
		rateLimit: rateLimit,
		client:    client,
	}
}

type categoryList struct {
	CategoryList struct {
		Categories []category `json:"categories"`
	} `json:"category_list"`
}

type category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type topicList struct {
	TopicList struct {
		Topics        []topic `json:"topics"`
		MoreTopicsURL string  `json:"more_topics_url"`
	} `json:"topic_list"`
}

type topic struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

type topicDetail struct {
	PostStream struct {
		Posts []post `json:"posts"`
	} `json:"post_stream"`
}

type post struct {
	Cooked    string    `json:"cooked"`
	CreatedAt time.Time `json:"created_at"`
}

// Scrape walks the matching categories and returns one forum entry per topic
// in the configured date range.
func (d *Discourse) Scrape(ctx context.Context) ([]domain.ForumEntry, error) {
	categories, err := d.fetchCategories(ctx)
	if err != nil {
		return nil, err
	}

	var entries []domain.ForumEntry
	for _, cat := range categories {
		if !d.matchesKeywords(cat) {
			continue
		}
		log.Printf("scraping category %q (%s)", cat.Name, cat.Slug)

		topics, err := d.fetchTopics(ctx, cat)
		if err != nil {
			return nil, err
		}

		for _, t := range topics {
			if !d.inRange(t.CreatedAt) {
				continue
			}
			entry, err := d.fetchTopicEntry(ctx, t)
			if err != nil {
				log.Printf("skipping topic %d: %v", t.ID, err)
				continue
			}
			entries = append(entries, entry)
		}
	}

	log.Printf("scrape complete: %d forum entries", len(entries))
	return entries, nil
}

func (d *Discourse) matchesKeywords(cat category) bool {
	if len(d.keywords) == 0 {
		return true
	}
	name := strings.ToLower(cat.Name)
	slug := strings.ToLower(cat.Slug)
	for _, kw := range d.keywords {
		kw = strings.ToLower(kw)
		if strings.Contains(name, kw) || strings.Contains(slug, kw) {
			return true
		}
	}
	return false
}

func (d *Discourse) inRange(created time.Time) bool {
	if !d.since.IsZero() && created.Before(d.since) {
		return false
	}
	if !d.until.IsZero() && created.After(d.until) {
		return false
	}
	return true
}

func (d *Discourse) fetchCategories(ctx context.Context) ([]category, error) {
	var list categoryList
	if err := d.getJSON(ctx, "/categories.json", &list); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return list.CategoryList.Categories, nil
}

func (d *Discourse) fetchTopics(ctx context.Context, cat category) ([]topic, error) {
	var topics []topic
	for page := 0; ; page++ {
		var list topicList
		path := fmt.Sprintf("/c/%s/%d.json?page=%d", cat.Slug, cat.ID, page)
		if err := d.getJSON(ctx, path, &list); err != nil {
			return nil, fmt.Errorf("failed to list topics for %s: %w", cat.Slug, err)
		}

		topics = append(topics, list.TopicList.Topics...)

		if list.TopicList.MoreTopicsURL == "" || len(list.TopicList.Topics) == 0 {
			break
		}
	}
	return topics, nil
}

func (d *Discourse) fetchTopicEntry(ctx context.Context, t topic) (domain.ForumEntry, error) {
	var detail topicDetail
	path := fmt.Sprintf("/t/%s/%d.json", t.Slug, t.ID)
	if err := d.getJSON(ctx, path, &detail); err != nil {
		return domain.ForumEntry{}, err
	}

	posts := detail.PostStream.Posts
	if len(posts) == 0 {
		return domain.ForumEntry{}, fmt.Errorf("topic %d has no posts", t.ID)
	}

	var b strings.Builder
	b.WriteString(d.postMarkdown(posts[0]))

	replies := posts[1:]
	if len(replies) > maxReplies {
		replies = replies[:maxReplies]
	}
	for _, reply := range replies {
		text := truncate(d.postMarkdown(reply), replyMaxChars)
		if text == "" {
			continue
		}
		b.WriteString("\n\n---\n\n")
		b.WriteString(text)
	}

	return domain.ForumEntry{
		ID:           fmt.Sprintf("forum-%d", t.ID),
		Title:        t.Title,
		Content:      b.String(),
		URL:          fmt.Sprintf("%s/t/%s/%d", d.baseURL, t.Slug, t.ID),
		CreatedAt:    t.CreatedAt,
		RepliesCount: len(posts) - 1,
	}, nil
}

// postMarkdown converts a post's cooked HTML to markdown; on conversion
// failure it falls back to the raw HTML so no content is lost.
func (d *Discourse) postMarkdown(p post) string {
	markdown, err := htmltomarkdown.ConvertString(p.Cooked, converter.WithDomain(d.baseURL))
	if err != nil {
		log.Printf("html conversion failed, keeping raw content: %v", err)
		return strings.TrimSpace(p.Cooked)
	}
	return strings.TrimSpace(markdown)
}

func (d *Discourse) getJSON(ctx context.Context, path string, out interface{}) error {
	time.Sleep(d.rateLimit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: HTTP %d", path, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	return json.Unmarshal(body, out)
}

// truncate caps text at limit characters, cutting on a rune boundary so
// multi-byte content survives intact.
func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit-3]) + "..."
}

// Marshal renders entries as the forum collection JSON the loader consumes.
func Marshal(entries []domain.ForumEntry) ([]byte, error) {
	return json.MarshalIndent(entries, "", "  ")
}
