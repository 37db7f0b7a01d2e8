package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// Stats represents the knowledge-base summary from the API.
type Stats struct {
	CourseEntryCount int    `json:"course_entries"`
	ForumEntryCount  int    `json:"forum_posts"`
	TotalEntries     int    `json:"total_entries"`
	KeywordsIndexed  int    `json:"keywords_indexed"`
	LastUpdated      string `json:"last_updated"`
}

// StatsCmd creates the stats command.
func StatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show knowledge-base statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runStats(cmd, outputJSON)
		},
	}
}

func runStats(cmd *cobra.Command, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Get("/api/stats")
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}

	var stats Stats
	if err := json.Unmarshal(resp.Data, &stats); err != nil {
		return fmt.Errorf("failed to parse stats: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(stats, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Course entries: %d\n", stats.CourseEntryCount)
	fmt.Printf("Forum posts: %d\n", stats.ForumEntryCount)
	fmt.Printf("Total entries: %d\n", stats.TotalEntries)
	fmt.Printf("Keywords indexed: %d\n", stats.KeywordsIndexed)
	fmt.Printf("Last updated: %s\n", stats.LastUpdated)

	return nil
}
