package client

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// Answer represents the answer payload from the API.
type Answer struct {
	Answer string `json:"answer"`
	Links  []Link `json:"links"`
}

// Link represents a supporting link in an answer.
type Link struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

// AskCmd creates the ask command.
func AskCmd() *cobra.Command {
	var imagePath string

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question against the knowledge base",
		Long:  "Sends a question (and optionally a screenshot) to the server and prints the synthesized answer.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runAsk(cmd, strings.Join(args, " "), imagePath, outputJSON)
		},
	}

	cmd.Flags().StringVarP(&imagePath, "image", "i", "", "Path to a screenshot to include with the question")

	return cmd
}

func runAsk(cmd *cobra.Command, question, imagePath string, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	body := map[string]string{"question": question}
	if imagePath != "" {
		raw, err := os.ReadFile(imagePath)
		if err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}
		body["image"] = base64.StdEncoding.EncodeToString(raw)
	}

	resp, err := api.Post("/api/", body)
	if err != nil {
		return fmt.Errorf("failed to ask question: %w", err)
	}

	var answer Answer
	if err := json.Unmarshal(resp.Data, &answer); err != nil {
		return fmt.Errorf("failed to parse answer: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(answer, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Println(answer.Answer)
	if len(answer.Links) > 0 {
		fmt.Println()
		fmt.Println("--- Links ---")
		for _, link := range answer.Links {
			fmt.Printf("%s\n  %s\n", link.Text, link.URL)
		}
	}

	return nil
}
