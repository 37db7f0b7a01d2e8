package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/studyhall-ai/studyhall/internal/cli"
	"github.com/studyhall-ai/studyhall/internal/cli/client"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "studyhall",
		Short: "Studyhall CLI - Ask the course assistant",
		Long: `Studyhall CLI sends questions to the course assistant API.

Environment variables:
  STUDYHALL_API_URL   API base URL (default: http://localhost:8080)`,
		Version: version,
	}

	rootCmd.PersistentFlags().Bool("output", false, "Output as JSON")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL (overrides env)")
	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(client.AskCmd())
	rootCmd.AddCommand(client.StatsCmd())
	rootCmd.AddCommand(client.HealthCmd())

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
