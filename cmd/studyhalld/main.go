package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/studyhall-ai/studyhall/internal/cli"
	"github.com/studyhall-ai/studyhall/internal/cli/admin"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "studyhalld",
		Short: "Studyhall daemon and admin CLI",
		Long:  "Studyhall daemon for running the question-answering API server and scraping forum content",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())
	rootCmd.AddCommand(admin.ScrapeCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
