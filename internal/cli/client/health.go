package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// HealthCmd creates the health command.
func HealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check whether the server is up",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHealth(cmd)
		},
	}
}

func runHealth(cmd *cobra.Command) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Get("/health")
	if err != nil {
		return fmt.Errorf("server is not healthy: %w", err)
	}

	var status map[string]string
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return fmt.Errorf("failed to parse health response: %w", err)
	}

	fmt.Printf("status: %s\n", status["status"])
	return nil
}
