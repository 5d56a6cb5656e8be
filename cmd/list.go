package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teemow/inboxpilot/internal/config"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available agents",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := newAgentRegistry(config.Config{}, nil)
			for _, reg := range registry.List() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", reg.Name, reg.Description)
			}
			return nil
		},
	}
}
