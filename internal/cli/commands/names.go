package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewNamesCommand creates the names command
func NewNamesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "names FILE...",
		Short: "List every qualified name the configuration refers to",
		Long: `Print the sorted, deduplicated set of qualified names referenced by the
valid entries of the given configuration files, one per line.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			defer s.logger.Sync() //nolint:errcheck

			p, err := collectFiles(cmd, s, s.cfg.Collect.Strict, s.cfg.Output.Indent, args)
			if err != nil {
				return fmt.Errorf("names failed: %w", err)
			}

			for _, name := range p.collector.Registry().QualifiedNames() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
