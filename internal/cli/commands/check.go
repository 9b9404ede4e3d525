package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/aotcfg/internal/cli/ui"
)

// NewCheckCommand creates the check command
func NewCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE...",
		Short: "Validate configuration files",
		Long: `Validate every entry of the given configuration files.

A diagnostic is printed for each rejected entry and the command exits with
an error if any entry was rejected. Nothing is written.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			defer s.logger.Sync() //nolint:errcheck

			p, err := collectFiles(cmd, s, false, s.cfg.Output.Indent, args)
			if err != nil {
				return fmt.Errorf("check failed: %w", err)
			}

			files := ui.NewTable(cmd.OutOrStdout(), s.noColor, "FILE", "NAMED", "PROXY", "DUPLICATES", "REJECTED")
			for _, stats := range p.result.Producers {
				files.AddRow(stats.Name,
					strconv.Itoa(stats.Named),
					strconv.Itoa(stats.Proxy),
					strconv.Itoa(stats.Duplicates),
					strconv.Itoa(stats.Rejected),
				)
			}
			files.Render()
			fmt.Fprintln(cmd.OutOrStdout())

			table := ui.NewKeyValueTable(cmd.OutOrStdout(), s.noColor)
			table.AddRow("Files", strconv.Itoa(len(p.inputs)))
			table.AddRow("Entries", strconv.Itoa(p.result.Added+p.result.Duplicates+len(p.result.Rejected)))
			table.AddRow("Unique", strconv.Itoa(p.collector.Registry().Len()))
			table.AddRow("Duplicates", strconv.Itoa(p.result.Duplicates))
			table.AddRow("Rejected", strconv.Itoa(len(p.result.Rejected)))
			table.Render()

			if n := len(p.result.Rejected); n > 0 {
				return fmt.Errorf("%d invalid entries", n)
			}
			ui.WriteSuccess(cmd.OutOrStdout(), "All entries are valid", s.noColor)
			return nil
		},
	}
}
