package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/aotcfg/internal/cli/ui"
	"github.com/conduit-lang/aotcfg/internal/configfile"
)

// NewNormalizeCommand creates the normalize command
func NewNormalizeCommand() *cobra.Command {
	var (
		output   string
		toStdout bool
		strict   bool
		indent   int
		compress bool
	)

	cmd := &cobra.Command{
		Use:   "normalize FILE...",
		Short: "Merge configuration files into one canonical document",
		Long: `Merge proxy and type configuration files into one canonical document.

Entries are validated, deduplicated and sorted, so the output is identical
no matter how the inputs are ordered. Files ending in .gz are read and
written gzip-compressed.

Examples:
  aotcfg normalize a.json b.json                 # Write to output.path
  aotcfg normalize -o proxy-config.json *.json   # Write to a specific file
  aotcfg normalize --stdout a.json               # Print to standard output
  aotcfg normalize --strict a.json               # Fail on the first invalid entry`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			defer s.logger.Sync() //nolint:errcheck

			if !cmd.Flags().Changed("strict") {
				strict = s.cfg.Collect.Strict
			}
			if !cmd.Flags().Changed("indent") {
				indent = s.cfg.Output.Indent
			}
			if !cmd.Flags().Changed("compress") {
				compress = s.cfg.Output.Compress
			}
			if output == "" {
				output = s.cfg.Output.Path
			}

			p, err := collectFiles(cmd, s, strict, indent, args)
			if err != nil {
				return fmt.Errorf("normalize failed: %w", err)
			}

			if toStdout {
				return p.collector.Flush(cmd.OutOrStdout())
			}

			opts := configfile.WriteOptions{Indent: indent, Compress: compress}
			if err := configfile.Write(output, p.collector.Registry(), opts); err != nil {
				return err
			}

			ui.WriteSuccess(cmd.OutOrStdout(),
				fmt.Sprintf("Wrote %d descriptors to %s", p.collector.Registry().Len(), output), s.noColor)
			if n := len(p.result.Rejected); n > 0 {
				ui.WriteError(cmd.ErrOrStderr(), ui.ErrorOptions{
					Level:        ui.ErrorLevelWarning,
					Problem:      fmt.Sprintf("%d invalid entries were skipped", n),
					HelpCommands: []string{"Fail instead: aotcfg normalize --strict"},
					NoColor:      s.noColor,
				})
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: output.path)")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "Write to standard output instead of a file")
	cmd.Flags().BoolVar(&strict, "strict", false, "Abort on the first invalid entry")
	cmd.Flags().IntVar(&indent, "indent", 2, "Spaces per indentation level")
	cmd.Flags().BoolVar(&compress, "compress", false, "Gzip the output")

	return cmd
}
