package commands

import (
	"runtime"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/aotcfg/internal/cli/ui"
	"github.com/conduit-lang/aotcfg/internal/platform"
)

// NewPlatformCommand creates the platform command
func NewPlatformCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "platform [LIB]",
		Short: "Show host platform details",
		Long: `Show the host operating system and architecture, a monotonic clock
reading, and, when LIB is given, the file name this platform uses for that
shared library.

Examples:
  aotcfg platform          # OS, architecture and clock
  aotcfg platform z        # ... plus libz.so on Linux`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")

			now, err := platform.NanoTime()
			if err != nil {
				return err
			}

			table := ui.NewKeyValueTable(cmd.OutOrStdout(), noColor)
			table.AddRow("OS", runtime.GOOS)
			table.AddRow("Arch", runtime.GOARCH)
			table.AddRow("Monotonic ns", strconv.FormatInt(now, 10))
			if len(args) == 1 {
				table.AddRow("Library", platform.MapLibraryName(args[0]))
			}
			table.Render()
			return nil
		},
	}
}
