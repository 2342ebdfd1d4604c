package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/autocrud/pkg/adapter"
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string
	GitCommit string
	BuildDate string
}

// NewVersionCommand creates the version command.
func NewVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display the autocrud version, build metadata and the compiled-in database backends.`,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "autocrud v%s\n", info.Version)
			_, _ = fmt.Fprintf(out, "commit:   %s\n", info.GitCommit)
			_, _ = fmt.Fprintf(out, "built:    %s\n", info.BuildDate)
			_, _ = fmt.Fprintf(out, "backends: %s\n", strings.Join(adapter.ListAdapters(), ", "))
		},
	}
}
