package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modu-ai/ccscaffold/internal/module"
	"github.com/modu-ai/ccscaffold/pkg/version"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of registry files",
	Long: `Print the JSON schema that every registry file must satisfy.

Point registry_dir in the config at a directory of YAML files valid under
this schema to add modules of your own.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		data, err := module.GenerateSchema()
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	// Needs no configuration.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	Run: func(cmd *cobra.Command, _ []string) {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "ccscaffold %s\n", version.GetFullVersion())
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(versionCmd)
}
