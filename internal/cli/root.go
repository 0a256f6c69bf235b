package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/modu-ai/ccscaffold/pkg/version"
)

var rootCmd = &cobra.Command{
	Use:   "ccscaffold",
	Short: "Install Claude Code agents, skills, hooks and configs into a project",
	Long: `ccscaffold sets up Claude Code in a project from a registry of modules:
agents, skills, slash commands, project docs, MCP servers, hooks,
code-style configs and CI workflows.

Modules that are alternatives to each other (for example two formatters)
cannot be installed together; the wizard disables them as soon as one of
them is picked.`,
	Version:           version.GetVersion(),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: ensureDependencies,
}

// @MX:ANCHOR: [AUTO] Execute is the main entry point for the ccscaffold CLI
// @MX:REASON: [AUTO] fan_in=2, called from cmd/ccscaffold/main.go and root_test.go
// Execute runs the root command. Dependencies are built lazily from the
// persistent flags before the selected subcommand runs. An interrupt
// cancels the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("ccscaffold %s\n", version.GetVersion()))

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Config file (default: $XDG_CONFIG_HOME/ccscaffold/config.yaml or ./.ccscaffold.yaml)")
	pf.Bool("no-color", false, "Disable colors and animations")
	pf.Bool("verbose", false, "Write debug logs to stderr")
	pf.String("prompt", "", "Prompt mode: auto, tui, line or headless")
}

// getStringFlag retrieves a string flag value from the command.
func getStringFlag(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		return ""
	}
	return val
}

// getBoolFlag retrieves a bool flag value from the command.
func getBoolFlag(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false
	}
	return val
}
