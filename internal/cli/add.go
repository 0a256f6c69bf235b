package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/modu-ai/ccscaffold/internal/cli/wizard"
	"github.com/modu-ai/ccscaffold/internal/installer"
)

var addCmd = &cobra.Command{
	Use:   "add <module>...",
	Short: "Add modules to a project set up by ccscaffold",
	Long: `Add modules to a project without running the wizard.

The requested modules are checked against each other and against the
modules recorded in .claude/ccscaffold.yaml; a set containing alternatives
(for example two formatters) is refused.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().String("dir", ".", "Project root directory")
	addCmd.Flags().Bool("dry-run", false, "Print the changes as unified diffs without writing")
	addCmd.Flags().Bool("force", false, "Overwrite existing files and let module values win in merged files")
}

func runAdd(cmd *cobra.Command, args []string) error {
	root, err := projectRoot([]string{getStringFlag(cmd, "dir")}, false)
	if err != nil {
		return err
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return fmt.Errorf("project directory %s does not exist", root)
	}
	manifest, err := installer.ReadManifest(root)
	if err != nil {
		return err
	}

	var ids []string
	for _, arg := range args {
		ids = append(ids, splitIDs(arg)...)
	}
	for _, id := range ids {
		if manifest.Has(id) {
			deps.Logger.Info("module already installed, reinstalling", "module", id)
		}
	}

	mods, err := resolveSelection(manifest.Modules, ids)
	if err != nil {
		return err
	}
	return install(cmd, root, wizard.DefaultProjectName(root), mods, getBoolFlag(cmd, "dry-run"))
}
