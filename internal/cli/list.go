package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/modu-ai/ccscaffold/internal/module"
	"github.com/modu-ai/ccscaffold/internal/ui"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available modules and which of them exclude each other",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().String("category", "", "Only list modules of this category")
}

var titleCaser = cases.Title(language.English)

func runList(cmd *cobra.Command, _ []string) error {
	var only []module.Category
	if c := module.Category(getStringFlag(cmd, "category")); c != "" {
		if !c.Valid() {
			names := make([]string, len(module.AllCategories))
			for i, ac := range module.AllCategories {
				names[i] = string(ac)
			}
			return fmt.Errorf("unknown category %q: must be one of: %s", c, strings.Join(names, ", "))
		}
		only = []module.Category{c}
	}

	md := listMarkdown(deps.Registry, only)
	_, _ = fmt.Fprint(cmd.OutOrStdout(), ui.RenderMarkdown(md, deps.Config.NoColor, renderWidth))
	return nil
}

// listMarkdown renders the modules of the given categories, all when only is
// empty, followed by the exclusivity groups touching them.
func listMarkdown(reg *module.Registry, only []module.Category) string {
	var sb strings.Builder
	sb.WriteString("# Modules\n\n")

	shown := map[string]bool{}
	for _, c := range reg.Categories() {
		if len(only) > 0 && !slices.Contains(only, c) {
			continue
		}
		var rows [][]string
		for _, d := range reg.ByCategory(c) {
			rows = append(rows, []string{d.ID, d.DisplayName(), d.Description})
			shown[d.ID] = true
		}
		fmt.Fprintf(&sb, "## %s\n\n```\n%s\n```\n\n", titleCaser.String(c.Label()), strings.Join(ui.Columns(rows), "\n"))
	}
	if len(shown) == 0 {
		sb.WriteString("No modules.\n")
		return sb.String()
	}

	all := reg.All()
	var groups []string
	for _, g := range module.GroupByExclusivity(all) {
		if !slices.ContainsFunc(g.Members, func(id string) bool { return shown[id] }) {
			continue
		}
		groups = append(groups, fmt.Sprintf("- %s (`%s`)", module.GetExclusivityGroupDescription(g.Members, all), strings.Join(g.Members, "`, `")))
	}
	if len(groups) > 0 {
		fmt.Fprintf(&sb, "## Alternatives\n\n%s\n", strings.Join(groups, "\n"))
	}
	return strings.TrimRight(sb.String(), "\n") + "\n"
}
