package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/doppelganger/archviz/pkg/diagram"
	"github.com/doppelganger/archviz/pkg/topology"
)

// listCommand creates the list command showing all registered diagrams.
func (c *CLI) listCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the registered diagrams",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, reg, err := c.resolve(configPath, "", "")
			if err != nil {
				return err
			}
			printDiagramTable(reg)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "config file (default archviz.toml if present)")
	return cmd
}

// printDiagramTable renders the registry as a bordered table.
func printDiagramTable(reg *diagram.Registry) {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := [][]string{}
	for _, g := range reg.All() {
		rows = append(rows, []string{g.Name(), g.FileName(), sourceOf(g)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Diagram", "File", "Source").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	fmt.Println(t)
	printDetail("%d diagram(s)", reg.Len())
}

// sourceOf describes where a generator came from.
func sourceOf(g diagram.Generator) string {
	if td, ok := g.(*topology.Diagram); ok {
		return td.Source()
	}
	return "built-in"
}
