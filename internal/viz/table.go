package viz

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/san-kum/dynfmu/internal/fmu"
)

var (
	tableHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")).Padding(0, 1)
	tableCell   = lipgloss.NewStyle().Padding(0, 1)
	tableValue  = tableCell.Foreground(lipgloss.Color("#00ccff"))
)

// VariableTable renders vars in registry order with their current values.
func VariableTable(vars []*fmu.Variable) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#444466"))).
		Headers("vr", "name", "type", "causality", "variability", "unit", "value").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return tableHeader
			case col == 6:
				return tableValue
			}
			return tableCell
		})

	for _, v := range vars {
		t.Row(
			strconv.FormatUint(uint64(v.ValueReference()), 10),
			v.Name(),
			v.Type().String(),
			v.Causality().String(),
			v.Variability().String(),
			v.Unit(),
			v.FormatValue(),
		)
	}
	return t.Render()
}
