package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/aymericcousaert/squads-cli/internal/app"
)

// renderTable prints rows as a table on stdout.
func renderTable(cfg *app.Config, header table.Row, rows []table.Row) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(header)
	t.AppendRows(rows)
	if cfg.Output.NoColor {
		t.SetStyle(table.StyleDefault)
	} else {
		t.SetStyle(table.StyleLight)
	}
	t.Render()
}

// renderJSON prints v as indented JSON on stdout.
func renderJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
