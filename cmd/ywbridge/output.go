package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// listOutput prints the result of a listing command as a table, or as
// indented JSON when --json is given.
type listOutput struct {
	asJSON bool
}

func (o *listOutput) bind(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.asJSON, "json", false, "Print JSON instead of a table")
}

// print writes v as JSON, or rows under columns. With no rows the empty
// message replaces the table.
func (o *listOutput) print(cmd *cobra.Command, v any, empty string, columns []column, rows [][]string) error {
	out := cmd.OutOrStdout()
	if o.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	if len(rows) == 0 && empty != "" {
		_, err := fmt.Fprintln(out, empty)
		return err
	}
	_, err := fmt.Fprintln(out, renderTable(columns, rows))
	return err
}
