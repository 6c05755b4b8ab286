package exporter

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"noshowcli/pkg/contracts/domain"
)

// WriteText renders the report tables to w
func WriteText(w io.Writer, title string, a *domain.Analysis) error {
	if _, err := fmt.Fprintf(w, "%s\n", title); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Generated: %s\n", formatTimestamp(a.GeneratedAt)); err != nil {
		return err
	}

	for _, t := range ReportTables(a) {
		if err := renderTable(w, t); err != nil {
			return err
		}
	}
	return nil
}

func renderTable(w io.Writer, t Table) error {
	if _, err := fmt.Fprintf(w, "\n%s\n", t.Title); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	table.SetBorder(true)
	table.SetHeader(t.Headers)
	table.AppendBulk(t.Rows)
	table.Render()
	return nil
}
