package main

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"gridpull/internal/acquire"
	"gridpull/internal/nsrdb"
)

func renderTable(headers []string, rows [][]string) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range headers {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := 1; i < columns; i++ {
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       text.AlignRight,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

func renderSummaryTable(summary acquire.Summary) string {
	rows := [][]string{
		{"succeeded", strconv.Itoa(summary.Succeeded)},
		{"skipped", strconv.Itoa(summary.Skipped)},
		{"failed", strconv.Itoa(summary.Failed)},
		{"bytes written", strconv.FormatInt(summary.Bytes, 10)},
	}
	for _, kind := range []nsrdb.Kind{
		nsrdb.KindRateLimited, nsrdb.KindTransient,
		nsrdb.KindPermanent, nsrdb.KindContentInvalid, nsrdb.KindUnknown,
	} {
		if count := summary.FailureKinds[kind]; count > 0 {
			rows = append(rows, []string{"  " + kind.String(), strconv.Itoa(count)})
		}
	}
	return renderTable([]string{"Outcome", "Tasks"}, rows)
}
