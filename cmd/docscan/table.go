package main

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"docscan/internal/session"
)

// renderSessionsTable lays out the sessions listing. Folder counts are
// right-aligned so progress reads as a column of numbers.
func renderSessionsTable(sessions []*session.Session) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"ID", "Status", "Created", "Folders", "Done", "Engine", "Mode", "Autosave"})

	for _, sess := range sessions {
		tw.AppendRow(table.Row{
			sess.ID,
			string(sess.Status),
			sess.CreatedAt.Local().Format("2006-01-02 15:04"),
			strconv.Itoa(len(sess.Folders)),
			strconv.Itoa(sess.CompletedFolders()),
			sess.Engine,
			string(sess.BatchMode),
			yesNo(sess.AutoSave),
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 5, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}
