package main

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ywbridge/internal/journal"
	"ywbridge/internal/workflow"
)

type historyView struct {
	Time     string `json:"time"`
	Kind     string `json:"kind"`
	Project  string `json:"project"`
	Document string `json:"document,omitempty"`
	Flavor   string `json:"flavor,omitempty"`
	Split    bool   `json:"split"`
	Warnings int    `json:"warnings"`
	Session  string `json:"session"`
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var output listOutput

	cmd := &cobra.Command{
		Use:   "history [project.yw7]",
		Short: "Show recent conversions from the journal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withManager(func(mgr *workflow.Manager) error {
				var projectPath string
				if len(args) == 1 {
					projectPath = args[0]
				}
				events, err := mgr.History(cmd.Context(), projectPath, limit)
				if err != nil {
					return err
				}
				views := historyViews(events)
				rows := make([][]string, 0, len(views))
				for _, v := range views {
					split := ""
					if v.Split {
						split = "split"
					}
					rows = append(rows, []string{
						v.Time,
						v.Kind,
						baseName(v.Project),
						baseName(v.Document),
						v.Flavor,
						split,
						strconv.Itoa(v.Warnings),
					})
				}
				return output.print(cmd, views, "No conversions recorded", []column{
					textColumn("Time"),
					textColumn("Kind"),
					textColumn("Project"),
					textColumn("Document"),
					textColumn("Flavor"),
					textColumn("Split"),
					countColumn("Warnings"),
				}, rows)
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of events (0 for all)")
	output.bind(cmd)
	return cmd
}

func historyViews(events []*journal.Event) []historyView {
	views := make([]historyView, 0, len(events))
	for _, ev := range events {
		views = append(views, historyView{
			Time:     ev.CreatedAt.Local().Format(time.DateTime),
			Kind:     string(ev.Kind),
			Project:  ev.ProjectPath,
			Document: ev.DocumentPath,
			Flavor:   strings.TrimSpace(ev.Flavor),
			Split:    ev.Split,
			Warnings: ev.Warnings,
			Session:  ev.SessionID,
		})
	}
	return views
}

func baseName(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Base(path)
}
