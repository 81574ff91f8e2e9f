package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"ywbridge/internal/flavor"
	"ywbridge/internal/project"
	"ywbridge/internal/workflow"
)

type xrefRow struct {
	Kind   string   `json:"kind"`
	Name   string   `json:"name"`
	Scenes []string `json:"scenes"`
}

func newXrefCommand(ctx *commandContext) *cobra.Command {
	var output listOutput

	cmd := &cobra.Command{
		Use:   "xref <project.yw7>",
		Short: "Show which scenes use each character, location, item and tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withManager(func(mgr *workflow.Manager) error {
				p, x, err := mgr.CrossReference(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				refs := xrefRows(p, x)
				rows := make([][]string, 0, len(refs))
				for _, r := range refs {
					rows = append(rows, []string{r.Kind, r.Name, strconv.Itoa(len(r.Scenes)), strings.Join(r.Scenes, ", ")})
				}
				return output.print(cmd, refs, "No scene references", []column{
					textColumn("Kind"),
					textColumn("Name"),
					countColumn("Count"),
					wrappedColumn("Scenes", wrapList),
				}, rows)
			})
		},
	}

	output.bind(cmd)
	return cmd
}

func xrefRows(p *project.Project, x *flavor.CrossReference) []xrefRow {
	sceneTitles := func(ids []string) []string {
		out := make([]string, 0, len(ids))
		for _, id := range ids {
			out = append(out, p.Scenes[id].Title)
		}
		return out
	}
	var rows []xrefRow
	for _, id := range p.CharacterOrder {
		if ids := x.CharacterScenes[id]; len(ids) > 0 {
			rows = append(rows, xrefRow{Kind: "character", Name: p.Characters[id].Title, Scenes: sceneTitles(ids)})
		}
	}
	for _, id := range p.LocationOrder {
		if ids := x.LocationScenes[id]; len(ids) > 0 {
			rows = append(rows, xrefRow{Kind: "location", Name: p.Locations[id].Title, Scenes: sceneTitles(ids)})
		}
	}
	for _, id := range p.ItemOrder {
		if ids := x.ItemScenes[id]; len(ids) > 0 {
			rows = append(rows, xrefRow{Kind: "item", Name: p.Items[id].Title, Scenes: sceneTitles(ids)})
		}
	}
	for _, tag := range x.Tags {
		if ids := x.TagScenes[tag]; len(ids) > 0 {
			rows = append(rows, xrefRow{Kind: "tag", Name: tag, Scenes: sceneTitles(ids)})
		}
	}
	return rows
}
