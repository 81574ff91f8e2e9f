package main

import (
	"github.com/spf13/cobra"

	"ywbridge/internal/flavor"
)

type flavorView struct {
	Name        string `json:"name"`
	Suffix      string `json:"suffix"`
	Extension   string `json:"extension"`
	Description string `json:"description"`
	Writable    bool   `json:"writable"`
	Split       bool   `json:"split"`
}

func newFlavorsCommand() *cobra.Command {
	var output listOutput

	cmd := &cobra.Command{
		Use:         "flavors",
		Short:       "List the document flavors",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			views := flavorViews(flavor.All())
			rows := make([][]string, 0, len(views))
			for _, v := range views {
				rows = append(rows, []string{v.Name, "<project>" + v.Suffix + v.Extension, v.Description, yesNo(v.Writable), yesNo(v.Split)})
			}
			return output.print(cmd, views, "", []column{
				textColumn("Flavor"),
				textColumn("File"),
				wrappedColumn("Description", wrapList),
				textColumn("Writable"),
				textColumn("Split"),
			}, rows)
		},
	}

	output.bind(cmd)
	return cmd
}

func flavorViews(all []*flavor.Descriptor) []flavorView {
	views := make([]flavorView, 0, len(all))
	for _, d := range all {
		views = append(views, flavorView{
			Name:        d.Name,
			Suffix:      d.Suffix,
			Extension:   d.Ext(),
			Description: d.Description,
			Writable:    d.Writable,
			Split:       d.Split,
		})
	}
	return views
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
