package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"ywbridge/internal/language"
	"ywbridge/internal/workflow"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var flavorName string
	var output string
	var force bool

	cmd := &cobra.Command{
		Use:   "generate <project.yw7>",
		Short: "Generate an office document from a yWriter project",
		Long: "Generate renders the project as the selected flavor. The document is\n" +
			"written next to the project as <project>_<suffix>.odt or .ods unless\n" +
			"--output names another path. Run 'ywbridge flavors' for the list.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withManager(func(mgr *workflow.Manager) error {
				out, err := mgr.Generate(cmd.Context(), workflow.Request{
					Project:   args[0],
					Document:  strings.TrimSpace(output),
					Flavor:    strings.TrimSpace(flavorName),
					Overwrite: force,
				})
				if err != nil {
					return err
				}
				printOutcome(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&flavorName, "flavor", "f", "manuscript", "Document flavor to generate")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Document path (default derived from the project)")
	cmd.Flags().BoolVar(&force, "force", false, "Replace an existing document")
	return cmd
}

func newWriteBackCommand(ctx *commandContext) *cobra.Command {
	var projectPath string

	cmd := &cobra.Command{
		Use:     "writeback <document>",
		Aliases: []string{"write-back"},
		Short:   "Write an edited document back into its yWriter project",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withManager(func(mgr *workflow.Manager) error {
				out, err := mgr.WriteBack(cmd.Context(), workflow.Request{
					Project:  strings.TrimSpace(projectPath),
					Document: args[0],
				})
				if err != nil {
					return err
				}
				printOutcome(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&projectPath, "project", "p", "", "Project file (default derived from the document name)")
	return cmd
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <document>",
		Short: "Create a new yWriter project from a plain document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withManager(func(mgr *workflow.Manager) error {
				out, err := mgr.Import(cmd.Context(), workflow.Request{Document: args[0]})
				if err != nil {
					return err
				}
				printOutcome(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
}

func newConvertCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <document>",
		Short: "Write back a generated document or import any other document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withManager(func(mgr *workflow.Manager) error {
				out, err := mgr.Convert(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printOutcome(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
}

func printOutcome(w io.Writer, out *workflow.Outcome) {
	colorize := shouldColorize(w)
	switch out.Operation {
	case workflow.OpGenerate:
		fmt.Fprintln(w, renderStatusLine("Generated", statusOK, out.DocumentPath, colorize))
		fmt.Fprintln(w, renderStatusLine("Flavor", statusInfo, out.Flavor, colorize))
	case workflow.OpWriteBack:
		fmt.Fprintln(w, renderStatusLine("Updated", statusOK, out.ProjectPath, colorize))
		fmt.Fprintln(w, renderStatusLine("From", statusInfo, out.DocumentPath, colorize))
		if out.BackupPath != "" {
			fmt.Fprintln(w, renderStatusLine("Backup", statusInfo, out.BackupPath, colorize))
		}
		if len(out.Pruned) > 0 {
			fmt.Fprintln(w, renderStatusLine("Pruned", statusInfo, fmt.Sprintf("%d old backups", len(out.Pruned)), colorize))
		}
		if res := out.Result; res != nil {
			changes := fmt.Sprintf("%d updated, %d created, %d deleted", res.Updated, len(res.Created), len(res.Deleted))
			fmt.Fprintln(w, renderStatusLine("Changes", statusInfo, changes, colorize))
			if res.Split {
				fmt.Fprintln(w, renderStatusLine("Split", statusWarn, "generate the document again before further edits", colorize))
			}
		}
	case workflow.OpImport:
		fmt.Fprintln(w, renderStatusLine("Created", statusOK, out.ProjectPath, colorize))
		fmt.Fprintln(w, renderStatusLine("Mode", statusInfo, out.Mode.String(), colorize))
	}
	languages := out.Languages
	if languages == nil && out.Result != nil {
		languages = out.Result.Languages
	}
	if len(languages) > 0 {
		names := make([]string, 0, len(languages))
		for _, tag := range languages {
			names = append(names, fmt.Sprintf("%s (%s)", language.DisplayName(tag), tag))
		}
		fmt.Fprintln(w, renderStatusLine("Languages", statusInfo, strings.Join(names, ", "), colorize))
	}
	renderReport(w, out.Report, colorize)
}
