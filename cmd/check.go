package cmd

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/abhisek/fieldsurvey/internal/questiontree"
	"github.com/abhisek/fieldsurvey/internal/surveydef"
)

var checkCmd = &cobra.Command{
	Use:   "check [template]",
	Short: "Lint a survey template",
	Long: `Check a survey template for authoring mistakes.

Without an argument the configured template, or the built-in survey, is checked.
Every problem is reported, not just the first.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.Survey.TemplatePath
		if len(args) == 1 {
			path = args[0]
		}

		var (
			sv  *questiontree.Survey
			err error
		)
		if path == "" {
			sv, err = surveydef.Default()
		} else {
			sv, err = surveydef.Load(path)
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if err := questiontree.Validate(sv); err != nil {
			var merr *multierror.Error
			if errors.As(err, &merr) {
				for _, e := range merr.Errors {
					fmt.Fprintln(out, "✗", e)
				}
				return fmt.Errorf("%d problem(s) found", len(merr.Errors))
			}
			return err
		}

		schema, err := questiontree.Assign(sv)
		if err != nil {
			return err
		}
		questions := 0
		for _, id := range schema.IDs() {
			if n, ok := schema.Node(id); ok && n.Kind.NeedsAnswer() {
				questions++
			}
		}
		fmt.Fprintf(out, "✓ %s (version %q): %d pages, %d questions\n",
			schema.Title(), schema.Version(), schema.PageCount(), questions)
		return nil
	},
}
