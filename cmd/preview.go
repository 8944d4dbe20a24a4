package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/fieldsurvey/internal/questiontree"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show the stamped question tree for a set of answers (no database)",
	Long: `Print the survey with its question ids, marking which questions are
reachable for the given answers and which one is the first unanswered.

Answers are read from a YAML or JSON map of question id to value. With
--output json the flattened responses are printed instead of the tree.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().String("answers", "", "YAML or JSON file mapping question ids to answers")
	previewCmd.Flags().Int("page", -1, "Only show this page (0-based)")
	previewCmd.Flags().StringP("output", "o", "tree", "Output format: tree or json")
}

func runPreview(cmd *cobra.Command, args []string) error {
	answersPath, _ := cmd.Flags().GetString("answers")
	page, _ := cmd.Flags().GetInt("page")
	output, _ := cmd.Flags().GetString("output")

	schema, err := loadSurvey()
	if err != nil {
		return fmt.Errorf("load survey: %w", err)
	}

	answers := questiontree.Answers{}
	if answersPath != "" {
		answers, err = readAnswers(answersPath)
		if err != nil {
			return err
		}
	}

	if page >= schema.PageCount() {
		return fmt.Errorf("page %d out of range: survey has %d pages", page, schema.PageCount())
	}

	out := cmd.OutOrStdout()
	switch strings.ToLower(output) {
	case "tree":
		printTree(out, schema, answers, page)
		return nil
	case "json":
		records := schema.Flatten(answers)
		if page >= 0 {
			records = questiontree.Flatten(answers, []questiontree.Page{schema.Page(page)})
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	default:
		return fmt.Errorf("invalid output %q: must be tree or json", output)
	}
}

// readAnswers decodes an answers file. YAML is a superset of JSON, so one
// decoder serves both; scalar values are kept in their written form.
func readAnswers(path string) (questiontree.Answers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read answers: %w", err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse answers %s: %w", path, err)
	}
	answers := make(questiontree.Answers, len(raw))
	for id, v := range raw {
		if v == nil {
			continue
		}
		answers[id] = fmt.Sprint(v)
	}
	return answers, nil
}

// printTree writes every node of the selected pages, reachable or not.
// Reachable nodes are marked with "•", the first unanswered with "▸".
func printTree(w io.Writer, schema *questiontree.Schema, answers questiontree.Answers, only int) {
	for p, nodes := range schema.Pages() {
		if only >= 0 && p != only {
			continue
		}
		reachable := make(map[string]bool)
		for _, id := range questiontree.Reachable(nodes, answers) {
			reachable[id] = true
		}
		first, _ := questiontree.FirstUnanswered(nodes, answers)

		status := "incomplete"
		if questiontree.AllAnswered(answers, nodes) {
			status = "complete"
		}
		fmt.Fprintf(w, "Page %d (%s)\n", p, status)
		for _, n := range nodes {
			printNode(w, n, answers, reachable, first, 1)
		}
		fmt.Fprintln(w)
	}
}

func printNode(w io.Writer, n *questiontree.Node, answers questiontree.Answers, reachable map[string]bool, first string, depth int) {
	if n == nil {
		return
	}
	id := n.Ident()
	mark := " "
	switch {
	case id == first:
		mark = "▸"
	case reachable[id]:
		mark = "•"
	}

	line := fmt.Sprintf("%s%s %-14s %-15s %s", strings.Repeat("  ", depth), mark, id, n.Kind, n.Text)
	if v, ok := answers.Answer(id); ok && n.Kind.NeedsAnswer() {
		line += fmt.Sprintf("  = %q", v)
	}
	fmt.Fprintln(w, line)

	for _, key := range n.FollowUpKeys() {
		fu := n.FollowUps[key]
		if fu.Shape == questiontree.ShapeInvalid {
			fmt.Fprintf(w, "%s  [%s] (malformed follow-up ignored)\n", strings.Repeat("  ", depth+1), key)
			continue
		}
		fmt.Fprintf(w, "%s  [%s]\n", strings.Repeat("  ", depth+1), key)
		for _, c := range fu.Children() {
			printNode(w, c, answers, reachable, first, depth+2)
		}
	}
}
