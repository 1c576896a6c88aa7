package main

import (
	"embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/tmplsync/pkg/errors"
)

//go:embed docs/*.md
var topicFiles embed.FS

func topicNames() []string {
	entries, err := topicFiles.ReadDir("docs")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, strings.TrimSuffix(entry.Name(), ".md"))
	}
	sort.Strings(names)
	return names
}

// renderTopic converts the topic markdown for the terminal. Plain text is
// kept as-is when stdout is piped or glamour fails.
func renderTopic(content string) string {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return content
	}
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

func newTopicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "topics [topic]",
		Short:     "Read the built-in documentation",
		Long:      `Without arguments, lists the available topics. With a topic name, renders it.`,
		ValidArgs: topicNames(),
		Args:      cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), headerStyle.Render("Available topics"))
				for _, name := range topicNames() {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", name)
				}
				fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render("\nRead one with 'tmplsync topics <name>'"))
				return nil
			}

			content, err := topicFiles.ReadFile("docs/" + args[0] + ".md")
			if err != nil {
				return errors.Newf(errors.ErrInvalidInput, "unknown topic %q", args[0])
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTopic(string(content)))
			return nil
		},
	}
}
