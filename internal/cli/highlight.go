package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jsripraj/stock-alchemy/internal/concept"
)

// HighlightSpan is one segment of a highlighted formula.
type HighlightSpan struct {
	Text      string `json:"text"`
	Bracketed bool   `json:"bracketed,omitempty"`
	Resolved  bool   `json:"resolved,omitempty"`
	Canonical string `json:"canonical,omitempty"`
}

// HighlightResult is the JSON payload of the highlight command.
type HighlightResult struct {
	Spans      []HighlightSpan `json:"spans"`
	Unresolved []string        `json:"unresolved"`
}

// NewHighlightCommand creates the highlight command.
func NewHighlightCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "highlight <formula>",
		Short: "Show which bracketed tokens resolve to concepts",
		Long: `Split a formula into plain text and bracketed tokens, marking each
token that resolves in the concept universe with its canonical spelling.
Unresolved tokens are listed. Highlighting never fails on bad formulas.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHighlight(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runHighlight(opts *RootOptions, text string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	cfg, err := loadConfig(opts, formatter)
	if err != nil {
		return err
	}

	spans := concept.Highlight(text, cfg.ConceptUniverse(opts.now()))
	result := HighlightResult{
		Spans:      make([]HighlightSpan, 0, len(spans)),
		Unresolved: []string{},
	}
	for _, s := range spans {
		hs := HighlightSpan{Text: s.Text, Bracketed: s.Bracketed}
		if s.Token != nil {
			hs.Resolved = true
			hs.Canonical = s.Token.Canonical()
		} else if s.Bracketed {
			result.Unresolved = append(result.Unresolved, s.Text)
		}
		result.Spans = append(result.Spans, hs)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	var b strings.Builder
	for _, s := range spans {
		switch {
		case s.Token != nil:
			b.WriteString(s.Display())
		case s.Bracketed:
			b.WriteString("?" + s.Text + "?")
		default:
			b.WriteString(s.Text)
		}
	}
	fmt.Fprintln(formatter.Writer, b.String())
	for _, raw := range result.Unresolved {
		fmt.Fprintf(formatter.Writer, "  unresolved: %s\n", raw)
	}
	return nil
}
