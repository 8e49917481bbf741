package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// UniverseResult is the JSON payload of the universe command.
type UniverseResult struct {
	Years          []string `json:"years"`
	Concepts       []string `json:"concepts"`
	Base           string   `json:"base,omitempty"`
	MostRecentYear int      `json:"most_recent_year"`
}

// NewUniverseCommand creates the universe command.
func NewUniverseCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "universe",
		Short: "List the years and concepts formulas may reference",
		Long: `List the fiscal years and concept names that bracketed tokens resolve
against. The base concept is only reachable through [Market Cap].`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUniverse(rootOpts, cmd)
		},
	}
	return cmd
}

func runUniverse(opts *RootOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	cfg, err := loadConfig(opts, formatter)
	if err != nil {
		return err
	}

	now := opts.now()
	u := cfg.ConceptUniverse(now)
	result := UniverseResult{
		Years:          u.Years,
		Concepts:       u.Concepts,
		Base:           u.Base,
		MostRecentYear: cfg.MostRecentYear(now),
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Years: %s\n", strings.Join(u.Years, ", "))
	fmt.Fprintln(w, "Concepts:")
	for _, name := range u.Concepts {
		if name == u.Base {
			fmt.Fprintf(w, "  %s (via [Market Cap])\n", name)
			continue
		}
		fmt.Fprintf(w, "  %s\n", name)
	}
	return nil
}
