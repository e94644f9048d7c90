package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/cottand/inhabit/decl"
	"github.com/cottand/inhabit/inhabit"
	"github.com/cottand/inhabit/internal/log"
	"github.com/spf13/cobra"
)

var BoundsCmd = &cobra.Command{
	Use:          "bounds file.yaml",
	Short:        "Print the effective upper bound of every declared type parameter",
	RunE:         runBounds,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
}

var boundsLogLevel *int

func init() {
	boundsLogLevel = BoundsCmd.Flags().IntP("log-level", "l", int(slog.LevelError), "log level")
}

func runBounds(cmd *cobra.Command, args []string) error {
	log.SetLevel(slog.Level(*boundsLogLevel))

	decls, err := load(args[0])
	if err != nil {
		return err
	}
	return printBounds(cmd.OutOrStdout(), decls)
}

// printBounds lists the parameters of classes first, qualified by their class
func printBounds(w io.Writer, decls *decl.Declarations) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, class := range decls.Classes {
		for _, p := range class.TypeParameters() {
			_, _ = fmt.Fprintf(tw, "%s.%s\t%s\n", class.Name(), p.Name(), inhabit.GetEffectiveUpperBound(p))
		}
	}
	for _, p := range decls.TypeParameters {
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", p.Name(), inhabit.GetEffectiveUpperBound(p))
	}
	return tw.Flush()
}
