package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/cottand/inhabit/decl"
	"github.com/cottand/inhabit/inhabit"
	"github.com/cottand/inhabit/internal/log"
	"github.com/cottand/inhabit/types"
	"github.com/spf13/cobra"
)

var CheckCmd = &cobra.Command{
	Use:          "check file.yaml",
	Short:        "Answer the queries of a declaration file",
	Long:         "Answer the queries of a declaration file, failing if any answer differs from what the query expects",
	RunE:         runCheck,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
}

var (
	checkLogLevel *int
	checkColor    *string
)

func init() {
	checkLogLevel = CheckCmd.Flags().IntP("log-level", "l", int(slog.LevelError), "log level")
	checkColor = CheckCmd.Flags().String("color", colorAuto, "colorize output: auto, always or never")
}

func runCheck(cmd *cobra.Command, args []string) error {
	log.SetLevel(slog.Level(*checkLogLevel))

	colors, err := newPalette(*checkColor)
	if err != nil {
		return err
	}
	decls, err := load(args[0])
	if err != nil {
		return err
	}
	if mismatches := answer(cmd.OutOrStdout(), decls.Queries, colors); mismatches > 0 {
		return fmt.Errorf("%d of %d queries did not match their expectation", mismatches, len(decls.Queries))
	}
	return nil
}

// answer writes one line per query and returns how many did not match their expectation
func answer(w io.Writer, queries []decl.Query, colors palette) (mismatches int) {
	for _, q := range queries {
		var got string
		matched := true
		switch q.Kind {
		case decl.IntersectQuery:
			populated := inhabit.IsIntersectionTypePopulatedOrBottom(q.A, q.B)
			got = verdict(populated)
			if q.ExpectPopulated != nil && *q.ExpectPopulated != populated {
				matched = false
				got += colors.bad(" expected " + verdict(*q.ExpectPopulated))
			}
		case decl.BoundQuery:
			bound := inhabit.GetEffectiveUpperBound(q.Parameter)
			got = bound.String()
			if q.ExpectBound != nil && !types.Equivalent(bound, q.ExpectBound) {
				matched = false
				got += colors.bad(" expected " + q.ExpectBound.String())
			}
		}

		mark := colors.good("ok")
		if !matched {
			mismatches++
			mark = colors.bad("FAIL")
		}
		_, _ = fmt.Fprintf(w, "%s %s %s: %s\n", mark, colors.faint(q.Pos.String()), q, got)
	}
	return mismatches
}

func verdict(populated bool) string {
	if populated {
		return "populated"
	}
	return "empty"
}
