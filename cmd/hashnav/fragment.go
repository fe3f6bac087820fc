package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	hnerrors "github.com/vango-dev/hashnav/internal/errors"
	"github.com/vango-dev/hashnav/pkg/bridge"
	"github.com/vango-dev/hashnav/pkg/hashroute"
)

func parseCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "parse <fragment>",
		Short: "Show the page and variables held by a fragment",
		Long: `Parse a fragment and print its page key and variables.

Malformed segments are dropped and malformed escapes are kept as
literal text; a warning lists how much was degraded.

Examples:
  hashnav parse 'search/q=hello%20world&page=2'
  hashnav parse --json '#home/x=1'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, report := hashroute.Inspect(args[0])
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(bridge.ParseResponse{
					StateJSON: bridge.StateToJSON(state),
					Report:    report,
				})
			}

			printState(out, state)
			if report.Degraded() {
				warn(cmd.ErrOrStderr(), "dropped %d segment(s), %d undecodable field(s)",
					report.Dropped, report.DecodeFallbacks)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of text")
	return cmd
}

func formatCmd() *cobra.Command {
	var (
		page  string
		vars  []string
		unset []string
	)

	cmd := &cobra.Command{
		Use:   "format",
		Short: "Build a fragment from a page and variables",
		Long: `Build a fragment. Variables keep the order they are given in.

Examples:
  hashnav format --page search --var q='hello world' --var page=2
  hashnav format --var only=vars`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state := hashroute.RouteState{PageKey: page, Vars: hashroute.NewVars()}
			for _, assignment := range vars {
				key, value, err := parseAssignment(assignment)
				if err != nil {
					return err
				}
				state.Vars.Set(key, value)
			}
			for _, key := range unset {
				state.Vars.Unset(key)
			}
			fmt.Fprintln(cmd.OutOrStdout(), hashroute.Format(state))
			return nil
		},
	}

	cmd.Flags().StringVarP(&page, "page", "p", "", "Page key")
	cmd.Flags().StringArrayVarP(&vars, "var", "v", nil, "Variable as key=value (repeatable)")
	cmd.Flags().StringArrayVar(&unset, "unset", nil, "Key to leave out (repeatable)")
	return cmd
}

func pageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "page <fragment> <page>",
		Short: "Replace the page of a fragment, keeping its variables",
		Example: `  hashnav page 'home/x=1' settings
  # settings/x=1`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := hashroute.NewMemoryLocation(args[0])
			hashroute.NewNavigator(loc).ChangePage(args[1])
			fmt.Fprintln(cmd.OutOrStdout(), loc.Read())
			return nil
		},
	}
}

func varsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vars <fragment> [key=value | -key]...",
		Short: "Merge variable changes into a fragment",
		Long: `Merge variable changes into a fragment. key=value sets a variable,
-key removes it. Existing keys keep their position; new keys are
appended in the order given.

Examples:
  hashnav vars 'search/q=go&page=2' page=3
  hashnav vars 'search/q=go&page=2' -page sort=new`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			updates, err := parseUpdates(args[1:])
			if err != nil {
				return err
			}
			loc := hashroute.NewMemoryLocation(args[0])
			hashroute.NewNavigator(loc).ChangeRouteVars(updates)
			fmt.Fprintln(cmd.OutOrStdout(), loc.Read())
			return nil
		},
	}

	// Everything after the fragment is an update, including "-key".
	cmd.Flags().SetInterspersed(false)
	return cmd
}

// parseAssignment splits "key=value" at the first "=".
func parseAssignment(s string) (key, value string, err error) {
	key, value, ok := strings.Cut(s, "=")
	if !ok {
		return "", "", hnerrors.New("E200").WithField(s).
			WithSuggestion(fmt.Sprintf("Write %s= for an empty value", s))
	}
	return key, value, nil
}

// parseUpdates turns key=value and -key arguments into a Vars update.
func parseUpdates(args []string) (*hashroute.Vars, error) {
	updates := hashroute.NewVars()
	for _, arg := range args {
		if key, ok := strings.CutPrefix(arg, "-"); ok && !strings.Contains(arg, "=") {
			updates.Unset(key)
			continue
		}
		key, value, err := parseAssignment(arg)
		if err != nil {
			return nil, err
		}
		updates.Set(key, value)
	}
	return updates, nil
}
