package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/pagekit/pkg/strcase"
)

func caseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "case <conversion> <text>...",
		Short: "Convert identifiers between dash-case, camelCase and snake_case",
		Long: `Convert each text argument and print one result per line.

Conversions:
  dash-to-camel   background-color -> backgroundColor
  camel-to-dash   backgroundColor  -> background-color
  snake-to-dash   max_width        -> max-width

Examples:
  pagekit case dash-to-camel font-size
  pagekit case camel-to-dash fontSize borderTopWidth`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			conv, ok := strcase.Lookup(args[0])
			if !ok {
				return argsError("unknown conversion %q", args[0]).
					WithSuggestion("Use one of: " + strings.Join(strcase.Names(), ", ")).
					WithExample("pagekit case dash-to-camel font-size")
			}
			for _, s := range args[1:] {
				fmt.Fprintln(cmd.OutOrStdout(), conv(s))
			}
			return nil
		},
	}
	return cmd
}
