package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/pagekit/pkg/browser"
	"github.com/vango-dev/pagekit/pkg/urlparam"
)

func pushCmd() *cobra.Command {
	var replace bool

	cmd := &cobra.Command{
		Use:   "push <url> [name=value]...",
		Short: "Print the URL a history write would produce",
		Long: `Write the given parameters into a history entry for url and print the
resulting location. The path of url is kept; its query is replaced by the
parameters in the order given.

Examples:
  pagekit push https://example.com/search q='go lang' page=2
  pagekit push --replace https://example.com/list?page=3 page=4`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			win, err := browser.New(args[0], nil)
			if err != nil {
				return err
			}

			params := urlparam.NewValues()
			for _, arg := range args[1:] {
				name, value, ok := strings.Cut(arg, "=")
				if !ok || name == "" {
					return argsError("parameter %q is not name=value", arg).
						WithExample("pagekit push https://example.com/ q=go")
				}
				params.Set(name, value)
			}

			mode := urlparam.ModePush
			if replace {
				mode = urlparam.ModeReplace
			}
			win.Navigator().Navigate(params, mode)

			fmt.Fprintln(cmd.OutOrStdout(), win.Href())
			return nil
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "Replace the current entry instead of pushing")

	return cmd
}
