package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/pagekit/internal/errors"
	"github.com/vango-dev/pagekit/pkg/browser"
	"github.com/vango-dev/pagekit/pkg/urlparam"
)

func paramsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "params <url> [name]",
		Short: "Print the query parameters of a URL",
		Long: `Print the query parameters of an absolute URL.

With a name, print the first value of that parameter. Without one, print
every parameter as name=value in first-seen order; a repeated name keeps
its last value.

Examples:
  pagekit params 'https://example.com/?q=go+lang&page=2'
  pagekit params 'https://example.com/?q=go+lang&page=2' q`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			win, err := browser.New(args[0], nil)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(args) == 2 {
				v, ok := urlparam.Get(win, args[1])
				if !ok {
					return errors.Newf(errors.CategoryURL, "parameter %q not found", args[1]).
						WithInput(args[0], 0)
				}
				fmt.Fprintln(out, v)
				return nil
			}

			values, err := urlparam.Current(win)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(values.Map())
			}
			for _, k := range values.Keys() {
				v, _ := values.Get(k)
				fmt.Fprintf(out, "%s=%s\n", k, v)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print parameters as a JSON object")

	return cmd
}
