package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/pagekit/pkg/dom"
	"github.com/vango-dev/pagekit/pkg/render"
	"github.com/vango-dev/pagekit/pkg/vdom"
)

func selectCmd() *cobra.Command {
	var (
		all  bool
		text bool
	)

	cmd := &cobra.Command{
		Use:   "select <file.html|-> <selector>",
		Short: "Query an HTML document with a CSS selector",
		Long: `Parse an HTML file ("-" reads stdin) and print the first element that
matches the selector, or every match with --all.

Supported selectors: type, #id, .class, [attr], [attr=v], [attr~=v],
[attr|=v], [attr^=v], [attr$=v], [attr*=v], *, the descendant, > child,
+ adjacent and ~ general sibling combinators, and comma-separated
groups. Pseudo-classes such as :first-child are reported as unsupported.

Examples:
  pagekit select index.html 'nav a.active'
  curl -s https://example.com | pagekit select - 'h1' --text`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(cmd, args[0])
			if err != nil {
				return err
			}

			var nodes []*vdom.VNode
			if all {
				nodes, err = doc.QuerySelectorAll(args[1])
			} else {
				var node *vdom.VNode
				node, err = dom.Query(doc, args[1])
				if node != nil {
					nodes = []*vdom.VNode{node}
				}
			}
			if err != nil {
				return err
			}
			if len(nodes) == 0 {
				warn("no element matches %s", args[1])
				return nil
			}

			out := cmd.OutOrStdout()
			for _, node := range nodes {
				if text {
					fmt.Fprintln(out, node.TextContent())
					continue
				}
				s, err := render.RenderString(node)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, s)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Print every match")
	cmd.Flags().BoolVarP(&text, "text", "t", false, "Print text content instead of markup")

	return cmd
}

func readDocument(cmd *cobra.Command, path string) (*dom.Document, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	return dom.ParseHTML(r)
}
