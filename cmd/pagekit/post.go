package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/pagekit/internal/errors"
	"github.com/vango-dev/pagekit/pkg/rest"
)

func postCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "post <url> [json]",
		Short: "POST a JSON payload and print the decoded response",
		Long: `POST a JSON payload ("-" or no argument reads stdin) to url and print the
decoded response. A non-2xx status or a body that is not JSON fails the
command with the same message a page callback would receive as
{"error": ...}.

Examples:
  pagekit post http://localhost:44344/bp/post/read '{"method":"echo","data":1}'
  echo '{"method":"methods"}' | pagekit post http://localhost:44344/bp/post/read`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var body []byte
			if len(args) == 2 && args[1] != "-" {
				body = []byte(args[1])
			} else {
				var err error
				if body, err = io.ReadAll(cmd.InOrStdin()); err != nil {
					return err
				}
			}
			if !json.Valid(body) {
				return argsError("payload is not valid JSON").
					WithExample(`pagekit post http://localhost:44344/bp/post/read '{"method":"echo"}'`)
			}

			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			res := rest.NewClient().Post(ctx, args[0], json.RawMessage(body))
			if !res.Ok() {
				return errors.New("request.failed").WithInput(args[0], 0).WithDetail(res.Err).Wrap(res.Cause)
			}

			out, err := json.MarshalIndent(res.Payload(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout (0 for none)")

	return cmd
}
