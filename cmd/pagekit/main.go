package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/pagekit/internal/config"
	"github.com/vango-dev/pagekit/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌─┐┌─┐┌─┐┌─┐┬┌─┬┌┬┐
  ├─┘├─┤│ ┬├┤ ├┴┐│ │
  ┴  ┴ ┴└─┘└─┘┴ ┴┴ ┴
`

// configPath is the --config flag shared by every command.
var configPath string

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var noColor bool

	rootCmd := &cobra.Command{
		Use:   "pagekit",
		Short: "Page URL, history and formatting helpers",
		Long: `pagekit bundles the small helpers a web page leans on:

  • CSS selector queries over parsed HTML
  • Query string reading and history entries
  • Identifier case conversion
  • UTC timestamp formatting
  • A JSON POST client that never throws
  • A dispatch server that drives pages over WebSocket`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor || os.Getenv("NO_COLOR") != "" {
				errors.DisableColors()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to pagekit.json (default: nearest above the working directory)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		caseCmd(),
		datetimeCmd(),
		paramsCmd(),
		pushCmd(),
		selectCmd(),
		postCmd(),
		serveCmd(),
		versionCmd(),
	)

	return rootCmd
}

// loadConfig loads --config when given, otherwise the nearest pagekit.json.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	return config.LoadFromWorkingDir()
}

// argsError reports a bad command line.
func argsError(format string, args ...any) *errors.Error {
	return errors.New("cli.args").WithDetail(fmt.Sprintf(format, args...))
}

// printBanner prints the ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
