// Command pagon inspects route manifests: it lists the declared routes,
// traces which handlers a request would run and builds URLs from named
// routes.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var manifestPath string

	cmd := &cobra.Command{
		Use:   "pagon",
		Short: "Inspect pagon route manifests",
		Long: `pagon loads a route manifest and answers questions about it
without starting the application.

Handlers named in the manifest are replaced by recorders, so the
commands show what would run, never run it.

Examples:
  pagon routes -f routes.yaml
  pagon match -f routes.yaml GET /user/42
  pagon url -f routes.yaml user id=42`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&manifestPath, "file", "f", "routes.yaml", "Path to the route manifest")

	cmd.AddCommand(
		routesCmd(&manifestPath),
		matchCmd(&manifestPath),
		urlCmd(&manifestPath),
		versionCmd(),
	)

	return cmd
}
