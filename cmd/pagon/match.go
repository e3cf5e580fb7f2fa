package main

import (
	"fmt"
	"maps"
	"net/http/httptest"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/pagon"
)

func matchCmd(manifestPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "match METHOD PATH",
		Short: "Trace the handlers a request would run",
		Long: `Dispatch a synthetic request through the manifest's middleware
and routes and print every handler it reaches, the matched route and
its captures.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, _, rec, err := loadApp(*manifestPath)
			if err != nil {
				return err
			}

			method, path := strings.ToUpper(args[0]), args[1]
			req := httptest.NewRequest(method, path, nil)
			c := pagon.NewContext(httptest.NewRecorder(), req, pagon.WithContextRoutes(app.Routes()))

			handled, err := app.Dispatcher().Run(c)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if r := c.Route(); r != nil {
				fmt.Fprintf(out, "route:    %s\n", r.Pattern())
				if name := r.RouteName(); name != "" {
					fmt.Fprintf(out, "name:     %s\n", name)
				}
				params := c.Params()
				for _, k := range slices.Sorted(maps.Keys(params)) {
					fmt.Fprintf(out, "param:    %s=%s\n", k, params[k])
				}
				for i, v := range c.Args() {
					fmt.Fprintf(out, "arg:      %d=%s\n", i, v)
				}
			}
			fmt.Fprintf(out, "handlers: %s\n", strings.Join(rec.trace, " -> "))
			if !handled {
				fmt.Fprintln(out, "result:   not found")
				return nil
			}
			fmt.Fprintln(out, "result:   handled")
			return nil
		},
	}
}
