package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func routesCmd(manifestPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List routes and middleware in dispatch order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, m, _, err := loadApp(*manifestPath)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KIND\tPREFIX/PATTERN\tMETHODS\tNAME\tHANDLERS")

			for _, e := range app.Stack().Entries() {
				prefix := e.Prefix
				if prefix == "" {
					prefix = "*"
				}
				fmt.Fprintf(w, "middleware\t%s\t-\t-\t%s\n", prefix, e.Ref)
			}

			for i, r := range app.Routes().Routes() {
				methods := strings.Join(r.Methods(), ",")
				if methods == "" {
					methods = "*"
				}
				name := r.RouteName()
				if name == "" {
					name = "-"
				}
				fmt.Fprintf(w, "route\t%s\t%s\t%s\t%s\n",
					r.Pattern(), methods, name, strings.Join(m.Routes[i].Handlers, ","))
			}

			return w.Flush()
		},
	}
}
