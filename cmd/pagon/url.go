package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func urlCmd(manifestPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "url NAME [key=value|value]...",
		Short: "Build a path from a named route",
		Long: `Build a path from a named route. key=value arguments fill named
placeholders; bare values fill positional ones in order.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, _, _, err := loadApp(*manifestPath)
			if err != nil {
				return err
			}

			params := make(map[string]string)
			var positional []string
			for _, a := range args[1:] {
				if k, v, ok := strings.Cut(a, "="); ok {
					params[k] = v
					continue
				}
				positional = append(positional, a)
			}

			path, err := app.URLFor(args[0], params, positional...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}
