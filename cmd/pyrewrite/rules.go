package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pyrewrite/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the available rules",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := rules.Default(rules.Options{})
		out := cmd.OutOrStdout()
		for _, r := range reg.All() {
			state := "on"
			if !reg.EnabledByDefault(r.Code()) {
				state = "off"
			}
			fixable := ""
			if _, ok := r.(rules.Fixer); ok {
				fixable = " (fixable)"
			}
			fmt.Fprintf(out, "%-6s %-3s %-17s %s%s\n", r.Code().ID(), state, r.Name(), r.Code().Title(), fixable)
		}
		return nil
	},
}
