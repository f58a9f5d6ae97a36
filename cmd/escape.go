package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yesetoda/graylog_query/query_builder"
)

var escapeQuote bool

var escapeCmd = &cobra.Command{
	Use:   "escape <value>...",
	Short: "Escape reserved query characters",
	Long:  "Prints each value with the reserved characters of the query grammar escaped, one per line.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, v := range args {
			out := query_builder.Escape(v)
			if escapeQuote {
				out = query_builder.New().Term(query_builder.Text(v)).Build()
			}
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), out); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	escapeCmd.Flags().BoolVar(&escapeQuote, "quote", false, "wrap each escaped value in double quotes")
}
