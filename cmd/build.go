package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/yesetoda/graylog_query/internal/querydef"
)

var buildCmd = &cobra.Command{
	Use:   "build [file]",
	Short: "Render a query definition",
	Long: "Reads a YAML or JSON query definition from file, or stdin when file is omitted " +
		"or \"-\", and prints the resulting Graylog query.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r := cmd.InOrStdin()
		source := "stdin"
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return errors.Wrap(err, "cannot open query definition")
			}
			defer f.Close()
			r, source = f, args[0]
		}
		return runBuild(cmd.OutOrStdout(), r, source)
	},
}

func runBuild(w io.Writer, r io.Reader, source string) error {
	def, err := querydef.Load(r)
	if err != nil {
		return errors.Wrapf(err, "cannot load %s", source)
	}
	query := def.Builder().Build()
	log.Debug().
		Str("source", source).
		Int("steps", def.Len()).
		Str("query", query).
		Msg("query built")
	_, err = fmt.Fprintln(w, query)
	return err
}
