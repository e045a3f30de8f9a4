package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	cahc "github.com/rbaliyan/config-cahc"
)

func (a *app) infoCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "info",
		Short: "Show envelope parameters",
		Long:  "Parse a base64 envelope read from stdin (or --in) and print its parameters. No key is needed.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(a.v.GetString("output"))
			if err != nil {
				return err
			}

			path, _ := cmd.Flags().GetString("in")
			ciphertext, err := a.readEnvelope(path)
			if err != nil {
				return err
			}

			info, err := cahc.Inspect(ciphertext)
			if err != nil {
				return err
			}

			if format != formatText {
				return render(a.out, format, info)
			}
			w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Version:\t%d\n", info.Version)
			fmt.Fprintf(w, "Iterations:\t%d\n", info.Iterations)
			fmt.Fprintf(w, "Salt size:\t%d bytes\n", info.SaltSize)
			fmt.Fprintf(w, "Ciphertext size:\t%d bytes\n", info.CiphertextSize)
			return w.Flush()
		},
	}
	c.Flags().String("in", "", "read the envelope from file instead of stdin")
	return c
}
