package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	cahc "github.com/rbaliyan/config-cahc"
)

func (a *app) keygenCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a random master key",
		Long:  "Generate a random master key and print it as lowercase hex.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			size := a.v.GetInt("key_size")
			key, err := cahc.GenerateSecureKey(size)
			if err != nil {
				return err
			}
			a.log.Debug().Int("bytes", size).Msg("Generated key")
			_, err = fmt.Fprintln(a.out, key)
			return err
		},
	}
	c.Flags().Int("size", cahc.DefaultKeySize, "number of random bytes")
	a.bindFlagOrPanic(c.Flags(), "key_size", "size")
	return c
}
