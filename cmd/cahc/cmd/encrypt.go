package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	cahc "github.com/rbaliyan/config-cahc"
)

type encryptOutput struct {
	Ciphertext string    `json:"ciphertext" yaml:"ciphertext"`
	Key        string    `json:"key,omitempty" yaml:"key,omitempty"`
	Salt       string    `json:"salt" yaml:"salt"`
	Iterations int       `json:"iterations" yaml:"iterations"`
	Timestamp  time.Time `json:"timestamp" yaml:"timestamp"`
}

func (a *app) encryptCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "encrypt",
		Short: "Encrypt data into a CAHC envelope",
		Long: `Encrypt data read from stdin (or --in) and print the base64 envelope.
When no key is configured a random one is generated and printed to stderr.`,
		Args: cobra.NoArgs,
		RunE: a.runEncrypt,
	}
	c.Flags().Int("iterations", cahc.DefaultIterations, "PBKDF2 iterations, clamped to [1000, 100000]")
	c.Flags().Int("salt-size", cahc.SaltSize, "salt size in bytes")
	c.Flags().String("salt", "", "hex-encoded salt to use instead of a random one")
	c.Flags().String("in", "", "read plaintext from file instead of stdin")
	a.bindFlagOrPanic(c.Flags(), "iterations", "iterations")
	a.bindFlagOrPanic(c.Flags(), "salt_size", "salt-size")
	return c
}

func (a *app) runEncrypt(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(a.v.GetString("output"))
	if err != nil {
		return err
	}

	path, _ := cmd.Flags().GetString("in")
	plaintext, err := a.readInput(path)
	if err != nil {
		return err
	}
	defer clear(plaintext)

	key := a.v.GetString("key")
	opts := []cahc.EncryptOption{
		cahc.WithMasterKey(key),
		cahc.WithIterations(a.v.GetInt("iterations")),
		cahc.WithSaltSize(a.v.GetInt("salt_size")),
	}
	if salt, _ := cmd.Flags().GetString("salt"); salt != "" {
		opts = append(opts, cahc.WithCustomSalt(salt))
	}

	a.log.Debug().
		Int("bytes", len(plaintext)).
		Int("iterations", a.v.GetInt("iterations")).
		Bool("generated_key", key == "").
		Msg("Encrypting")

	res, err := cahc.Encrypt(plaintext, opts...)
	if err != nil {
		return err
	}

	if format == formatText {
		if key == "" {
			fmt.Fprintf(a.errOut, "Generated key: %s\n", res.Key)
		}
		_, err = fmt.Fprintln(a.out, res.Ciphertext)
		return err
	}

	out := encryptOutput{
		Ciphertext: res.Ciphertext,
		Salt:       res.Salt,
		Iterations: res.Iterations,
		Timestamp:  res.Timestamp,
	}
	if key == "" {
		out.Key = res.Key
	}
	return render(a.out, format, out)
}
