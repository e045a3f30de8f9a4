package cmd

import (
	"github.com/spf13/cobra"

	cahc "github.com/rbaliyan/config-cahc"
)

func (a *app) decryptCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "decrypt",
		Short: "Decrypt a CAHC envelope",
		Long: `Decrypt a base64 envelope read from stdin (or --in) and write the plaintext
to stdout. Prompts for the key when none is configured.`,
		Args: cobra.NoArgs,
		RunE: a.runDecrypt,
	}
	c.Flags().String("salt", "", "hex-encoded salt the envelope must carry")
	c.Flags().String("in", "", "read the envelope from file instead of stdin")
	return c
}

func (a *app) runDecrypt(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("in")
	ciphertext, err := a.readEnvelope(path)
	if err != nil {
		return err
	}

	key, err := a.masterKey()
	if err != nil {
		return err
	}

	var opts []cahc.DecryptOption
	if salt, _ := cmd.Flags().GetString("salt"); salt != "" {
		opts = append(opts, cahc.WithExpectedSalt(salt))
	}

	a.log.Debug().Int("bytes", len(ciphertext)).Msg("Decrypting")

	plaintext, err := cahc.Decrypt(ciphertext, key, opts...)
	if err != nil {
		a.log.Debug().Str("outcome", outcomeOf(err)).Msg("Decryption failed")
		return err
	}
	defer clear(plaintext)

	_, err = a.out.Write(plaintext)
	return err
}

// masterKey returns the configured key, prompting when none is set.
func (a *app) masterKey() (string, error) {
	if key := a.v.GetString("key"); key != "" {
		return key, nil
	}
	b, err := a.readSecret("Key: ")
	if err != nil {
		return "", err
	}
	defer clear(b)
	if len(b) == 0 {
		return "", cahc.ErrInvalidKey
	}
	return string(b), nil
}

func outcomeOf(err error) string {
	switch {
	case cahc.IsInvalidFormat(err):
		return "malformed"
	case cahc.IsAuthenticationFailed(err):
		return "authentication_failed"
	default:
		return "error"
	}
}
