package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	cahc "github.com/rbaliyan/config-cahc"
)

// app carries the per-invocation state shared by every subcommand.
type app struct {
	v       *viper.Viper
	log     zerolog.Logger
	cfgFile string

	in     io.Reader
	out    io.Writer
	errOut io.Writer

	// readSecret prompts for a key when none is configured.
	readSecret func(prompt string) ([]byte, error)
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	return &app{
		v:          viper.New(),
		log:        zerolog.Nop(),
		in:         in,
		out:        out,
		errOut:     errOut,
		readSecret: readPassword,
	}
}

// Execute runs the root command against the process streams.
func Execute() {
	a := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := a.rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", describe(err))
		os.Exit(1)
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "cahc",
		Short: "Layered symmetric encryption with an authenticated text envelope",
		Long: `cahc encrypts data with a PBKDF2-derived key triple: an HMAC-SHA512 counter
stream, then AES-256-CTR, authenticated by an HMAC-SHA512 tag. Output is a
base64 envelope carrying the salt, nonce, iteration count and tag.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig()
		},
	}
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.cahc.yaml)")
	root.PersistentFlags().StringP("key", "k", "", "master key (or use CAHC_KEY env var)")
	root.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringP("output", "o", formatText, "output format for encrypt and info (text, json, yaml)")
	a.bindFlagOrPanic(root.PersistentFlags(), "key", "key")
	a.bindFlagOrPanic(root.PersistentFlags(), "verbose", "verbose")
	a.bindFlagOrPanic(root.PersistentFlags(), "output", "output")

	root.AddCommand(
		a.keygenCmd(),
		a.encryptCmd(),
		a.decryptCmd(),
		a.infoCmd(),
	)
	return root
}

func (a *app) bindFlagOrPanic(flags *pflag.FlagSet, configKey, flagName string) {
	if err := a.v.BindPFlag(configKey, flags.Lookup(flagName)); err != nil {
		panic(fmt.Sprintf("failed to bind %s flag: %v", flagName, err))
	}
}

func (a *app) initConfig() error {
	a.v.SetDefault("iterations", cahc.DefaultIterations)
	a.v.SetDefault("salt_size", cahc.SaltSize)
	a.v.SetDefault("key_size", cahc.DefaultKeySize)
	a.v.SetDefault("output", "text")

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			a.v.AddConfigPath(home)
		}
		a.v.AddConfigPath(".")
		a.v.SetConfigType("yaml")
		a.v.SetConfigName(".cahc")
	}

	a.v.SetEnvPrefix("CAHC")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	a.v.AutomaticEnv()

	a.log = newLogger(a.errOut, a.v.GetBool("verbose"))

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		a.log.Debug().Str("file", a.v.ConfigFileUsed()).Msg("Using config file")
	}
	return nil
}

func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		Level(level).
		With().Timestamp().Logger()
}

// describe turns an operation error into a message that names the failure
// class without echoing any input.
func describe(err error) string {
	switch {
	case cahc.IsMalformedEncoding(err), cahc.IsTruncated(err):
		return "input is malformed: not a valid CAHC envelope"
	case cahc.IsUnsupportedVersion(err):
		return "unsupported envelope version"
	case cahc.IsAuthenticationFailed(err):
		return "authentication failed: wrong key or tampered data"
	default:
		return err.Error()
	}
}
