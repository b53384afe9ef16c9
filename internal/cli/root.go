// Package cli implements farmctl, a command line client for the farm API.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/smartfarm/backend/internal/client"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	defaultServer = "http://localhost:8080"
	defaultBroker = "tcp://localhost:1883"
)

// Publisher sends one MQTT message. Close disconnects.
type Publisher interface {
	Publish(topic string, payload []byte) error
	Close()
}

// PublisherFactory connects a Publisher to broker
type PublisherFactory func(broker, clientID string) (Publisher, error)

// Options holds the global flags and the collaborators commands run against
type Options struct {
	Server    string
	TokenFile string
	Timeout   time.Duration
	Verbose   bool

	// NewPublisher is used by sensors simulate; defaults to paho
	NewPublisher PublisherFactory

	logger *zap.Logger
	farm   *client.FarmClient
	tokens *client.FileTokenStore
}

// Execute runs farmctl with os.Args. Cancelling ctx stops long running
// commands such as sensors simulate.
func Execute(ctx context.Context) error {
	err := NewRootCommand(&Options{}).ExecuteContext(ctx)
	if client.IsUnauthorized(err) {
		fmt.Fprintln(os.Stderr, "Not authorized. Log in with: farmctl login --email <email> --password <password>")
	}
	return err
}

// NewRootCommand builds the command tree. Unset option fields get defaults
// from the environment.
func NewRootCommand(opts *Options) *cobra.Command {
	if opts.NewPublisher == nil {
		opts.NewPublisher = newMQTTPublisher
	}

	rootCmd := &cobra.Command{
		Use:   "farmctl",
		Short: "Command line client for the smartfarm API",
		Long: `farmctl talks to a smartfarm backend: register and log in, manage your
fields, and record or inspect sensor readings.

The session token is kept in --token-file and sent with every request.
It is removed automatically when the server rejects it.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.Server, "server", envOr("FARMCTL_SERVER", defaultServer), "API base URL (env FARMCTL_SERVER)")
	flags.StringVar(&opts.TokenFile, "token-file", envOr("FARMCTL_TOKEN_FILE", defaultTokenFile()), "File holding the session token (env FARMCTL_TOKEN_FILE)")
	flags.DurationVar(&opts.Timeout, "timeout", 30*time.Second, "Request timeout")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable debug logging on stderr")

	rootCmd.AddCommand(
		newRegisterCmd(opts),
		newLoginCmd(opts),
		newLogoutCmd(opts),
		newFieldsCmd(opts),
		newSensorsCmd(opts),
	)
	return rootCmd
}

func (o *Options) setup() error {
	if o.farm != nil {
		return nil
	}

	level := zapcore.WarnLevel
	if o.Verbose {
		level = zapcore.DebugLevel
	}
	logCfg := zap.NewDevelopmentConfig()
	logCfg.Level = zap.NewAtomicLevelAt(level)
	logCfg.DisableStacktrace = true
	log, err := logCfg.Build()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	o.logger = log

	if o.TokenFile == "" {
		return errors.New("--token-file must not be empty")
	}
	o.tokens = client.NewFileTokenStore(o.TokenFile)

	gw, err := client.NewGateway(client.Config{
		BaseURL:   o.Server,
		Timeout:   o.Timeout,
		UserAgent: "farmctl/1.0",
		Logger:    log,
	}, o.tokens)
	if err != nil {
		return err
	}
	o.farm = client.NewFarmClient(gw)
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("format response: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".farmctl-token"
	}
	return filepath.Join(home, ".farmctl", "token")
}
