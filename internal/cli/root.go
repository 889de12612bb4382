// Package cli implements saectl, the command-line client for the SAE
// inference API.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/S-Corkum/sae-inference/pkg/client"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Output formats
const (
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// DefaultServer is used when neither --server nor SAE_SERVER is set
const DefaultServer = "http://localhost:5000"

type options struct {
	server  string
	output  string
	timeout time.Duration
	retries int
}

// NewRootCommand builds the saectl command tree
func NewRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:          "saectl",
		Short:        "Query an SAE inference server",
		SilenceUsage: true,
		Long: `saectl talks to an SAE inference server: it encodes text into sparse
feature activations, describes individual features and searches the feature
catalog.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.output != OutputJSON && opts.output != OutputYAML {
				return fmt.Errorf("unsupported output format %q (use json or yaml)", opts.output)
			}
			return nil
		},
	}

	server := os.Getenv("SAE_SERVER")
	if server == "" {
		server = DefaultServer
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.server, "server", server, "Base URL of the SAE inference server")
	flags.StringVarP(&opts.output, "output", "o", OutputJSON, "Output format: json or yaml")
	flags.DurationVar(&opts.timeout, "timeout", 30*time.Second, "Request timeout")
	flags.IntVar(&opts.retries, "retries", client.DefaultMaxRetries, "Retries for server errors")

	rootCmd.AddCommand(
		newHealthCommand(opts),
		newEncodeCommand(opts),
		newFeatureCommand(opts),
		newSearchCommand(opts),
	)

	return rootCmd
}

// Execute is called by main.go.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (o *options) client() *client.Client {
	return client.NewClient(o.server,
		client.WithMaxRetries(o.retries),
		client.WithUserAgent("saectl"),
	)
}

func (o *options) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), o.timeout)
}

// render writes v to w in the selected output format
func (o *options) render(w io.Writer, v interface{}) error {
	switch o.output {
	case OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}
