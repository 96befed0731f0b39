package main

import (
	"time"

	"github.com/spf13/cobra"

	client "github.com/hsn0918/aurelio-client"
)

type cliOptions struct {
	apiKey      string
	baseURL     string
	timeout     time.Duration
	retries     int
	failLogPath string
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	cmd := &cobra.Command{
		Use:           "aurelio",
		Short:         "Aurelio document-processing API CLI helper",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.apiKey, "api-key", "", "Aurelio API key (or set AURELIO_API_KEY)")
	cmd.PersistentFlags().StringVar(&opts.baseURL, "base-url", client.DefaultBaseURL, "Base URL for the Aurelio API")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", client.DefaultTimeout, "HTTP timeout for API requests")
	cmd.PersistentFlags().IntVar(&opts.retries, "retries", client.DefaultRetries, "Attempt budget for a single request (server errors only)")
	cmd.PersistentFlags().StringVar(&opts.failLogPath, "fail-log", "fail.log", "Path to write failed task logs")

	cmd.AddCommand(newExtractCmd(opts))
	cmd.AddCommand(newChunkCmd(opts))
	cmd.AddCommand(newEmbedCmd(opts))
	cmd.AddCommand(newStatusCmd(opts))
	cmd.AddCommand(newWaitCmd(opts))
	cmd.AddCommand(newCompletionCmd())

	return cmd
}
