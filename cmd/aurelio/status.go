package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	client "github.com/hsn0918/aurelio-client"
)

func newStatusCmd(opts *cliOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "status <document-id>",
		Short: "Check the processing status of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			apiKey, err := resolveAPIKey(opts)
			if err != nil {
				return err
			}

			cli := buildClient(apiKey, opts)
			resp, err := cli.GetDocument(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return reportDocumentStatus(cmd, resp, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Optional path to save the result JSON")

	return cmd
}

func newWaitCmd(opts *cliOptions) *cobra.Command {
	var (
		wait     time.Duration
		interval time.Duration
		output   string
	)

	cmd := &cobra.Command{
		Use:   "wait <document-id>",
		Short: "Wait for a document to finish processing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			apiKey, err := resolveAPIKey(opts)
			if err != nil {
				return err
			}

			cli := buildClient(apiKey, opts)
			resp, err := cli.WaitFor(cmd.Context(), args[0], client.WaitConfig{
				Wait:            wait,
				PollingInterval: interval,
			})
			if err != nil {
				if logErr := logFailure(opts.failLogPath, "", args[0], err); logErr != nil {
					return fmt.Errorf("%w; also failed to write fail log: %v", err, logErr)
				}
				return err
			}

			return reportDocumentStatus(cmd, resp, output)
		},
	}

	cmd.Flags().DurationVar(&wait, "wait", client.WaitIndefinitely, "Max time to wait; negative waits forever")
	cmd.Flags().DurationVar(&interval, "interval", client.DefaultPollingInterval, "Polling interval for status checks")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Optional path to save the result JSON")

	return cmd
}

func reportDocumentStatus(cmd *cobra.Command, resp *client.ExtractResponse, output string) error {
	level := slog.LevelInfo
	if resp.Status == client.StatusFailed {
		level = slog.LevelError
	}

	if err := printResult(cmd, level, resp.RequestID, "Document status",
		slog.String("document-id", resp.Document.ID),
		slog.String("status", string(resp.Status)),
		slog.Int("chunks", resp.Document.NumChunks),
	); err != nil {
		return err
	}

	if output == "" {
		return nil
	}

	if err := writeJSON(output, resp); err != nil {
		return err
	}

	return printResult(cmd, slog.LevelInfo, resp.RequestID, "Saved document status",
		slog.String("path", output),
	)
}
