package main

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	client "github.com/hsn0918/aurelio-client"
)

func newEmbedCmd(opts *cliOptions) *cobra.Command {
	eo := &embedOptions{
		opts: opts,
	}

	cmd := &cobra.Command{
		Use:   "embed [text]...",
		Short: "Generate sparse embeddings for one or more texts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := eo.Complete(args); err != nil {
				return err
			}
			if err := eo.Validate(); err != nil {
				return err
			}
			return eo.Run(cmd)
		},
	}

	eo.addFlags(cmd)

	return cmd
}

type embedOptions struct {
	inputFile string
	model     string
	inputType string
	output    string
	inputs    []string
	opts      *cliOptions
}

func (o *embedOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.inputFile, "input-file", "f", "", "Read inputs from a file, one per line")
	cmd.Flags().StringVar(&o.model, "model", client.ModelBM25, "Embedding model")
	cmd.Flags().StringVar(&o.inputType, "input-type", "", "Input type hint: queries|documents")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "Optional path to save the result JSON")
}

func (o *embedOptions) Complete(args []string) error {
	o.inputs = append(o.inputs, args...)

	if o.inputFile == "" {
		return nil
	}

	f, err := os.Open(o.inputFile)
	if err != nil {
		return fmt.Errorf("open input file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			o.inputs = append(o.inputs, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input file: %w", err)
	}

	return nil
}

func (o *embedOptions) Validate() error {
	if len(o.inputs) == 0 {
		return errors.New("at least one input text is required (argument or --input-file)")
	}
	return nil
}

func (o *embedOptions) Run(cmd *cobra.Command) error {
	apiKey, err := resolveAPIKey(o.opts)
	if err != nil {
		return err
	}

	cli := buildClient(apiKey, o.opts)

	resp, err := cli.Embedding(cmd.Context(), client.EmbeddingRequest{
		Input:     o.inputs,
		InputType: o.inputType,
		Model:     o.model,
	})
	if err != nil {
		if logErr := logFailure(o.opts.failLogPath, "", o.inputFile, err); logErr != nil {
			return fmt.Errorf("%w; also failed to write fail log: %v", err, logErr)
		}
		return err
	}

	if err := printResult(cmd, slog.LevelInfo, resp.RequestID, "Embedding completed",
		slog.String("model", resp.Model),
		slog.Int("embeddings", len(resp.Data)),
		slog.Int("total-tokens", resp.Usage.TotalTokens),
	); err != nil {
		return err
	}

	if o.output == "" {
		return nil
	}

	if err := writeJSON(o.output, resp); err != nil {
		return err
	}

	return printResult(cmd, slog.LevelInfo, resp.RequestID, "Saved embedding result",
		slog.String("path", o.output),
	)
}
