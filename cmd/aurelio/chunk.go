package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	client "github.com/hsn0918/aurelio-client"
)

func newChunkCmd(opts *cliOptions) *cobra.Command {
	co := &chunkOptions{
		opts: opts,
	}

	cmd := &cobra.Command{
		Use:   "chunk",
		Short: "Chunk text into segments",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := co.Complete(); err != nil {
				return err
			}
			if err := co.Validate(); err != nil {
				return err
			}
			return co.Run(cmd)
		},
	}

	co.addFlags(cmd)
	cmd.ValidArgsFunction = positionalAlwaysFlags

	return cmd
}

type chunkOptions struct {
	content        string
	filePath       string
	maxChunkLength int
	chunkerType    string
	windowSize     int
	delimiters     []string
	output         string
	opts           *cliOptions
}

func (o *chunkOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.content, "content", "c", "", "Text to chunk")
	cmd.Flags().StringVarP(&o.filePath, "file", "f", "", "Read the text to chunk from a file")
	cmd.Flags().IntVar(&o.maxChunkLength, "max-chunk-length", 0, "Maximum chunk length")
	cmd.Flags().StringVar(&o.chunkerType, "chunker-type", "", "Chunker type: regex|semantic")
	cmd.Flags().IntVar(&o.windowSize, "window-size", 0, "Window size for the semantic chunker")
	cmd.Flags().StringSliceVar(&o.delimiters, "delimiters", nil, "Regex delimiters for the regex chunker")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "Optional path to save the result JSON")
}

func (o *chunkOptions) Complete() error {
	if o.content == "" && o.filePath == "" {
		return errors.New("flag --content or --file is required")
	}

	if o.filePath != "" {
		data, err := os.ReadFile(o.filePath)
		if err != nil {
			return fmt.Errorf("read file %s: %w", o.filePath, err)
		}
		o.content = string(data)
	}

	return nil
}

func (o *chunkOptions) Validate() error {
	if o.content == "" {
		return errors.New("content is empty")
	}
	if _, err := parseChunkerType(o.chunkerType); err != nil {
		return err
	}
	return nil
}

func (o *chunkOptions) Run(cmd *cobra.Command) error {
	apiKey, err := resolveAPIKey(o.opts)
	if err != nil {
		return err
	}

	cli := buildClient(apiKey, o.opts)

	chunker, err := parseChunkerType(o.chunkerType)
	if err != nil {
		return err
	}

	var processingOptions *client.ChunkingOptions
	if o.maxChunkLength > 0 || chunker != "" || o.windowSize > 0 || len(o.delimiters) > 0 {
		processingOptions = &client.ChunkingOptions{
			MaxChunkLength: o.maxChunkLength,
			ChunkerType:    chunker,
			WindowSize:     o.windowSize,
			Delimiters:     o.delimiters,
		}
	}

	resp, err := cli.Chunk(cmd.Context(), client.ChunkRequest{
		Content:           o.content,
		ProcessingOptions: processingOptions,
	})
	if err != nil {
		if logErr := logFailure(o.opts.failLogPath, "", o.filePath, err); logErr != nil {
			return fmt.Errorf("%w; also failed to write fail log: %v", err, logErr)
		}
		return err
	}

	if err := printResult(cmd, slog.LevelInfo, resp.RequestID, "Chunking completed",
		slog.String("status", string(resp.Status)),
		slog.Int("chunks", resp.Document.NumChunks),
		slog.Int("tokens", resp.Usage.Tokens),
	); err != nil {
		return err
	}

	if o.output == "" {
		return nil
	}

	if err := writeJSON(o.output, resp); err != nil {
		return err
	}

	return printResult(cmd, slog.LevelInfo, resp.RequestID, "Saved chunk result",
		slog.String("path", o.output),
	)
}
