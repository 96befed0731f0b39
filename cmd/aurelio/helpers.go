package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	client "github.com/hsn0918/aurelio-client"
)

func buildClient(apiKey string, opts *cliOptions) client.Client {
	options := []client.Option{
		client.WithAPIKey(apiKey),
		client.WithBaseURL(opts.baseURL),
		client.WithTimeout(opts.timeout),
		client.WithRetries(opts.retries),
	}
	return client.NewClient(options...)
}

func resolveAPIKey(opts *cliOptions) (string, error) {
	if opts.apiKey != "" {
		return opts.apiKey, nil
	}

	if env := os.Getenv("AURELIO_API_KEY"); env != "" {
		opts.apiKey = env
		return env, nil
	}

	return "", errors.New("api key is required (flag --api-key or AURELIO_API_KEY)")
}

func parseQuality(quality string) (client.ProcessingQuality, error) {
	switch strings.ToLower(quality) {
	case "":
		return "", nil
	case string(client.QualityLow):
		return client.QualityLow, nil
	case string(client.QualityHigh):
		return client.QualityHigh, nil
	default:
		return "", fmt.Errorf("unsupported quality: %s", quality)
	}
}

func parseChunkerType(chunker string) (client.ChunkerType, error) {
	switch strings.ToLower(chunker) {
	case "":
		return "", nil
	case string(client.ChunkerRegex):
		return client.ChunkerRegex, nil
	case string(client.ChunkerSemantic):
		return client.ChunkerSemantic, nil
	default:
		return "", fmt.Errorf("unsupported chunker type: %s", chunker)
	}
}

func writeJSON(path string, data any) error {
	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

func changeExt(name, ext string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return base + ext
}

func printResult(cmd *cobra.Command, level slog.Level, requestID, msg string, attrs ...slog.Attr) error {
	logger := newLogger(cmd.OutOrStdout(), level)
	if requestID != "" {
		attrs = append(attrs, slog.String("request-id", requestID))
	}
	logger.LogAttrs(cmd.Context(), level, msg, attrs...)
	return nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})
	return slog.New(handler)
}
