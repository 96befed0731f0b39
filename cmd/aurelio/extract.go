package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	client "github.com/hsn0918/aurelio-client"
)

func newExtractCmd(opts *cliOptions) *cobra.Command {
	eo := &extractOptions{
		opts: opts,
	}

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract text from a file, a directory of files, or a URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := eo.Complete(); err != nil {
				target := eo.inputPath
				if target == "" {
					target = eo.filePath
				}
				if target == "" {
					target = eo.url
				}
				if logErr := logFailure(eo.opts.failLogPath, "", target, err); logErr != nil {
					return fmt.Errorf("%w; also failed to write fail log: %v", err, logErr)
				}
				return err
			}

			if err := eo.Validate(); err != nil {
				return err
			}

			return eo.Run(cmd)
		},
	}

	eo.addFlags(cmd)
	cmd.ValidArgsFunction = positionalAlwaysFlags

	return cmd
}

type extractOptions struct {
	filePath    string
	inputPath   string
	url         string
	model       string
	quality     string
	chunk       bool
	wait        time.Duration
	interval    time.Duration
	output      string
	outputDir   string
	concurrency int
	opts        *cliOptions
	files       []string
	apiKey      string
}

type extractJobConfig struct {
	model     string
	quality   client.ProcessingQuality
	chunk     bool
	wait      client.WaitConfig
	output    string
	outputDir string
	failLog   string
}

func (o *extractOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.filePath, "file", "f", "", "File path to upload (PDF, MP4, plain text)")
	cmd.Flags().StringVarP(&o.inputPath, "path", "p", "", "Path to a file or a directory of files")
	cmd.Flags().StringVarP(&o.url, "url", "u", "", "URL of a remote document to extract")
	cmd.Flags().StringVar(&o.model, "model", "", "Extraction model (defaults from --quality)")
	cmd.Flags().StringVar(&o.quality, "quality", "", "Deprecated quality knob: low|high")
	cmd.Flags().BoolVar(&o.chunk, "chunk", true, "Chunk the extracted document")
	cmd.Flags().DurationVar(&o.wait, "wait", client.DefaultWait, "Max time to wait for completion; negative waits forever, 0 returns immediately")
	cmd.Flags().DurationVar(&o.interval, "interval", client.DefaultPollingInterval, "Polling interval for status checks; 0 disables polling")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "Optional path to save the result JSON")
	cmd.Flags().StringVar(&o.outputDir, "output-dir", "", "Directory to store JSON results when extracting multiple files")
	cmd.Flags().IntVar(&o.concurrency, "concurrency", 3, "Number of concurrent uploads when using --path")
}

func (o *extractOptions) Complete() error {
	if o.filePath == "" && o.inputPath == "" && o.url == "" {
		return errors.New("flag --file, --path or --url is required")
	}

	if o.concurrency <= 0 {
		o.concurrency = 3
	}

	if o.url != "" {
		return nil
	}

	targetPath := o.filePath
	if targetPath == "" {
		targetPath = o.inputPath
	}

	files, err := collectInputFiles(targetPath)
	if err != nil {
		return err
	}
	o.files = files

	return nil
}

func (o *extractOptions) Validate() error {
	if o.url != "" && (o.filePath != "" || o.inputPath != "") {
		return errors.New("--url cannot be combined with --file or --path")
	}
	if o.url == "" && len(o.files) == 0 {
		return fmt.Errorf("no supported files found in %s", o.inputPath)
	}
	if _, err := parseQuality(o.quality); err != nil {
		return err
	}
	return nil
}

func (o *extractOptions) Run(cmd *cobra.Command) error {
	apiKey, err := resolveAPIKey(o.opts)
	if err != nil {
		if logErr := logFailure(o.opts.failLogPath, "", "", err); logErr != nil {
			return fmt.Errorf("%w; also failed to write fail log: %v", err, logErr)
		}
		return err
	}
	o.apiKey = apiKey

	cli := buildClient(o.apiKey, o.opts)
	ctx := cmd.Context()

	quality, err := parseQuality(o.quality)
	if err != nil {
		return err
	}

	jobCfg := extractJobConfig{
		model:   o.model,
		quality: quality,
		chunk:   o.chunk,
		wait: client.WaitConfig{
			Wait:            o.wait,
			PollingInterval: o.interval,
		},
		output:    o.output,
		outputDir: o.outputDir,
		failLog:   o.opts.failLogPath,
	}

	if o.url != "" {
		return handleExtractURL(ctx, cmd, cli, o.url, jobCfg)
	}

	if len(o.files) == 1 {
		return handleExtractFile(ctx, cmd, cli, o.files[0], jobCfg)
	}

	return runExtractBatch(ctx, cmd, cli, o.files, o.concurrency, jobCfg)
}

var supportedExtensions = []string{".pdf", ".mp4", ".txt"}

func hasSupportedExtension(name string) bool {
	ext := filepath.Ext(name)
	for _, supported := range supportedExtensions {
		if strings.EqualFold(ext, supported) {
			return true
		}
	}
	return false
}

func collectInputFiles(p string) ([]string, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, fmt.Errorf("stat path: %w", err)
	}

	if info.Mode().IsRegular() {
		if hasSupportedExtension(p) {
			return []string{p}, nil
		}
		return nil, fmt.Errorf("unsupported file type: %s", p)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("path is neither file nor directory: %s", p)
	}

	entries, err := os.ReadDir(p)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if hasSupportedExtension(entry.Name()) {
			files = append(files, filepath.Join(p, entry.Name()))
		}
	}

	return files, nil
}

func handleExtractFile(ctx context.Context, cmd *cobra.Command, cli client.Client, path string, job extractJobConfig) error {
	fileLabel := filepath.Base(path)

	resp, err := cli.ExtractFile(ctx, client.ExtractFileRequest{
		FilePath: path,
		Model:    job.model,
		Quality:  job.quality,
		Chunk:    job.chunk,
		Wait:     job.wait,
	})
	if err != nil {
		if logErr := logFailure(job.failLog, "", path, err); logErr != nil {
			return fmt.Errorf("%w; also failed to write fail log: %v", err, logErr)
		}
		return fmt.Errorf("extract failed for %s: %w", path, err)
	}

	return reportExtractResult(cmd, resp, fileLabel, extractOutputPath(job, path))
}

func handleExtractURL(ctx context.Context, cmd *cobra.Command, cli client.Client, url string, job extractJobConfig) error {
	resp, err := cli.ExtractURL(ctx, client.ExtractURLRequest{
		URL:     url,
		Model:   job.model,
		Quality: job.quality,
		Chunk:   job.chunk,
		Wait:    job.wait,
	})
	if err != nil {
		if logErr := logFailure(job.failLog, "", url, err); logErr != nil {
			return fmt.Errorf("%w; also failed to write fail log: %v", err, logErr)
		}
		return fmt.Errorf("extract failed for %s: %w", url, err)
	}

	return reportExtractResult(cmd, resp, url, job.output)
}

func extractOutputPath(job extractJobConfig, inputPath string) string {
	if job.outputDir != "" {
		return filepath.Join(job.outputDir, changeExt(filepath.Base(inputPath), ".json"))
	}
	return job.output
}

func reportExtractResult(cmd *cobra.Command, resp *client.ExtractResponse, label, output string) error {
	level := slog.LevelInfo
	msg := "Extraction completed"
	switch resp.Status {
	case client.StatusPending:
		msg = "Extraction still pending; check again later"
	case client.StatusFailed:
		level = slog.LevelError
		msg = "Extraction failed"
	}

	if err := printResult(cmd, level, resp.RequestID, msg,
		slog.String("source", label),
		slog.String("document-id", resp.Document.ID),
		slog.String("status", string(resp.Status)),
		slog.Int("chunks", resp.Document.NumChunks),
	); err != nil {
		return err
	}

	if output == "" || !resp.Status.IsTerminal() {
		return nil
	}

	if dir := filepath.Dir(output); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := writeJSON(output, resp); err != nil {
		return err
	}

	return printResult(cmd, slog.LevelInfo, resp.RequestID, "Saved extraction result",
		slog.String("source", label),
		slog.String("path", output),
	)
}

func runExtractBatch(ctx context.Context, cmd *cobra.Command, cli client.Client, files []string, concurrency int, job extractJobConfig) error {
	eg, ctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		eg.SetLimit(concurrency)
	}

	var (
		errs []error
		mu   sync.Mutex
	)

	for _, path := range files {
		path := path
		eg.Go(func() error {
			if err := handleExtractFile(ctx, cmd, cli, path, job); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if len(errs) > 0 {
		return fmt.Errorf("batch completed with %d errors, first: %w", len(errs), errs[0])
	}

	return nil
}
