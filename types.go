package client

import (
	"encoding/json"
	"io"
	"time"
)

// TaskStatus enumerates the states of a server-side processing task.
type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusCompleted TaskStatus = "completed"
	StatusFailed    TaskStatus = "failed"
)

// IsTerminal reports whether the status can no longer change.
func (s TaskStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// ProcessingQuality enumerates extraction quality levels.
//
// Deprecated: quality selection is superseded by extraction models, see
// ResolveExtractModel. Kept for wire compatibility.
type ProcessingQuality string

const (
	QualityLow  ProcessingQuality = "low"
	QualityHigh ProcessingQuality = "high"
)

// ChunkerType enumerates available chunking strategies.
type ChunkerType string

const (
	ChunkerRegex    ChunkerType = "regex"
	ChunkerSemantic ChunkerType = "semantic"
)

// SourceType enumerates recognized document source media types.
type SourceType string

const (
	SourcePDF   SourceType = "application/pdf"
	SourceText  SourceType = "text/plain"
	SourceVideo SourceType = "video/mp4"
)

// Operation enumerates named API operations for error reporting.
type Operation string

const (
	OperationChunk       Operation = "chunk"
	OperationExtractFile Operation = "extract file"
	OperationExtractURL  Operation = "extract url"
	OperationGetDocument Operation = "get document"
	OperationEmbedding   Operation = "embedding"
	OperationWaitFor     Operation = "wait for document"
)

// WaitConfig controls how long an extraction call blocks and how often
// it checks on the document.
//
// Wait semantics: a negative value (WaitIndefinitely) blocks until a
// terminal status, zero returns the submission response as-is without a
// single status check, and a positive value blocks up to that long and
// then returns the last observed response, pending or not.
//
// PollingInterval semantics: zero (PollingDisabled) sleeps for the full
// wait and checks exactly once, a positive value is the pause between
// checks. Disabled polling combined with an indefinite wait is rejected
// before any request is made.
type WaitConfig struct {
	Wait            time.Duration
	PollingInterval time.Duration
}

// DefaultWaitConfig returns the platform default waiting behavior.
func DefaultWaitConfig() WaitConfig {
	return WaitConfig{
		Wait:            DefaultWait,
		PollingInterval: DefaultPollingInterval,
	}
}

func (w WaitConfig) indefinite() bool {
	return w.Wait < 0
}

// waitSeconds converts a wait duration to the wire representation:
// whole seconds, with every indefinite wait encoded as -1.
func waitSeconds(d time.Duration) int {
	if d < 0 {
		return -1
	}
	return int(d / time.Second)
}

// ChunkingOptions configures the chunker. Unrecognized option keys
// delivered by the API are kept in Extra and sent back verbatim, so new
// server-side options pass through older client versions untouched.
type ChunkingOptions struct {
	MaxChunkLength int
	ChunkerType    ChunkerType
	WindowSize     int
	Delimiters     []string

	// Extra holds option keys this client version does not model.
	Extra map[string]any
}

func (o ChunkingOptions) MarshalJSON() ([]byte, error) {
	fields := make(map[string]any, len(o.Extra)+4)
	for k, v := range o.Extra {
		fields[k] = v
	}
	if o.MaxChunkLength > 0 {
		fields["max_chunk_length"] = o.MaxChunkLength
	}
	if o.ChunkerType != "" {
		fields["chunker_type"] = o.ChunkerType
	}
	if o.WindowSize > 0 {
		fields["window_size"] = o.WindowSize
	}
	if len(o.Delimiters) > 0 {
		fields["delimiters"] = o.Delimiters
	}
	return json.Marshal(fields)
}

func (o *ChunkingOptions) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	known := []struct {
		key string
		dst any
	}{
		{"max_chunk_length", &o.MaxChunkLength},
		{"chunker_type", &o.ChunkerType},
		{"window_size", &o.WindowSize},
		{"delimiters", &o.Delimiters},
	}
	for _, f := range known {
		msg, ok := raw[f.key]
		if !ok || string(msg) == "null" {
			continue
		}
		if err := json.Unmarshal(msg, f.dst); err != nil {
			return err
		}
	}
	for _, f := range known {
		delete(raw, f.key)
	}

	if len(raw) == 0 {
		return nil
	}
	o.Extra = make(map[string]any, len(raw))
	for k, msg := range raw {
		var v any
		if err := json.Unmarshal(msg, &v); err != nil {
			return err
		}
		o.Extra[k] = v
	}
	return nil
}

// ExtractProcessingOptions reports how a document was processed.
type ExtractProcessingOptions struct {
	Chunk   bool              `json:"chunk"`
	Quality ProcessingQuality `json:"quality,omitempty"`
	Model   string            `json:"model,omitempty"`
}

// Usage accounts for billable work performed by a request.
type Usage struct {
	Tokens  int `json:"tokens,omitempty"`
	Pages   int `json:"pages,omitempty"`
	Seconds int `json:"seconds,omitempty"`
}

// Chunk is a single segment of a processed document.
type Chunk struct {
	ID         string         `json:"id"`
	Content    string         `json:"content"`
	ChunkIndex int            `json:"chunk_index"`
	NumTokens  int            `json:"num_tokens"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// Document is a processed document with its chunks, when chunking was
// requested and processing has completed.
type Document struct {
	ID         string         `json:"id"`
	Content    string         `json:"content"`
	Source     string         `json:"source"`
	SourceType SourceType     `json:"source_type"`
	NumChunks  int            `json:"num_chunks"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Chunks     []Chunk        `json:"chunks,omitempty"`
}

// ExtractFileRequest submits a file for text extraction. Provide either
// File (with an optional Filename) or FilePath.
type ExtractFileRequest struct {
	File     io.Reader
	Filename string
	FilePath string

	// Model selects the extraction model. When empty, the deprecated
	// Quality field is translated via ResolveExtractModel.
	Model   string
	Quality ProcessingQuality
	Chunk   bool

	Wait WaitConfig

	// Retries overrides the client attempt budget when positive.
	Retries int
}

// ExtractURLRequest submits a remote document URL for text extraction.
type ExtractURLRequest struct {
	URL string

	Model   string
	Quality ProcessingQuality
	Chunk   bool

	Wait WaitConfig

	Retries int
}

// ExtractResponse is returned by submission and status-check requests.
// Status stays pending until server-side processing finishes; terminal
// statuses never change afterwards.
type ExtractResponse struct {
	RequestID         string                   `json:"-"`
	Status            TaskStatus               `json:"status"`
	Usage             Usage                    `json:"usage"`
	Message           string                   `json:"message,omitempty"`
	ProcessingOptions ExtractProcessingOptions `json:"processing_options"`
	Document          Document                 `json:"document"`
}

// ChunkRequest submits text for chunking. Chunking is synchronous: the
// response status is always terminal.
type ChunkRequest struct {
	Content           string
	ProcessingOptions *ChunkingOptions

	Retries int
}

type chunkRequestPayload struct {
	Content           string           `json:"content"`
	ProcessingOptions *ChunkingOptions `json:"processing_options,omitempty"`
}

// ChunkResponse contains the chunked document.
type ChunkResponse struct {
	RequestID         string          `json:"-"`
	Status            TaskStatus      `json:"status"`
	Usage             Usage           `json:"usage"`
	Message           string          `json:"message,omitempty"`
	ProcessingOptions ChunkingOptions `json:"processing_options"`
	Document          Document        `json:"document"`
}

// EmbeddingRequest generates sparse embeddings for one or more inputs.
type EmbeddingRequest struct {
	Input     []string
	InputType string
	Model     string

	Retries int
}

type embeddingRequestPayload struct {
	Input     []string `json:"input"`
	InputType string   `json:"input_type,omitempty"`
	Model     string   `json:"model"`
}

// SparseEmbedding is a BM25-style sparse vector.
type SparseEmbedding struct {
	Indices []int     `json:"indices"`
	Values  []float64 `json:"values"`
}

// EmbeddingDataObject is one embedded input.
type EmbeddingDataObject struct {
	Object    string          `json:"object"`
	Index     int             `json:"index"`
	Embedding SparseEmbedding `json:"embedding"`
}

// EmbeddingUsage accounts for tokens consumed by an embedding request.
type EmbeddingUsage struct {
	PromptTokens int `json:"prompt_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// EmbeddingResponse contains embeddings in input order.
type EmbeddingResponse struct {
	RequestID string                `json:"-"`
	Message   string                `json:"message,omitempty"`
	Model     string                `json:"model"`
	Object    string                `json:"object"`
	Usage     EmbeddingUsage        `json:"usage"`
	Data      []EmbeddingDataObject `json:"data"`
}
