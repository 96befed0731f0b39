package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestChunk(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Method = %q, want POST", r.Method)
		}
		if r.URL.Path != "/v1/chunk" {
			t.Errorf("Path = %q, want /v1/chunk", r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", r.Header.Get("Content-Type"))
		}

		var payload chunkRequestPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if payload.Content != "some long document" {
			t.Errorf("content = %q", payload.Content)
		}
		if payload.ProcessingOptions == nil || payload.ProcessingOptions.MaxChunkLength != 400 {
			t.Errorf("processing options not forwarded: %+v", payload.ProcessingOptions)
		}

		w.Header().Set(RequestIDHeader, "req-abc")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(ChunkResponse{
			Status: StatusCompleted,
			Usage:  Usage{Tokens: 6},
			ProcessingOptions: ChunkingOptions{
				MaxChunkLength: 400,
				ChunkerType:    ChunkerRegex,
			},
			Document: Document{
				ID:        "doc-chunked",
				NumChunks: 2,
				Chunks: []Chunk{
					{ID: "chunk-0", Content: "some long", ChunkIndex: 0, NumTokens: 3},
					{ID: "chunk-1", Content: "document", ChunkIndex: 1, NumTokens: 3},
				},
			},
		})
	}))
	defer server.Close()

	cli := NewClient(WithAPIKey("test-key"), WithBaseURL(server.URL))

	resp, err := cli.Chunk(context.Background(), ChunkRequest{
		Content:           "some long document",
		ProcessingOptions: &ChunkingOptions{MaxChunkLength: 400, ChunkerType: ChunkerRegex},
	})
	if err != nil {
		t.Fatalf("Chunk() error = %v", err)
	}

	if resp.Status != StatusCompleted {
		t.Errorf("Status = %q, want completed", resp.Status)
	}
	if len(resp.Document.Chunks) != 2 {
		t.Fatalf("len(Chunks) = %d, want 2", len(resp.Document.Chunks))
	}
	if resp.Document.Chunks[1].ChunkIndex != 1 {
		t.Errorf("Chunks[1].ChunkIndex = %d, want 1", resp.Document.Chunks[1].ChunkIndex)
	}
	if resp.RequestID != "req-abc" {
		t.Errorf("RequestID = %q, want req-abc", resp.RequestID)
	}
}

func TestChunkRequiresContent(t *testing.T) {
	cli := NewClient(WithAPIKey("test-key"))

	_, err := cli.Chunk(context.Background(), ChunkRequest{})
	if !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("error = %v, want ErrEmptyContent", err)
	}
}

func TestChunkErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		attempts   int32
		check      func(t *testing.T, err error)
	}{
		{
			name:       "client fault surfaces immediately",
			statusCode: http.StatusUnprocessableEntity,
			body:       `{"detail": "content too large"}`,
			attempts:   1,
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				if !errors.As(err, &apiErr) {
					t.Fatalf("error = %v, want APIError", err)
				}
				if apiErr.StatusCode != http.StatusUnprocessableEntity {
					t.Errorf("StatusCode = %d, want 422", apiErr.StatusCode)
				}
				if apiErr.Message != "content too large" {
					t.Errorf("Message = %q, want the detail field", apiErr.Message)
				}
			},
		},
		{
			name:       "rate limit is not retried",
			statusCode: http.StatusTooManyRequests,
			body:       `{"detail": "slow down"}`,
			attempts:   1,
			check: func(t *testing.T, err error) {
				var rateErr *RateLimitError
				if !errors.As(err, &rateErr) {
					t.Fatalf("error = %v, want RateLimitError", err)
				}
			},
		},
		{
			name:       "server fault exhausts the budget",
			statusCode: http.StatusServiceUnavailable,
			body:       `upstream down`,
			attempts:   3,
			check: func(t *testing.T, err error) {
				var exhausted *RetryExhaustedError
				if !errors.As(err, &exhausted) {
					t.Fatalf("error = %v, want RetryExhaustedError", err)
				}
				if exhausted.Attempts != 3 {
					t.Errorf("Attempts = %d, want 3", exhausted.Attempts)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var requests atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				requests.Add(1)
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			cli := NewClient(WithAPIKey("test-key"), WithBaseURL(server.URL), WithRetries(3))

			_, err := cli.Chunk(context.Background(), ChunkRequest{Content: "text"})
			if err == nil {
				t.Fatal("Chunk() error = nil, want an error")
			}
			tt.check(t, err)

			if got := requests.Load(); got != tt.attempts {
				t.Errorf("requests = %d, want %d", got, tt.attempts)
			}
		})
	}
}

func TestChunkDecodeFailureIsNotRetried(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": `))
	}))
	defer server.Close()

	cli := NewClient(WithAPIKey("test-key"), WithBaseURL(server.URL), WithRetries(3))

	_, err := cli.Chunk(context.Background(), ChunkRequest{Content: "text"})

	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("error = %v, want DecodeError", err)
	}
	if got := requests.Load(); got != 1 {
		t.Errorf("requests = %d, want 1", got)
	}
}
