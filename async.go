package client

import "context"

// ExtractResult carries the outcome of a non-blocking extraction call.
type ExtractResult struct {
	Response *ExtractResponse
	Err      error
}

// ChunkResult carries the outcome of a non-blocking chunk call.
type ChunkResult struct {
	Response *ChunkResponse
	Err      error
}

// EmbeddingResult carries the outcome of a non-blocking embedding call.
type EmbeddingResult struct {
	Response *EmbeddingResponse
	Err      error
}

// AsyncClient runs each operation on its own goroutine and delivers the
// outcome on a buffered channel, so the caller is never blocked through
// polling sleeps. Semantics are identical to the blocking client: the
// poller itself is shared, and cancellation flows through the context.
type AsyncClient struct {
	client Client
}

func NewAsyncClient(c Client) *AsyncClient {
	return &AsyncClient{client: c}
}

func (a *AsyncClient) ExtractFile(ctx context.Context, req ExtractFileRequest) <-chan ExtractResult {
	out := make(chan ExtractResult, 1)
	go func() {
		defer close(out)
		resp, err := a.client.ExtractFile(ctx, req)
		out <- ExtractResult{Response: resp, Err: err}
	}()
	return out
}

func (a *AsyncClient) ExtractURL(ctx context.Context, req ExtractURLRequest) <-chan ExtractResult {
	out := make(chan ExtractResult, 1)
	go func() {
		defer close(out)
		resp, err := a.client.ExtractURL(ctx, req)
		out <- ExtractResult{Response: resp, Err: err}
	}()
	return out
}

func (a *AsyncClient) GetDocument(ctx context.Context, documentID string) <-chan ExtractResult {
	out := make(chan ExtractResult, 1)
	go func() {
		defer close(out)
		resp, err := a.client.GetDocument(ctx, documentID)
		out <- ExtractResult{Response: resp, Err: err}
	}()
	return out
}

func (a *AsyncClient) WaitFor(ctx context.Context, documentID string, wait WaitConfig) <-chan ExtractResult {
	out := make(chan ExtractResult, 1)
	go func() {
		defer close(out)
		resp, err := a.client.WaitFor(ctx, documentID, wait)
		out <- ExtractResult{Response: resp, Err: err}
	}()
	return out
}

func (a *AsyncClient) Chunk(ctx context.Context, req ChunkRequest) <-chan ChunkResult {
	out := make(chan ChunkResult, 1)
	go func() {
		defer close(out)
		resp, err := a.client.Chunk(ctx, req)
		out <- ChunkResult{Response: resp, Err: err}
	}()
	return out
}

func (a *AsyncClient) Embedding(ctx context.Context, req EmbeddingRequest) <-chan EmbeddingResult {
	out := make(chan EmbeddingResult, 1)
	go func() {
		defer close(out)
		resp, err := a.client.Embedding(ctx, req)
		out <- EmbeddingResult{Response: resp, Err: err}
	}()
	return out
}
