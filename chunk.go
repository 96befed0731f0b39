package client

import (
	"context"
	"encoding/json"
)

// Chunk splits text into segments server-side. The endpoint is
// synchronous: the returned status is always terminal, no polling
// happens.
func (c *client) Chunk(ctx context.Context, req ChunkRequest) (*ChunkResponse, error) {
	if err := c.requireAPIKey(); err != nil {
		return nil, err
	}
	if req.Content == "" {
		return nil, ErrEmptyContent
	}

	payload := chunkRequestPayload{
		Content:           req.Content,
		ProcessingOptions: req.ProcessingOptions,
	}

	return doWithRetry(ctx, OperationChunk, c.attempts(req.Retries),
		func(ctx context.Context) (*ChunkResponse, error) {
			resp, err := c.restyClient.R().
				SetContext(ctx).
				SetHeader("Content-Type", "application/json").
				SetBody(payload).
				Post(EndpointChunk)
			if err != nil {
				return nil, &TransportError{Operation: OperationChunk, Err: err}
			}

			requestID := resp.Header().Get(RequestIDHeader)
			if !resp.IsSuccess() {
				return nil, newStatusError(OperationChunk, resp.StatusCode(), errorMessage(resp.Body()), requestID)
			}

			var result ChunkResponse
			if err := json.Unmarshal(resp.Body(), &result); err != nil {
				return nil, &DecodeError{Operation: OperationChunk, Err: err}
			}
			result.RequestID = requestID

			return &result, nil
		})
}
