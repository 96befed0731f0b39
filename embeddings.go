package client

import (
	"context"
	"encoding/json"
)

// Embedding generates sparse embeddings for the given inputs. When no
// model is named the BM25 model applies.
func (c *client) Embedding(ctx context.Context, req EmbeddingRequest) (*EmbeddingResponse, error) {
	if err := c.requireAPIKey(); err != nil {
		return nil, err
	}
	if len(req.Input) == 0 {
		return nil, ErrEmptyInput
	}

	model := req.Model
	if model == "" {
		model = ModelBM25
	}

	payload := embeddingRequestPayload{
		Input:     req.Input,
		InputType: req.InputType,
		Model:     model,
	}

	return doWithRetry(ctx, OperationEmbedding, c.attempts(req.Retries),
		func(ctx context.Context) (*EmbeddingResponse, error) {
			resp, err := c.restyClient.R().
				SetContext(ctx).
				SetHeader("Content-Type", "application/json").
				SetBody(payload).
				Post(EndpointEmbeddings)
			if err != nil {
				return nil, &TransportError{Operation: OperationEmbedding, Err: err}
			}

			requestID := resp.Header().Get(RequestIDHeader)
			if !resp.IsSuccess() {
				return nil, newStatusError(OperationEmbedding, resp.StatusCode(), errorMessage(resp.Body()), requestID)
			}

			var result EmbeddingResponse
			if err := json.Unmarshal(resp.Body(), &result); err != nil {
				return nil, &DecodeError{Operation: OperationEmbedding, Err: err}
			}
			result.RequestID = requestID

			return &result, nil
		})
}
