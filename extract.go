package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// ExtractFile uploads a file (PDF, MP4, plain text) for text
// extraction and waits for the result according to req.Wait.
func (c *client) ExtractFile(ctx context.Context, req ExtractFileRequest) (*ExtractResponse, error) {
	if err := c.requireAPIKey(); err != nil {
		return nil, err
	}
	if req.File == nil && req.FilePath == "" {
		return nil, ErrMissingFile
	}
	if err := validateWaitConfig(req.Wait); err != nil {
		return nil, err
	}

	model, err := ResolveExtractModel(req.Model, req.Quality)
	if err != nil {
		return nil, err
	}

	// Readers cannot be rewound between attempts, so buffer them once.
	var fileData []byte
	if req.File != nil {
		fileData, err = io.ReadAll(req.File)
		if err != nil {
			return nil, &TransportError{Operation: OperationExtractFile, Err: err}
		}
	}

	fields := submissionFields(model, req.Quality, req.Chunk, req.Wait)
	retries := c.attempts(req.Retries)

	initial, err := doWithRetry(ctx, OperationExtractFile, retries,
		func(ctx context.Context) (*ExtractResponse, error) {
			r := c.restyClient.R().
				SetContext(ctx).
				SetFormData(fields)
			if req.FilePath != "" {
				r.SetFile("file", req.FilePath)
			} else {
				filename := req.Filename
				if filename == "" {
					filename = "document.pdf"
				}
				r.SetFileReader("file", filename, bytes.NewReader(fileData))
			}
			resp, err := r.Post(EndpointExtractFile)
			return decodeExtractResponse(OperationExtractFile, resp, err)
		})
	if err != nil {
		return nil, err
	}

	return awaitCompletion(ctx, initial, initial.Document.ID, req.Wait, c.GetDocument)
}

// ExtractURL submits a remote document URL for text extraction and
// waits for the result according to req.Wait.
func (c *client) ExtractURL(ctx context.Context, req ExtractURLRequest) (*ExtractResponse, error) {
	if err := c.requireAPIKey(); err != nil {
		return nil, err
	}
	if req.URL == "" {
		return nil, ErrEmptyURL
	}
	if err := validateWaitConfig(req.Wait); err != nil {
		return nil, err
	}

	model, err := ResolveExtractModel(req.Model, req.Quality)
	if err != nil {
		return nil, err
	}

	fields := submissionFields(model, req.Quality, req.Chunk, req.Wait)
	fields["url"] = req.URL
	retries := c.attempts(req.Retries)

	initial, err := doWithRetry(ctx, OperationExtractURL, retries,
		func(ctx context.Context) (*ExtractResponse, error) {
			resp, err := c.restyClient.R().
				SetContext(ctx).
				SetFormData(fields).
				Post(EndpointExtractURL)
			return decodeExtractResponse(OperationExtractURL, resp, err)
		})
	if err != nil {
		return nil, err
	}

	return awaitCompletion(ctx, initial, initial.Document.ID, req.Wait, c.GetDocument)
}

// GetDocument performs one retried status check for a document.
func (c *client) GetDocument(ctx context.Context, documentID string) (*ExtractResponse, error) {
	if err := c.requireAPIKey(); err != nil {
		return nil, err
	}
	if documentID == "" {
		return nil, ErrEmptyDocumentID
	}

	return doWithRetry(ctx, OperationGetDocument, c.retries,
		func(ctx context.Context) (*ExtractResponse, error) {
			resp, err := c.restyClient.R().
				SetContext(ctx).
				Get(EndpointExtractDocument + "/" + documentID)
			return decodeExtractResponse(OperationGetDocument, resp, err)
		})
}

// WaitFor polls an already submitted document until terminal status,
// deadline, or cancellation, per the wait configuration. Reaching the
// deadline is not an error: the last observed response comes back with
// pending status.
func (c *client) WaitFor(ctx context.Context, documentID string, wait WaitConfig) (*ExtractResponse, error) {
	if err := validateWaitConfig(wait); err != nil {
		return nil, err
	}

	initial, err := c.GetDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	return awaitCompletion(ctx, initial, documentID, wait, c.GetDocument)
}

// submissionFields builds the common form fields for extraction
// submissions. The wait field is a server-side hint: when the client
// polls for completion itself it asks the server to hold the request
// only briefly, catching fast documents in the submission response.
func submissionFields(model string, quality ProcessingQuality, chunk bool, cfg WaitConfig) map[string]string {
	fields := map[string]string{
		"model": model,
		"chunk": strconv.FormatBool(chunk),
		"wait":  strconv.Itoa(waitSeconds(submissionWait(cfg))),
	}
	if quality != "" {
		fields["quality"] = string(quality)
	}
	return fields
}

func submissionWait(cfg WaitConfig) time.Duration {
	if cfg.Wait == 0 {
		return 0
	}
	hint := DefaultWaitBeforePolling
	if cfg.Wait > 0 && cfg.Wait < hint {
		hint = cfg.Wait
	}
	return hint
}

func decodeExtractResponse(op Operation, resp *resty.Response, err error) (*ExtractResponse, error) {
	if err != nil {
		return nil, &TransportError{Operation: op, Err: err}
	}

	requestID := resp.Header().Get(RequestIDHeader)
	if !resp.IsSuccess() {
		return nil, newStatusError(op, resp.StatusCode(), errorMessage(resp.Body()), requestID)
	}

	var result ExtractResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, &DecodeError{Operation: op, Err: err}
	}
	result.RequestID = requestID

	return &result, nil
}
