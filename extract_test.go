package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func extractBody(status TaskStatus, documentID string) ExtractResponse {
	return ExtractResponse{
		Status: status,
		Usage:  Usage{Pages: 1},
		ProcessingOptions: ExtractProcessingOptions{
			Chunk: true,
			Model: ModelAurelioBase,
		},
		Document: Document{
			ID:         documentID,
			Content:    "extracted text",
			Source:     "document.pdf",
			SourceType: SourcePDF,
		},
	}
}

func TestExtractFileSubmission(t *testing.T) {
	var gotAuth, gotModel, gotChunk, gotWait, gotFile string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Method = %q, want POST", r.Method)
		}
		if r.URL.Path != "/v1/extract/file" {
			t.Errorf("Path = %q, want /v1/extract/file", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")

		if err := r.ParseMultipartForm(10 << 20); err != nil {
			t.Fatalf("ParseMultipartForm() error = %v", err)
		}
		gotModel = r.FormValue("model")
		gotChunk = r.FormValue("chunk")
		gotWait = r.FormValue("wait")

		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("FormFile() error = %v", err)
		}
		defer file.Close()
		if header.Filename != "report.pdf" {
			t.Errorf("Filename = %q, want report.pdf", header.Filename)
		}
		data, _ := io.ReadAll(file)
		gotFile = string(data)

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(extractBody(StatusCompleted, "doc-123"))
	}))
	defer server.Close()

	cli := NewClient(WithAPIKey("test-key"), WithBaseURL(server.URL))

	resp, err := cli.ExtractFile(context.Background(), ExtractFileRequest{
		File:     strings.NewReader("%PDF-1.4 fake"),
		Filename: "report.pdf",
		Chunk:    true,
		Wait:     DefaultWaitConfig(),
	})
	if err != nil {
		t.Fatalf("ExtractFile() error = %v", err)
	}

	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q, want Bearer test-key", gotAuth)
	}
	if gotModel != ModelAurelioBase {
		t.Errorf("model field = %q, want %q", gotModel, ModelAurelioBase)
	}
	if gotChunk != "true" {
		t.Errorf("chunk field = %q, want true", gotChunk)
	}
	// Client-side polling is on, so the server is only asked to hold
	// the submission briefly.
	if gotWait != "5" {
		t.Errorf("wait field = %q, want 5", gotWait)
	}
	if gotFile != "%PDF-1.4 fake" {
		t.Errorf("file part = %q, want the uploaded bytes", gotFile)
	}
	if resp.Status != StatusCompleted {
		t.Errorf("Status = %q, want completed", resp.Status)
	}
	if resp.Document.ID != "doc-123" {
		t.Errorf("Document.ID = %q, want doc-123", resp.Document.ID)
	}
}

func TestExtractFileZeroWaitSkipsPolling(t *testing.T) {
	var statusChecks atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			statusChecks.Add(1)
		}
		if r.Method == http.MethodPost && r.FormValue("wait") != "0" {
			t.Errorf("wait field = %q, want 0", r.FormValue("wait"))
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(extractBody(StatusPending, "doc-123"))
	}))
	defer server.Close()

	cli := NewClient(WithAPIKey("test-key"), WithBaseURL(server.URL))

	resp, err := cli.ExtractFile(context.Background(), ExtractFileRequest{
		File: strings.NewReader("data"),
		Wait: WaitConfig{Wait: 0, PollingInterval: DefaultPollingInterval},
	})
	if err != nil {
		t.Fatalf("ExtractFile() error = %v", err)
	}

	if got := statusChecks.Load(); got != 0 {
		t.Errorf("status checks = %d, want 0 for zero wait", got)
	}
	if resp.Status != StatusPending {
		t.Errorf("Status = %q, want the pending submission response", resp.Status)
	}
}

func TestExtractURLPollsUntilCompleted(t *testing.T) {
	var statusChecks atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost:
			if r.URL.Path != "/v1/extract/url" {
				t.Errorf("Path = %q, want /v1/extract/url", r.URL.Path)
			}
			if r.FormValue("url") != "https://example.com/paper.pdf" {
				t.Errorf("url field = %q", r.FormValue("url"))
			}
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(extractBody(StatusPending, "doc-55"))
		case r.Method == http.MethodGet:
			if r.URL.Path != "/v1/extract/document/doc-55" {
				t.Errorf("Path = %q, want /v1/extract/document/doc-55", r.URL.Path)
			}
			status := StatusPending
			if statusChecks.Add(1) >= 2 {
				status = StatusCompleted
			}
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(extractBody(status, "doc-55"))
		default:
			t.Errorf("unexpected method %q", r.Method)
		}
	}))
	defer server.Close()

	cli := NewClient(WithAPIKey("test-key"), WithBaseURL(server.URL))

	resp, err := cli.ExtractURL(context.Background(), ExtractURLRequest{
		URL:   "https://example.com/paper.pdf",
		Chunk: true,
		Wait:  WaitConfig{Wait: WaitIndefinitely, PollingInterval: 10 * time.Millisecond},
	})
	if err != nil {
		t.Fatalf("ExtractURL() error = %v", err)
	}

	if resp.Status != StatusCompleted {
		t.Errorf("Status = %q, want completed", resp.Status)
	}
	if got := statusChecks.Load(); got != 2 {
		t.Errorf("status checks = %d, want 2", got)
	}
}

func TestExtractRejectsInvalidWaitConfigBeforeSubmitting(t *testing.T) {
	var requests atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(extractBody(StatusCompleted, "doc-1"))
	}))
	defer server.Close()

	cli := NewClient(WithAPIKey("test-key"), WithBaseURL(server.URL))

	_, err := cli.ExtractURL(context.Background(), ExtractURLRequest{
		URL:  "https://example.com/paper.pdf",
		Wait: WaitConfig{Wait: WaitIndefinitely, PollingInterval: PollingDisabled},
	})

	if !errors.Is(err, ErrInvalidWaitConfig) {
		t.Fatalf("error = %v, want ErrInvalidWaitConfig", err)
	}
	if got := requests.Load(); got != 0 {
		t.Errorf("requests = %d, want 0 before config validation fails", got)
	}
}

func TestExtractFileRequiresSource(t *testing.T) {
	cli := NewClient(WithAPIKey("test-key"))

	_, err := cli.ExtractFile(context.Background(), ExtractFileRequest{Wait: DefaultWaitConfig()})
	if !errors.Is(err, ErrMissingFile) {
		t.Fatalf("error = %v, want ErrMissingFile", err)
	}
}

func TestExtractFileRequiresAPIKey(t *testing.T) {
	cli := NewClient()

	_, err := cli.ExtractFile(context.Background(), ExtractFileRequest{
		File: strings.NewReader("data"),
		Wait: DefaultWaitConfig(),
	})
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("error = %v, want ErrMissingAPIKey", err)
	}
}

func TestGetDocumentRetriesServerFaults(t *testing.T) {
	var requests atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(extractBody(StatusCompleted, "doc-9"))
	}))
	defer server.Close()

	cli := NewClient(WithAPIKey("test-key"), WithBaseURL(server.URL), WithRetries(3))

	resp, err := cli.GetDocument(context.Background(), "doc-9")
	if err != nil {
		t.Fatalf("GetDocument() error = %v", err)
	}

	if got := requests.Load(); got != 3 {
		t.Errorf("requests = %d, want 3", got)
	}
	if resp.Status != StatusCompleted {
		t.Errorf("Status = %q, want completed", resp.Status)
	}
}

func TestWaitForPollsExistingDocument(t *testing.T) {
	var requests atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := StatusPending
		if requests.Add(1) >= 3 {
			status = StatusCompleted
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(extractBody(status, "doc-7"))
	}))
	defer server.Close()

	cli := NewClient(WithAPIKey("test-key"), WithBaseURL(server.URL))

	resp, err := cli.WaitFor(context.Background(), "doc-7", WaitConfig{
		Wait:            WaitIndefinitely,
		PollingInterval: 10 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("WaitFor() error = %v", err)
	}

	// One initial fetch plus two polls.
	if got := requests.Load(); got != 3 {
		t.Errorf("requests = %d, want 3", got)
	}
	if resp.Status != StatusCompleted {
		t.Errorf("Status = %q, want completed", resp.Status)
	}
}

func TestWaitForTimeoutReturnsPending(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(extractBody(StatusPending, "doc-7"))
	}))
	defer server.Close()

	cli := NewClient(WithAPIKey("test-key"), WithBaseURL(server.URL))

	resp, err := cli.WaitFor(context.Background(), "doc-7", WaitConfig{
		Wait:            40 * time.Millisecond,
		PollingInterval: 20 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("WaitFor() error = %v, timeout must not be an error", err)
	}
	if resp.Status != StatusPending {
		t.Errorf("Status = %q, want pending after timeout", resp.Status)
	}
}

func TestExtractRejectsUnknownQuality(t *testing.T) {
	cli := NewClient(WithAPIKey("test-key"))

	_, err := cli.ExtractURL(context.Background(), ExtractURLRequest{
		URL:     "https://example.com/paper.pdf",
		Quality: ProcessingQuality("medium"),
		Wait:    DefaultWaitConfig(),
	})
	if !errors.Is(err, ErrUnknownQuality) {
		t.Fatalf("error = %v, want ErrUnknownQuality", err)
	}
}
