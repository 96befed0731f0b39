package client

import "context"

// Info provides metadata about the client
type Info interface {
	Name() string
	Version() string
}

// Extractor handles document text extraction operations
type Extractor interface {
	ExtractFile(ctx context.Context, req ExtractFileRequest) (*ExtractResponse, error)
	ExtractURL(ctx context.Context, req ExtractURLRequest) (*ExtractResponse, error)
	GetDocument(ctx context.Context, documentID string) (*ExtractResponse, error)
	WaitFor(ctx context.Context, documentID string, wait WaitConfig) (*ExtractResponse, error)
}

// Chunker handles text chunking operations
type Chunker interface {
	Chunk(ctx context.Context, req ChunkRequest) (*ChunkResponse, error)
}

// Embedder handles sparse embedding operations
type Embedder interface {
	Embedding(ctx context.Context, req EmbeddingRequest) (*EmbeddingResponse, error)
}

// Client combines all aurelio operations
type Client interface {
	Info
	Extractor
	Chunker
	Embedder
}
