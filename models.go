package client

import "fmt"

// Extraction model identifiers.
const (
	ModelAurelioBase = "aurelio-base"
	ModelDocsurfBase = "docsurf-base"
)

// Embedding model identifiers.
const (
	ModelBM25 = "bm25"
)

// ResolveExtractModel translates the deprecated quality knob into an
// extraction model. An explicit model always wins; with neither set the
// base model applies.
func ResolveExtractModel(model string, quality ProcessingQuality) (string, error) {
	if model != "" {
		return model, nil
	}

	switch quality {
	case "", QualityLow:
		return ModelAurelioBase, nil
	case QualityHigh:
		return ModelDocsurfBase, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownQuality, quality)
	}
}
