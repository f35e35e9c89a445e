package service

import (
	"fmt"
	"strings"

	"github.com/substratai/substrat/internal/domain"
)

const contextSectionLabel = "## Relevant Knowledge Base Context"

// BuildContextString renders ranked chunks as a human-readable, cited context
// block. Each entry gets a header with its 1-based position, source document
// name, and similarity as a percentage with one decimal place, followed by
// the chunk content. Entries are separated by a "---" line. Pure formatting,
// no I/O.
func BuildContextString(chunks []*domain.RetrievedChunk) string {
	if len(chunks) == 0 {
		return ""
	}

	entries := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		header := fmt.Sprintf("[%d] Source: %s (%.1f%% match)", i+1, chunk.Source.DocumentName, chunk.Similarity*100)
		entries = append(entries, header+"\n"+chunk.Content)
	}

	return strings.Join(entries, "\n---\n")
}

// BuildAugmentedPrompt prepends the retrieval context to a base system
// prompt. Grounding material comes first so it takes priority framing over
// the base instructions. A context-less RetrievalContext leaves the prompt
// untouched.
func BuildAugmentedPrompt(basePrompt string, retrievalContext *domain.RetrievalContext) string {
	if retrievalContext == nil || !retrievalContext.HasContext {
		return basePrompt
	}

	var b strings.Builder
	b.WriteString(contextSectionLabel)
	b.WriteString("\n\n")
	b.WriteString(retrievalContext.ContextString)
	b.WriteString("\n\n")
	b.WriteString(basePrompt)
	return b.String()
}
