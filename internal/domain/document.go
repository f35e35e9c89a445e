package domain

import "time"

// DocumentType classifies the source a document was ingested from.
type DocumentType string

const (
	DocumentTypeText     DocumentType = "text"
	DocumentTypeMarkdown DocumentType = "markdown"
	DocumentTypePDF      DocumentType = "pdf"
	DocumentTypeHTML     DocumentType = "html"
	DocumentTypeURL      DocumentType = "url"
)

// Document represents a source document within a knowledge base. Its text
// lives in chunks; the document row carries presentation metadata.
type Document struct {
	ID              string
	KnowledgeBaseID string
	Name            string
	Type            DocumentType
	CreatedAt       time.Time
}
