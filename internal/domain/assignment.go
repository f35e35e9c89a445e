package domain

import (
	"fmt"
	"time"
)

// Assignment relates an agent to a knowledge base with an integer priority.
// Higher priority means the knowledge base is preferred when ranking ties.
type Assignment struct {
	AgentID         string
	KnowledgeBaseID string
	Priority        int
	CreatedAt       time.Time
}

// ValidateAssignment validates an Assignment instance
func ValidateAssignment(a *Assignment) error {
	if a == nil {
		return fmt.Errorf("assignment cannot be nil")
	}

	if a.AgentID == "" {
		return fmt.Errorf("assignment AgentID is required")
	}

	if a.KnowledgeBaseID == "" {
		return fmt.Errorf("assignment KnowledgeBaseID is required")
	}

	return nil
}
