package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	ShotID     ID
	AnalysisID ID
)

func (id ShotID) String() string     { return ID(id).String() }
func (id AnalysisID) String() string { return ID(id).String() }

// IsEmpty reports whether the shot carries no identity yet.
func (id ShotID) IsEmpty() bool { return id == "" }

// NewShotID issues a fresh, time-ordered shot identity.
func NewShotID() ShotID { return ShotID(NewID()) }

// NewAnalysisID issues an identity for a single analysis run.
func NewAnalysisID() AnalysisID { return AnalysisID(NewID()) }

// ParseShotID parses a string into ShotID
func ParseShotID(s string) (ShotID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("shot ID cannot be empty")
	}
	return ShotID(s), nil
}
