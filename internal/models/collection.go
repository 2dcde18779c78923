package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Attribute names of a collection item. IDField is the table's partition key.
const (
	IDField          = "id"
	NameField        = "name"
	ParentIDField    = "parent_id"
	DescriptionField = "description"
	TypeField        = "type"
	LocationField    = "location"
	OwnerField       = "owner"
)

// Collection represents an inventory collection record. Unset optional
// fields encode as JSON null but are not written to the table.
type Collection struct {
	ID          string  `json:"id" dynamodbav:"id"`
	Name        string  `json:"name" dynamodbav:"name" validate:"notblank"`
	ParentID    *string `json:"parent_id" dynamodbav:"parent_id,omitempty"`
	Description *string `json:"description" dynamodbav:"description,omitempty"`
	Type        *string `json:"type" dynamodbav:"type,omitempty"`
	Location    *string `json:"location" dynamodbav:"location,omitempty"`
	Owner       *string `json:"owner" dynamodbav:"owner,omitempty"`
}

// DecodeCollection parses a create body. Fields outside the record are
// rejected rather than silently dropped.
func DecodeCollection(body string) (*Collection, error) {
	dec := json.NewDecoder(strings.NewReader(body))
	dec.DisallowUnknownFields()

	var c Collection
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to parse collection: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("failed to parse collection: unexpected data after JSON object")
	}
	return &c, nil
}

// EnsureID assigns a random identifier when ID is blank and reports whether
// one was generated.
func (c *Collection) EnsureID() bool {
	if strings.TrimSpace(c.ID) != "" {
		return false
	}
	c.ID = uuid.New().String()
	return true
}

// Validate validates the collection data
func (c *Collection) Validate() error {
	if err := validate.Struct(c); err != nil {
		return translateValidationError(err)
	}
	return nil
}
