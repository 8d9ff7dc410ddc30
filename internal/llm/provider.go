// Package llm abstracts the completion provider used by the audit scorer,
// the generators, the chat assistant and the post-purchase auto-fix.
package llm

import (
	"context"
	"errors"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var ErrEmptyCompletion = errors.New("completion returned no text")

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is one completion call. When Schema is set the provider is asked
// for JSON matching it; callers still parse the reply.
type Request struct {
	Messages    []Message
	Schema      *Schema
	MaxTokens   int
	Temperature float32
}

type Completion struct {
	Text  string
	Model string
}

type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) (*Completion, error)
}

// System and User build the common two-message prompt.
func System(content string) Message { return Message{Role: RoleSystem, Content: content} }
func User(content string) Message   { return Message{Role: RoleUser, Content: content} }

// Schema is a provider-neutral JSON schema subset.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
}

func String() *Schema  { return &Schema{Type: "string"} }
func Number() *Schema  { return &Schema{Type: "number"} }
func Integer() *Schema { return &Schema{Type: "integer"} }

func Enum(values ...string) *Schema {
	return &Schema{Type: "string", Enum: values}
}

func ArrayOf(items *Schema) *Schema {
	return &Schema{Type: "array", Items: items}
}

// Object builds an object schema in which every property is required.
func Object(props map[string]*Schema) *Schema {
	req := make([]string, 0, len(props))
	for k := range props {
		req = append(req, k)
	}
	sortStrings(req)
	return &Schema{Type: "object", Properties: props, Required: req}
}

// ToMap renders the schema as a plain JSON-schema document.
func (s *Schema) ToMap() map[string]any {
	if s == nil {
		return nil
	}
	m := map[string]any{"type": s.Type}
	if s.Description != "" {
		m["description"] = s.Description
	}
	if len(s.Enum) > 0 {
		m["enum"] = s.Enum
	}
	if s.Items != nil {
		m["items"] = s.Items.ToMap()
	}
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for k, v := range s.Properties {
			props[k] = v.ToMap()
		}
		m["properties"] = props
		m["required"] = s.Required
	}
	return m
}
