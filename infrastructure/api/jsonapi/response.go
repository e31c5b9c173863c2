// Package jsonapi renders tracker resources as JSON:API documents.
// See https://jsonapi.org/format/.
package jsonapi

import (
	"encoding/json"
	"net/http"
)

// MediaType is the content type of JSON:API documents.
const MediaType = "application/vnd.api+json"

// Document is a top-level JSON:API document. Data and Errors are exclusive.
type Document struct {
	Data   any     `json:"data,omitempty"`
	Meta   Meta    `json:"meta,omitempty"`
	Links  *Links  `json:"links,omitempty"`
	Errors []Error `json:"errors,omitempty"`
}

// Meta carries counts and other non-resource values.
type Meta map[string]any

// Links holds pagination links.
type Links struct {
	Self  string `json:"self,omitempty"`
	First string `json:"first,omitempty"`
	Last  string `json:"last,omitempty"`
	Prev  string `json:"prev,omitempty"`
	Next  string `json:"next,omitempty"`
}

// Resource is a JSON:API resource object.
type Resource struct {
	Type       string `json:"type"`
	ID         string `json:"id"`
	Attributes any    `json:"attributes"`
}

// Error is a JSON:API error object. ID carries the request's correlation ID.
type Error struct {
	ID     string `json:"id,omitempty"`
	Status string `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
}

// NewResource creates a resource.
func NewResource(resourceType, id string, attrs any) *Resource {
	return &Resource{Type: resourceType, ID: id, Attributes: attrs}
}

// NewSingleResponse wraps one resource.
func NewSingleResponse(resource *Resource) *Document {
	return &Document{Data: resource}
}

// NewListResponse wraps a list of resources. A nil list renders as [].
func NewListResponse(resources []*Resource) *Document {
	if resources == nil {
		resources = []*Resource{}
	}
	return &Document{Data: resources}
}

// NewErrorResponse wraps error objects.
func NewErrorResponse(errs ...Error) *Document {
	return &Document{Errors: errs}
}

// NewError creates an error object.
func NewError(status, title, detail string) Error {
	return Error{Status: status, Title: title, Detail: detail}
}

// Write encodes doc with the JSON:API media type.
func Write(w http.ResponseWriter, status int, doc *Document) {
	w.Header().Set("Content-Type", MediaType)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(doc)
}
