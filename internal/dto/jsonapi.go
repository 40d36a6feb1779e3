// Package dto holds the wire documents of the HTTP API. Task and user
// resources follow JSON:API; auth endpoints use plain JSON bodies.
package dto

import (
	"net/http"
	"strconv"
)

// MediaType is the JSON:API content type.
const MediaType = "application/vnd.api+json"

// ErrorSource points at the offending part of the request.
type ErrorSource struct {
	Pointer   string `json:"pointer,omitempty"`
	Parameter string `json:"parameter,omitempty"`
}

type ErrorObject struct {
	Status string       `json:"status"`
	Title  string       `json:"title"`
	Detail string       `json:"detail,omitempty"`
	Source *ErrorSource `json:"source,omitempty"`
}

type ErrorDocument struct {
	Errors []ErrorObject `json:"errors"`
}

// NewError builds an error object titled with the status text.
func NewError(status int, detail string) ErrorObject {
	return ErrorObject{
		Status: strconv.Itoa(status),
		Title:  http.StatusText(status),
		Detail: detail,
	}
}

// Links of a single resource.
type Links struct {
	Self string `json:"self"`
}

type ListMeta struct {
	Count int `json:"count"`
}
