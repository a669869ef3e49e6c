package http

import "memlsm/pkg/store"

type Status string

const (
	// StatusOK is used for health-check responses.
	StatusOK Status = "OK"

	// StatusSuccess indicates an operation completed successfully.
	StatusSuccess Status = "success"

	// StatusError indicates an operation failed.
	StatusError Status = "error"
)

// Item is one key-value pair of a scan result.
type Item struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Response represents the standard API response format.
type Response struct {
	Status Status       `json:"status,omitempty"`
	Value  string       `json:"value,omitempty"`
	Error  string       `json:"error,omitempty"`
	Items  []Item       `json:"items,omitempty"`
	Stats  *store.Stats `json:"stats,omitempty"`
}

func NewOKResponse() Response {
	return Response{Status: StatusOK}
}

func NewSuccessResponse() Response {
	return Response{Status: StatusSuccess}
}

func NewValueResponse(value string) Response {
	return Response{Status: StatusSuccess, Value: value}
}

func NewItemsResponse(items []Item) Response {
	return Response{Status: StatusSuccess, Items: items}
}

func NewStatsResponse(st store.Stats) Response {
	return Response{Status: StatusSuccess, Stats: &st}
}

func NewErrorResponse(err string) Response {
	return Response{Status: StatusError, Error: err}
}
