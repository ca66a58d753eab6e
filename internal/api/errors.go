package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// APIError is a non-success answer from the commerce API, carrying the
// human-readable detail message from the error body when one was present.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return e.Detail
}

type errorBody struct {
	Detail string `json:"detail"`
}

func decodeError(res *http.Response) error {
	var body errorBody
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil || body.Detail == "" {
		return &APIError{
			Status: res.StatusCode,
			Detail: fmt.Sprintf("request failed with status %d", res.StatusCode),
		}
	}
	return &APIError{Status: res.StatusCode, Detail: body.Detail}
}
