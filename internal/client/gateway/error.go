package gateway

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind classifies a failed call.
type Kind int

const (
	// KindNetwork means no HTTP response was received.
	KindNetwork Kind = iota
	// KindBusiness means the backend rejected the request with a recognized error body.
	KindBusiness
	// KindUnexpected is any other non-2xx response.
	KindUnexpected
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindBusiness:
		return "business"
	default:
		return "unexpected"
	}
}

// APIError is the normalized form of every gateway failure. StatusCode is 0
// when the request never produced a response. Messages holds the per-field
// entries of a structured validation response in the order the backend sent them.
type APIError struct {
	Message    string
	Messages   []string
	StatusCode int

	recognized bool
	err        error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.err
}

func (e *APIError) Kind() Kind {
	switch {
	case e.StatusCode == 0:
		return KindNetwork
	case e.recognized:
		return KindBusiness
	default:
		return KindUnexpected
	}
}

type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

type validationEntry struct {
	Loc []interface{} `json:"loc"`
	Msg string        `json:"msg"`
}

func networkError(err error) *APIError {
	msg := "Network error"
	if err != nil {
		msg = err.Error()
	}
	return &APIError{Message: msg, StatusCode: 0, err: err}
}

// normalizeError builds an APIError from a non-2xx response body.
func normalizeError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		if len(parsed.Detail) > 0 && string(parsed.Detail) != "null" {
			apiErr.Message, apiErr.Messages = decodeDetail(parsed.Detail)
		}
		// A detail of an unexpected shape yields nothing; fall back to the siblings.
		if apiErr.Message == "" {
			apiErr.Message = parsed.Error
		}
		if apiErr.Message == "" {
			apiErr.Message = parsed.Message
		}
	}

	if apiErr.Message != "" {
		apiErr.recognized = true
		return apiErr
	}

	apiErr.Message = fmt.Sprintf("Request failed with status code %d", status)
	return apiErr
}

// decodeDetail accepts a string or a list whose entries are strings or {loc, msg} objects.
func decodeDetail(raw json.RawMessage) (string, []string) {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return "", nil
	}

	messages := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			messages = append(messages, s)
			continue
		}

		var entry validationEntry
		if err := json.Unmarshal(item, &entry); err == nil && entry.Msg != "" {
			if len(entry.Loc) > 0 {
				messages = append(messages, fmt.Sprintf("%v: %s", entry.Loc[len(entry.Loc)-1], entry.Msg))
			} else {
				messages = append(messages, entry.Msg)
			}
			continue
		}

		messages = append(messages, string(item))
	}

	if len(messages) == 0 {
		return "", nil
	}
	return strings.Join(messages, "; "), messages
}
