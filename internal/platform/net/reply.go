package net

import (
	"net/http"

	perr "starforge/internal/platform/errors"
)

// Wire is the JSON envelope every API response and error uses
type Wire struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
}

// Error builds the status and envelope for err; a nil err is a bare 200
func Error(err error, reqID string) (int, Wire) {
	status := http.StatusOK
	if err != nil {
		status = perr.HTTPStatus(err)
	}
	w := perr.WireFrom(err)
	return status, Wire{
		StatusCode: status,
		Status:     http.StatusText(status),
		Code:       w.Code,
		Error:      w.Message,
		RequestID:  reqID,
	}
}
