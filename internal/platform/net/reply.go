package net

import (
	"net/http"

	perr "incidencia/internal/platform/errors"
)

// Wire is the response envelope
type Wire struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Kind       string         `json:"kind,omitempty"`
	Error      string         `json:"error,omitempty"`
	Field      string         `json:"field,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
}

func success(status int, data any, reqID string) (int, Wire) {
	return status, Wire{StatusCode: status, Status: http.StatusText(status), RequestID: reqID, Data: data}
}

// OK builds a 200 envelope
func OK(data any, reqID string) (int, Wire) { return success(http.StatusOK, data, reqID) }

// Created builds a 201 envelope
func Created(data any, reqID string) (int, Wire) { return success(http.StatusCreated, data, reqID) }

// Accepted builds a 202 envelope
func Accepted(data any, reqID string) (int, Wire) { return success(http.StatusAccepted, data, reqID) }

// NoContent builds a 204 envelope
func NoContent(reqID string) (int, Wire) { return success(http.StatusNoContent, nil, reqID) }

// Error builds an error envelope; nil err is a 200
func Error(err error, reqID string) (int, Wire) {
	if err == nil {
		return OK(nil, reqID)
	}
	status, w := perr.HTTP(err)
	return status, Wire{
		StatusCode: status,
		Status:     http.StatusText(status),
		Code:       w.Code,
		Kind:       w.Kind,
		Error:      w.Message,
		Field:      w.Field,
		RequestID:  reqID,
	}
}
