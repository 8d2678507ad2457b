// Package models defines the JSON shapes returned by the REST API.
package models

import (
	"net/http"

	"raptor.opentransit.org/internal/clock"
)

// ResponseModel is the envelope wrapped around every API response.
type ResponseModel struct {
	Code        int         `json:"code"`
	CurrentTime int64       `json:"currentTime"`
	Data        interface{} `json:"data,omitempty"`
	Text        string      `json:"text"`
	Version     int         `json:"version"`
}

// ResponseCurrentTime returns the clock's current time as Unix milliseconds
// for the envelope's currentTime field.
func ResponseCurrentTime(c clock.Clock) int64 {
	return c.NowUnixMilli()
}

// NewOKResponse wraps data in a 200 envelope.
func NewOKResponse(data interface{}, c clock.Clock) ResponseModel {
	return ResponseModel{
		Code:        http.StatusOK,
		CurrentTime: ResponseCurrentTime(c),
		Data:        data,
		Text:        "OK",
		Version:     2,
	}
}

// NewEntryResponse wraps a single entry in a 200 envelope.
func NewEntryResponse(entry interface{}, c clock.Clock) ResponseModel {
	return NewOKResponse(map[string]interface{}{"entry": entry}, c)
}

// NewListResponse wraps a list of entries in a 200 envelope. limitExceeded
// is always false; the field exists for clients that page through results.
func NewListResponse(list interface{}, c clock.Clock) ResponseModel {
	return NewOKResponse(map[string]interface{}{
		"list":          list,
		"limitExceeded": false,
	}, c)
}
