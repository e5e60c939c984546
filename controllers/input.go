package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

const maxBodyBytes = 1 << 20

// ErrMalformedInput means the request carried nothing that could be parsed.
var ErrMalformedInput = errors.New("no input data provided")

// readParams merges query string values with a JSON object body; body keys win.
// A request with neither is malformed, as is a body that is not a JSON object.
func readParams(ctx *gin.Context) (map[string]any, error) {
	query := ctx.Request.URL.Query()
	body, err := readJSONObject(ctx)
	if err != nil {
		return nil, err
	}
	if body == nil && len(query) == 0 {
		return nil, ErrMalformedInput
	}

	params := make(map[string]any, len(query)+len(body))
	for key, values := range query {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}
	for key, value := range body {
		params[key] = value
	}
	return params, nil
}

// readBody returns the JSON object body of a create request.
func readBody(ctx *gin.Context) (map[string]any, error) {
	body, err := readJSONObject(ctx)
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, ErrMalformedInput
	}
	return body, nil
}

// readJSONObject returns nil, nil for an empty body. Numbers are kept as json.Number.
func readJSONObject(ctx *gin.Context) (map[string]any, error) {
	if ctx.Request.Body == nil {
		return nil, nil
	}
	raw, err := io.ReadAll(http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil || obj == nil {
		return nil, fmt.Errorf("%w: body is not a JSON object", ErrMalformedInput)
	}
	if dec.Decode(&struct{}{}) != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after JSON object", ErrMalformedInput)
	}
	return obj, nil
}
