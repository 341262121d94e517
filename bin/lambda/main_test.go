package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHitsBody(t *testing.T) {
	assert.Equal(t, `{"path":"/orders","hits":42}`, hitsBody("/orders", "42"))
	assert.Equal(t, `{"path":"/","hits":1}`, hitsBody("/", "1"))
}

func TestServiceResponse(t *testing.T) {
	resp := serviceResponse(200, `{"ok":true}`)

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	assert.JSONEq(t, `{"ok":true}`, resp.Body)
}
