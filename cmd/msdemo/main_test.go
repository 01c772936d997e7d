package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoOutput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, demo(&buf))

	out := buf.String()
	assert.Contains(t, out, "count:    8\n")
	assert.Contains(t, out, "in order: 3 5 7 10 10 10 12 15\n")
	assert.Contains(t, out, "min: 3  max: 15\n")
	assert.Contains(t, out, "rank(10): 3\n")
	assert.Contains(t, out, "delete(10): true\n")
	assert.Contains(t, out, "contains(10): true  count: 7\n")
	assert.Contains(t, out, "after removing every 10: contains(10): false  count: 5\n")
	assert.Contains(t, out, "select(6): multiset: index out of range")
}
