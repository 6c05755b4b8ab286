package exporter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, "No-show report", sampleAnalysis(t)))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "No-show report\n"))
	assert.Contains(t, out, "Generated: 2024-01-02T03:04:05Z")
	for _, title := range []string{"Overall attendance", "Data profile", "Cleaning", "No-shows by gender", "Age distribution", "Age histogram", "No-shows by weekday"} {
		assert.Contains(t, out, title)
	}
	assert.Contains(t, out, "0.2000")
	assert.Contains(t, out, "Monday")
	assert.Contains(t, out, "+")
}

func TestWriteText_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, "empty", emptyAnalysis(t)))

	assert.Contains(t, buf.String(), "undefined")
}
