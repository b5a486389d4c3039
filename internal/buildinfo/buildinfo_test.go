package buildinfo

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrintBuildData(t *testing.T) {
	old := Version
	Version = "v1.0.0"
	t.Cleanup(func() { Version = old })

	var buf bytes.Buffer
	PrintBuildData(&buf)
	require.Equal(t, "Build version: v1.0.0\nBuild date: N/A\nBuild commit: N/A\n", buf.String())
}
