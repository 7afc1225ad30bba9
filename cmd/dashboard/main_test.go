package main

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedAssets(t *testing.T) {
	webFS, err := fs.Sub(webFiles, "web")
	require.NoError(t, err)

	for _, name := range []string{
		"templates/index.html",
		"static/dashboard.js",
		"static/dashboard.css",
	} {
		info, err := fs.Stat(webFS, name)
		require.NoError(t, err, name)
		assert.Positive(t, info.Size(), name)
	}
}
