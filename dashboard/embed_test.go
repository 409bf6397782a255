package dashboard

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDist(t *testing.T) {
	index, err := fs.ReadFile(Dist(), "index.html")
	require.NoError(t, err)
	assert.Contains(t, string(index), "app.js")

	app, err := fs.ReadFile(Dist(), "app.js")
	require.NoError(t, err)
	for _, route := range []string{"/model", "/inputs", "/layer/", "/predict/", "/temp-file/", "/input-file/"} {
		assert.Contains(t, string(app), route)
	}
}
