package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd_PrintsVersion(t *testing.T) {
	originalVersion := version
	version = "1.2.3-test"
	defer func() { version = originalVersion }()

	out, err := execute("version")
	require.NoError(t, err)
	assert.Equal(t, "recapd version 1.2.3-test\n", out)
}

func TestVersionCmd_SkipsServiceInit(t *testing.T) {
	// version must run without a store or config; the services stay unset.
	_, err := execute("version")
	require.NoError(t, err)
	assert.Nil(t, recordStore)
}
