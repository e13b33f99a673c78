package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "search")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_HasLimitFlag(t *testing.T) {
	flag := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, flag)
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "10", flag.DefValue)
}

func TestSearchCmd_PrintsMatches(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "search", "election")
	require.NoError(t, err)
	assert.Contains(t, out, "calvin/Institutes (Vol. 1 of 2).txt")
	assert.Contains(t, out, "[[election]]")
	assert.Contains(t, out, "work: Institutes vol 1/2")
}

func TestSearchCmd_NoResults(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "search", "zymurgy")
	require.NoError(t, err)
	assert.Contains(t, out, "No results.")
}

func TestSearchCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "search", "--json", "election")
	require.NoError(t, err)
	assert.Contains(t, out, `"rel_path"`)

	// Reset for later tests sharing the flag variable.
	searchJSON = false
}

func TestSearchCmd_ExtFilter(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "search", "--ext", "pdf", "election")
	require.NoError(t, err)
	assert.Contains(t, out, "No results.")

	filterExt = ""
}

func TestSearchCmd_Unconfigured(t *testing.T) {
	app = Services{}

	_, err := execute(t, "search", "election")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
