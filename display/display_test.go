package display

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commands() (*cobra.Command, *cobra.Command) {
	root := &cobra.Command{Use: "kin"}
	root.PersistentFlags().Bool("json", false, "")
	child := &cobra.Command{Use: "date", Run: func(*cobra.Command, []string) {}}
	child.Flags().Bool("json", false, "")
	root.AddCommand(child)
	return root, child
}

func TestShouldOutputJSON(t *testing.T) {
	t.Setenv(OutputEnv, "")

	root, child := commands()
	assert.False(t, ShouldOutputJSON(child))

	require.NoError(t, child.Flags().Set("json", "true"))
	assert.True(t, ShouldOutputJSON(child))

	root, child = commands()
	require.NoError(t, root.PersistentFlags().Set("json", "true"))
	assert.True(t, ShouldOutputJSON(child), "global flag")

	_, child = commands()
	t.Setenv(OutputEnv, "json")
	assert.True(t, ShouldOutputJSON(child), "environment")
	assert.True(t, ShouldOutputJSON(nil))

	require.NoError(t, child.Flags().Set("json", "false"))
	assert.False(t, ShouldOutputJSON(child), "explicit flag beats environment")
}

func TestWriteJSON(t *testing.T) {
	v := map[string]int{"records": 3}

	t.Setenv(CompactEnv, "")
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, v))
	assert.Equal(t, "{\n  \"records\": 3\n}\n", buf.String())

	t.Setenv(CompactEnv, "1")
	buf.Reset()
	require.NoError(t, WriteJSON(&buf, v))
	assert.Equal(t, "{\"records\":3}\n", buf.String())

	assert.Error(t, WriteJSON(&buf, func() {}))
}
