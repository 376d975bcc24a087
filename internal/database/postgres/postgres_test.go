package postgres

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// SCHEMA STATEMENT SPLITTING
// ============================================================================

func TestSplitStatements_RealSchemaYieldsOnlyCreateStatements(t *testing.T) {
	content, err := os.ReadFile("../../../schema.sql")
	require.NoError(t, err)

	statements := splitStatements(string(content))
	require.Len(t, statements, 8)

	for _, statement := range statements {
		assert.True(t, strings.HasPrefix(statement, "CREATE"),
			"statement does not start with CREATE: %q", firstLine(statement))
		assert.NotContains(t, statement, "--")
	}
}

func TestSplitStatements_SemicolonInsideCommentIsNotAStatement(t *testing.T) {
	content := "-- header note; commentary continues past the semicolon\n" +
		"CREATE TABLE IF NOT EXISTS t (\n    id INT\n);\n" +
		"-- trailing note\n"

	statements := splitStatements(content)

	require.Len(t, statements, 1)
	assert.Equal(t, "CREATE TABLE IF NOT EXISTS t (\n    id INT\n)", statements[0])
}

func TestSplitStatements_BlankAndCommentOnlyInputYieldsNothing(t *testing.T) {
	assert.Empty(t, splitStatements(""))
	assert.Empty(t, splitStatements("-- only; comments\n\n  -- here\n"))
}
