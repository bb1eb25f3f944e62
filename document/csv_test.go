package document

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noemata/korpus/core"
)

func TestCSVParserMetadata(t *testing.T) {
	parser := NewCSVParser()
	assert.Equal(t, "csv", parser.Format())
	assert.Equal(t, []string{".csv"}, parser.Extensions())
}

func TestCSVParserParse(t *testing.T) {
	parser := NewCSVParser()

	t.Run("groups rows with replicated header", func(t *testing.T) {
		var sb strings.Builder
		sb.WriteString("name,city\n")
		for i := 1; i <= 45; i++ {
			fmt.Fprintf(&sb, "person%d,city%d\n", i, i)
		}
		path := writeTempFile(t, "people.csv", sb.String())

		segments, err := parser.Parse(path)
		require.NoError(t, err)
		require.Len(t, segments, 3)

		assert.Equal(t, "rows 1-20", segments[0].Section)
		assert.Equal(t, "rows 21-40", segments[1].Section)
		assert.Equal(t, "rows 41-45", segments[2].Section)

		for _, segment := range segments {
			assert.True(t, strings.HasPrefix(segment.Text, "columns: name, city"))
		}
		assert.Contains(t, segments[0].Text, "name=person1; city=city1")
		assert.Contains(t, segments[1].Text, "name=person21; city=city21")
		assert.Contains(t, segments[2].Text, "name=person45; city=city45")
		assert.NotContains(t, segments[0].Text, "person21")
	})

	t.Run("empty cells are skipped", func(t *testing.T) {
		path := writeTempFile(t, "sparse.csv", "a,b,c\n1,,3\n")
		segments, err := parser.Parse(path)
		require.NoError(t, err)
		require.Len(t, segments, 1)
		assert.Contains(t, segments[0].Text, "a=1; c=3")
		assert.NotContains(t, segments[0].Text, "b=")
	})

	t.Run("ragged rows use positional column names", func(t *testing.T) {
		path := writeTempFile(t, "ragged.csv", "a,b\n1,2,3\n")
		segments, err := parser.Parse(path)
		require.NoError(t, err)
		require.Len(t, segments, 1)
		assert.Contains(t, segments[0].Text, "a=1; b=2; col3=3")
	})

	t.Run("header-only file yields no segments", func(t *testing.T) {
		path := writeTempFile(t, "header.csv", "a,b,c\n")
		segments, err := parser.Parse(path)
		require.NoError(t, err)
		assert.Empty(t, segments)
	})

	t.Run("empty file yields no segments", func(t *testing.T) {
		path := writeTempFile(t, "empty.csv", "")
		segments, err := parser.Parse(path)
		require.NoError(t, err)
		assert.Empty(t, segments)
	})

	t.Run("missing file wraps parse error", func(t *testing.T) {
		_, err := parser.Parse(t.TempDir() + "/absent.csv")
		assert.ErrorIs(t, err, core.ErrParse)
	})
}
