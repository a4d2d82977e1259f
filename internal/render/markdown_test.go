package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsStyle(t *testing.T) {
	assert.Equal(t, DefaultDarkStyle, Options{Dark: true}.style())
	assert.Equal(t, DefaultLightStyle, Options{}.style())
	assert.Equal(t, "tokyo-night", Options{Dark: true, DarkStyle: "tokyo-night"}.style())
	assert.Equal(t, "pink", Options{LightStyle: "pink"}.style())
}

func TestPlainKeepsText(t *testing.T) {
	out, err := Plain("# Heading\r\n\r\nSome *emphasis* and `code`.\n\n```go\nfmt.Println(1)\n```\n", 60)
	require.NoError(t, err)
	assert.Contains(t, out, "Heading")
	assert.Contains(t, out, "emphasis")
	assert.Contains(t, out, "fmt.Println(1)")
	assert.NotContains(t, out, "\r")
}

func TestMarkdownBothThemes(t *testing.T) {
	for _, dark := range []bool{true, false} {
		out, err := Markdown("- one\n- two\n", Options{Dark: dark, Width: 40})
		require.NoError(t, err)
		assert.True(t, strings.Contains(out, "one") && strings.Contains(out, "two"))
	}
}
