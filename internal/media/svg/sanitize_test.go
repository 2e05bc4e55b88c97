package svg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeStripsExecutableContent(t *testing.T) {
	input := []byte(`<svg xmlns="http://www.w3.org/2000/svg" onload="alert(1)">` +
		`<script type="text/javascript">alert(2)</script>` +
		`<a href='javascript:alert(3)'><rect width="10" height="10" onclick='x()'/></a>` +
		`<foreignObject><body>hi</body></foreignObject>` +
		`</svg>`)

	out, err := Sanitize(input)
	require.NoError(t, err)

	s := string(out)
	assert.NotContains(t, s, "script")
	assert.NotContains(t, s, "onload")
	assert.NotContains(t, s, "onclick")
	assert.NotContains(t, s, "javascript:")
	assert.NotContains(t, s, "foreignObject")
	assert.Contains(t, s, `<rect width="10" height="10"/>`)
}

func TestSanitizeKeepsPlainDocument(t *testing.T) {
	input := []byte(`<svg viewBox="0 0 1 1"><circle r="1"/></svg>`)

	out, err := Sanitize(input)
	require.NoError(t, err)
	assert.Equal(t, input, out)
}

func TestSanitizeRejectsNonSVG(t *testing.T) {
	_, err := Sanitize([]byte("<html></html>"))
	assert.ErrorIs(t, err, ErrNotSVG)
}

func TestSanitizeRemovesDoctypeEntities(t *testing.T) {
	in := []byte(`<?xml version="1.0"?><!DOCTYPE svg [<!ENTITY x SYSTEM "file:///etc/passwd">]><svg><text>&x;</text></svg>`)

	out, err := Sanitize(in)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "ENTITY")
	assert.NotContains(t, string(out), "DOCTYPE")
	assert.Contains(t, string(out), "<svg>")
}

func TestSanitizeRemovesSelfClosingScript(t *testing.T) {
	out, err := Sanitize([]byte(`<svg><script href="evil.js"/><rect/></svg>`))
	require.NoError(t, err)
	assert.Equal(t, `<svg><rect/></svg>`, string(out))
}
