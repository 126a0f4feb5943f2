package stdlib

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	reg := Default()
	require.NotNil(t, reg)
	assert.True(t, reg.Has("ToUpper"))
	assert.True(t, reg.Has("toupper"), "lookup ignores case")
	assert.True(t, reg.Has("Sleep"))
	assert.False(t, reg.Has("FooBar"))
	assert.Equal(t, "ToUpper", reg.Names()[0], "catalog order is preserved")
	assert.Equal(t, reg.Len(), len(reg.All()))
}

func TestSignature(t *testing.T) {
	fn, ok := Default().Lookup("join")
	require.True(t, ok)
	assert.Equal(t, "Join(items: array, separator?: string): string", fn.Signature())

	fn, ok = Default().Lookup("Random")
	require.True(t, ok)
	assert.Equal(t, "Random(): number", fn.Signature())
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(strings.NewReader(`
[[function]]
name = "X"
colour = "red"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "colour")
}

func TestLoadRejectsMissingName(t *testing.T) {
	_, err := Load(strings.NewReader(`
[[function]]
category = "x"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing name")
}

func TestMergeOverridesByName(t *testing.T) {
	extra, err := Load(strings.NewReader(`
[[function]]
name = "SendMail"
category = "host"
description = "Sends a mail through the host."

[[function]]
name = "toupper"
category = "string"
description = "Overridden."
`))
	require.NoError(t, err)

	merged := Default().Merge(extra)
	assert.True(t, merged.Has("SendMail"))
	fn, ok := merged.Lookup("ToUpper")
	require.True(t, ok)
	assert.Equal(t, "Overridden.", fn.Description)
	assert.Equal(t, Default().Len()+1, merged.Len())
	assert.False(t, Default().Has("SendMail"), "merge does not mutate the receiver")
}
