package appstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOutdated(t *testing.T) {
	updates, err := ParseOutdated("497799835 Xcode (14.3 -> 15.0)\n424389933 Final Cut Pro (10.6.4 -> 10.6.5)\n408981381 iMovie (10.3.3)\n")
	require.NoError(t, err)
	assert.Equal(t, []Update{
		{ID: "497799835", Name: "Xcode", Current: "14.3", Latest: "15.0"},
		{ID: "424389933", Name: "Final Cut Pro", Current: "10.6.4", Latest: "10.6.5"},
		{ID: "408981381", Name: "iMovie", Latest: "10.3.3"},
	}, updates)
}

func TestParseOutdatedMalformed(t *testing.T) {
	_, err := ParseOutdated("497799835 Xcode\n")
	assert.ErrorIs(t, err, ErrMalformedLine)
}

func TestParseOutdatedNothing(t *testing.T) {
	updates, err := ParseOutdated("\n")
	require.NoError(t, err)
	assert.Empty(t, updates)
}
