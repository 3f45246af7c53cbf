package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadHostsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hosts.ini")
	content := `[studio]
host1=mac01.local
host2=mac02.local

[lab]
host3=10.0.0.3`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	hosts, err := readHostsFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		"studio": {"mac01.local", "mac02.local"},
		"lab":    {"10.0.0.3"},
	}, hosts)
}

func TestReadHostsFromMissingFile(t *testing.T) {
	_, err := readHostsFromFile(filepath.Join(t.TempDir(), "missing.ini"))
	assert.Error(t, err)
}
