package steelcut

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSSHKeyManagerNoKeys(t *testing.T) {
	km := FileSSHKeyManager{Dir: t.TempDir()}

	_, err := km.ReadPrivateKeys("")
	assert.ErrorIs(t, err, ErrNoKeys)
}

func TestFileSSHKeyManagerSkipsPublicAndBrokenKeys(t *testing.T) {
	dir := t.TempDir()

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(priv)
	require.NoError(t, err)

	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "id_ed25519"), keyPEM, 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "id_ed25519.pub"), []byte("ssh-ed25519 AAAA"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "id_broken"), []byte("garbage"), 0600))

	signers, err := FileSSHKeyManager{Dir: dir}.ReadPrivateKeys("")
	require.NoError(t, err)
	assert.Len(t, signers, 1)
}

func TestAgentSSHKeyManagerWithoutSocket(t *testing.T) {
	t.Setenv("SSH_AUTH_SOCK", "")

	_, err := AgentSSHKeyManager{}.ReadPrivateKeys("")
	assert.EqualError(t, err, "SSH_AUTH_SOCK not set")
}
