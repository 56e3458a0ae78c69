package layout

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLayout_Paths(t *testing.T) {
	l := New("/srv/pc")

	assert.Equal(t, filepath.FromSlash("/srv/pc/config/passingcircle.yml"), l.ConfigPath())
	assert.Equal(t, filepath.FromSlash("/srv/pc/services/nginx/certs/example.org.crt"), l.CertPath("example.org"))
	assert.Equal(t, filepath.FromSlash("/srv/pc/services/nginx/certs/example.org.key"), l.KeyPath("example.org"))
	assert.Equal(t, filepath.FromSlash("/srv/pc/services/synapse/example.org.signing.key"), l.SigningKeyPath("example.org"))
	assert.Equal(t, filepath.FromSlash("/srv/pc/services/nginx/well-known/matrix"), l.WellKnownDir())
	assert.Equal(t, filepath.FromSlash("/srv/pc/.env"), l.EnvPath())
	assert.Equal(t, filepath.FromSlash("/srv/pc/.provision/checksums.txt"), l.ChecksumPath())
}

func TestNew_DefaultRoot(t *testing.T) {
	assert.Equal(t, "/project", New("").Root)
}

func TestHomeserverSigningKeyPath(t *testing.T) {
	assert.Equal(t, "/data/example.org.signing.key", HomeserverSigningKeyPath("example.org"))
}

func TestDataDirs_ReturnsCopy(t *testing.T) {
	dirs := DataDirs()
	assert.Equal(t, []string{"data/synapse-db", "data/synapse-media", "data/authentik-db", "data/authentik-data"}, dirs)

	dirs[0] = "mutated"
	assert.Equal(t, "data/synapse-db", DataDirs()[0])
}
