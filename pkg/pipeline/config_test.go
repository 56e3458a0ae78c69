package pipeline

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/passingcircle/passingcircle/pkg/certs"
)

func TestNewConfig_Defaults(t *testing.T) {
	c := NewConfig()

	assert.Equal(t, "/project", c.ProjectDir())
	assert.Equal(t, "/project/config/passingcircle.yml", c.ConfigPath())
	assert.True(t, c.IncludeChecksums())
	assert.Empty(t, c.MetricsFile())
	assert.Equal(t, "dev", c.Version())
	assert.Nil(t, c.CertGenerator())
	assert.Equal(t, os.Stdout, c.Output())
}

func TestNewConfig_Options(t *testing.T) {
	var buf bytes.Buffer
	gen := certs.NewNativeGenerator()

	c := NewConfig(
		WithProjectDir("/srv/pc"),
		WithCertGenerator(gen),
		WithIncludeChecksums(false),
		WithMetricsFile("/tmp/pc.prom"),
		WithVersion("v1.0.0"),
		WithOutput(&buf),
	)

	assert.Equal(t, "/srv/pc", c.ProjectDir())
	assert.Equal(t, "/srv/pc/config/passingcircle.yml", c.ConfigPath())
	assert.Same(t, gen, c.CertGenerator())
	assert.False(t, c.IncludeChecksums())
	assert.Equal(t, "/tmp/pc.prom", c.MetricsFile())
	assert.Equal(t, "v1.0.0", c.Version())
	assert.Equal(t, &buf, c.Output())
}

func TestNewConfig_EmptyValuesKeepDefaults(t *testing.T) {
	c := NewConfig(WithProjectDir(""), WithOutput(nil), WithConfigPath("/etc/pc.yml"))

	assert.Equal(t, "/project", c.ProjectDir())
	assert.Equal(t, "/etc/pc.yml", c.ConfigPath())
	assert.NotNil(t, c.Output())
}
