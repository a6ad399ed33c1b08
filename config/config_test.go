package config

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/bodgit/monovid/bitmap"
	"github.com/bodgit/monovid/chunk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.Nil(t, c.Validate())
	assert.Equal(t, chunk.DefaultConfig, c.Chunk())

	conv := c.Converter()
	assert.Equal(t, 128, conv.Width)
	assert.Equal(t, 64, conv.Height)
	assert.Equal(t, uint8(127), conv.Threshold)
	assert.Equal(t, bitmap.Threshold, conv.Mode)
	assert.Equal(t, bitmap.Letterbox, conv.Fit)
}

func writeConfig(t *testing.T, s string) string {
	file := filepath.Join(t.TempDir(), "monovid.toml")
	require.Nil(t, ioutil.WriteFile(file, []byte(s), 0644))
	return file
}

func TestLoad(t *testing.T) {
	c, err := Load(writeConfig(t, `
[display]
width = 84
height = 48
frame_rate = 25

[encoder]
diff_percent = 12
mode = "Quantize"
fit = "crop"
filter = "lanczos"
`))
	require.Nil(t, err)

	assert.Equal(t, Display{Width: 84, Height: 48, FrameRate: 25}, c.Display)
	assert.Equal(t, chunk.Config{DiffPercent: 12, UniformPenalty: 5}, c.Chunk())

	conv := c.Converter()
	assert.Equal(t, bitmap.Quantize, conv.Mode)
	assert.Equal(t, bitmap.Crop, conv.Fit)
	assert.Equal(t, uint8(127), conv.Threshold)
}

func TestLoadInvalid(t *testing.T) {
	tables := []string{
		"[display]\nwidth = 256\n",
		"[display]\nheight = 0\n",
		"[display]\nframe_rate = 0\n",
		"[encoder]\ndiff_percent = -1\n",
		"[encoder]\nthreshold = 300\n",
		"[encoder]\nmode = \"dither\"\n",
		"[encoder]\nfit = \"stretch\"\n",
		"[encoder]\nfilter = \"bicubic\"\n",
		"[encoder]\nlimit = -5\n",
		"not toml at all",
	}

	for _, table := range tables {
		_, err := Load(writeConfig(t, table))
		assert.NotNil(t, err, table)
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.NotNil(t, err)
}
