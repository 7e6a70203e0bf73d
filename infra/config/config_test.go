package config

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Ratio  float64 `json:"ratio"`
	Hidden []int   `json:"hidden"`
}

func TestLoad(t *testing.T) {
	var s sample
	err := Load("ddhs.json", &s)
	require.NoError(t, err)
	assert.Equal(t, 1.0, s.Ratio)
	assert.Equal(t, []int{256, 128}, s.Hidden)

	err = Load("missing.json", &s)
	assert.Error(t, err)

	broken := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, ioutil.WriteFile(broken, []byte("{"), 0600))
	err = Load(broken, &s)
	assert.Error(t, err)
}

func TestMustLoad(t *testing.T) {
	assert.Panics(t, func() {
		MustLoad("missing", &sample{})
	})
}
