package common

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_ProdWritesJSONAtInfo(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(EnvProd, &buf)

	log.Debug("hidden")
	log.Info("fetched", "records", 3)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "fetched", line["msg"])
	assert.EqualValues(t, 3, line["records"])
}

func TestNewLogger_LocalIsTextAtDebug(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(EnvLocal, &buf)

	log.Debug("building views")

	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), `msg="building views"`)
}
