package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"holdemtable-server/internal/util"
)

func TestInstance(t *testing.T) {
	clear1 := util.SetEnv("HTS_CONFIG_FILE", "testdata/config.yaml")
	defer clear1()
	clear2 := util.SetEnv("HTS_DISCONNECT_GRACE", "2")
	defer clear2()

	a := assert.New(t)
	a.NoError(Load())
	cfg := Instance()
	a.Equal("public.pem", cfg.JWT.PublicKey)
	a.Equal(25, cfg.Blinds.Big)
	// environment overrides the file
	a.Equal(2, cfg.DisconnectGrace)

	// ensure we aren't handing out a pointer
	cfg.JWT.PublicKey = "bad"
	cfg = Instance()
	a.Equal("public.pem", cfg.JWT.PublicKey)
}

func TestDefaults(t *testing.T) {
	clear1 := util.SetEnv("HTS_CONFIG_FILE", "testdata/does-not-exist.yaml")
	defer clear1()

	a := assert.New(t)
	a.NoError(Load())
	cfg := Instance()
	a.Equal(10, cfg.StartGameDelay)
	a.Equal(5, cfg.DisconnectGrace)
	a.Equal(2, cfg.Blinds.Big)
	a.Equal(20, cfg.BuyIn.Min)
	a.Equal(2000, cfg.BuyIn.Max)
	a.False(cfg.EnableTestEndpoints)
}
