package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meenmo/curverisk/risk/config"
)

func TestSetConfig(t *testing.T) {
	orig := config.GetConfig()
	t.Cleanup(func() { config.SetConfig(orig) })

	require.Equal(t, config.DefaultConfig, orig)

	config.SetConfig(config.Config{BumpSizeBP: 0.25})
	require.Equal(t, 0.25, config.GetConfig().BumpSizeBP)
}
