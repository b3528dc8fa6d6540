package main

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/framecast/app/framecast"
)

func TestApplyFlags(t *testing.T) {
	t.Parallel()

	t.Run("only changed flags override", func(t *testing.T) {
		t.Parallel()
		cmd := newRootCmd()
		require.NoError(t, cmd.ParseFlags([]string{
			"--fps", "12",
			"--url", "0.0.0.0:9000",
			"--idle-timeout", "30s",
		}))

		cfg := framecast.DefaultConfig()
		cfg.FrameHeight = 720
		applyFlags(cmd, flagsOf(t, cmd), &cfg)

		assert.Equal(t, 12, cfg.FPS)
		assert.Equal(t, "0.0.0.0:9000", cfg.URL)
		assert.Equal(t, 30*time.Second, cfg.IdleTimeout)
		assert.Equal(t, 720, cfg.FrameHeight, "unset flag must keep the loaded value")
		assert.Equal(t, framecast.SourcePattern, cfg.Source)
	})

	t.Run("source flags", func(t *testing.T) {
		t.Parallel()
		cmd := newRootCmd()
		require.NoError(t, cmd.ParseFlags([]string{
			"--source", "dir",
			"--source-dir", "/tmp/frames",
			"--frame-height", "360",
			"--max-subscribers", "4",
		}))

		cfg := framecast.DefaultConfig()
		applyFlags(cmd, flagsOf(t, cmd), &cfg)

		assert.Equal(t, framecast.SourceDir, cfg.Source)
		assert.Equal(t, "/tmp/frames", cfg.SourceDir)
		assert.Equal(t, 360, cfg.FrameHeight)
		assert.Equal(t, 4, cfg.MaxSubscribers)
	})

	t.Run("invalid flag value fails validation", func(t *testing.T) {
		t.Parallel()
		cmd := newRootCmd()
		require.NoError(t, cmd.ParseFlags([]string{"--fps", "0"}))

		cfg := framecast.DefaultConfig()
		applyFlags(cmd, flagsOf(t, cmd), &cfg)

		assert.ErrorIs(t, cfg.Validate(), framecast.ErrInvalidConfig)
	})
}

func TestRootCmd_Defaults(t *testing.T) {
	t.Parallel()

	cmd := newRootCmd()
	f := cmd.Flags().Lookup("config")
	require.NotNil(t, f)
	assert.Equal(t, framecast.DefaultConfigFile, f.DefValue)
	assert.True(t, cmd.SilenceUsage)
}

func flagsOf(t *testing.T, cmd *cobra.Command) flagValues {
	t.Helper()
	f := cmd.Flags()
	var fv flagValues
	var err error
	fv.configPath, err = f.GetString("config")
	require.NoError(t, err)
	fv.url, _ = f.GetString("url")
	fv.frameHeight, _ = f.GetInt("frame-height")
	fv.fps, _ = f.GetInt("fps")
	fv.source, _ = f.GetString("source")
	fv.sourceDir, _ = f.GetString("source-dir")
	fv.idleTimeout, _ = f.GetDuration("idle-timeout")
	fv.maxSubs, _ = f.GetInt("max-subscribers")
	return fv
}
