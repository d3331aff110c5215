package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"alarma-iot/backend/config"
)

func TestBuildConfig(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.LogConfig
		wantLevel zapcore.Level
		wantEnc   string
		wantErr   bool
	}{
		{"json default", config.LogConfig{Level: "info", Format: "json"}, zapcore.InfoLevel, "json", false},
		{"empty format is json", config.LogConfig{Level: "warn"}, zapcore.WarnLevel, "json", false},
		{"console", config.LogConfig{Level: "debug", Format: "Console"}, zapcore.DebugLevel, "console", false},
		{"bad level", config.LogConfig{Level: "loud", Format: "json"}, 0, "", true},
		{"bad format", config.LogConfig{Level: "info", Format: "xml"}, 0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			zapCfg, err := buildConfig(&tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLevel, zapCfg.Level.Level())
			assert.Equal(t, tt.wantEnc, zapCfg.Encoding)
			assert.Nil(t, zapCfg.Sampling)
		})
	}
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(&config.LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}
