package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	t.Setenv("SUBSCAN_TEST_DIR", "/var/data")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain path", "/tmp/subscan.db", "/tmp/subscan.db"},
		{"tilde prefix", "~/data/subscan.db", filepath.Join(home, "data/subscan.db")},
		{"bare tilde", "~", home},
		{"env var", "$SUBSCAN_TEST_DIR/subscan.db", "/var/data/subscan.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}
