package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/mfnet/internal/config"
	"github.com/vk/mfnet/internal/ctxlog"
	"github.com/vk/mfnet/internal/hcl"
)

// LoadHCL loads a single network file through the HCL loader. It fails the
// test on any loader error.
func LoadHCL(t *testing.T, src string) *config.Model {
	t.Helper()
	model, err := TryLoadHCL(t, src)
	require.NoError(t, err)
	return model
}

// TryLoadHCL is like LoadHCL but returns the loader error.
func TryLoadHCL(t *testing.T, src string) (*config.Model, error) {
	t.Helper()
	dir := WriteFiles(t, map[string]string{"network/main.hcl": src})
	return hcl.NewLoader().Load(ctxlog.Discard(context.Background()), dir)
}
