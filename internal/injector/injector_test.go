package injector

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/akhoik/ge/internal/config"
	"github.com/akhoik/ge/internal/core/models"
)

func TestInitializeEngine(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "error"

	e, err := InitializeEngine(cfg)
	require.NoError(t, err)
	defer e.Close()
	require.NoError(t, e.Build())

	stats, err := e.Frame()
	require.NoError(t, err)
	require.Equal(t, 1, stats.Frame)
	require.NoError(t, e.Tree().Validate())

	// The tree and the engine share one bus.
	head, _ := e.Tree().HeadID()
	e.Tree().CreateEntity("loose", nil)
	cam, _ := e.Tree().MainCameraID()
	require.NoError(t, e.Tree().Reparent(cam, models.NilID))
	require.NoError(t, e.Tree().Reparent(cam, head))

	stats, err = e.Frame()
	require.NoError(t, err)
	require.Equal(t, 1, stats.Created)
	require.Equal(t, 2, stats.Reparented)
	require.True(t, stats.Topology)
}
