package injector

import (
	"github.com/google/wire"

	"github.com/akhoik/ge/internal/config"
	"github.com/akhoik/ge/internal/core/events/bus"
	"github.com/akhoik/ge/internal/core/observability/log"
	"github.com/akhoik/ge/internal/engine"
)

var ProviderSet = wire.NewSet(
	ProvideLogger,
	bus.New,
	engine.NewTree,
	engine.NewLogRenderer,
	wire.Bind(new(engine.Renderer), new(*engine.LogRenderer)),
	engine.New,
)

func ProvideLogger(cfg *config.Config) (log.Log, error) {
	logger, err := log.New(log.Options{
		Level:    cfg.LogLevel(),
		Encoding: cfg.Log.Encoding,
	})
	if err != nil {
		return nil, err
	}
	return logger, nil
}
