package app

import (
	"context"

	"github.com/olusolaa/flow-drift-detector/internal/config"
	"github.com/olusolaa/flow-drift-detector/internal/core/ports"
)

// Application runs one flow comparison with the components built at bootstrap.
type Application struct {
	Engine ports.ComparisonEngine
	Logger ports.Logger
	Config *config.Config
}

func NewApplication(engine ports.ComparisonEngine, logger ports.Logger) *Application {
	return &Application{
		Engine: engine,
		Logger: logger,
	}
}

func (a *Application) Run(ctx context.Context) error {
	a.Logger.Infof(ctx, "Starting flow comparison...")

	if err := a.Engine.Run(ctx); err != nil {
		a.Logger.Errorf(ctx, err, "Flow comparison failed")
		return err
	}

	a.Logger.Infof(ctx, "Flow comparison completed successfully")
	return nil
}
