package vectors

import (
	"go.uber.org/fx"
)

// FXModule provides the *Service. It expects a *qdrant.Manager and a
// *logger.Logger in the graph.
var FXModule = fx.Module("vectors",
	fx.Provide(
		NewService,
	),
)
