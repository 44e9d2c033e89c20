package scenes

import (
	"github.com/decker502/aeromorph/pkg/game"
)

// Scene is a type alias for game.Scene so hosts only import this package.
type Scene = game.Scene
