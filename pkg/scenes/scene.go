package scenes

import (
	"github.com/decker502/seqgame/pkg/game"
)

// Scene is a type alias for game.Scene.
type Scene = game.Scene

// SequenceSceneID 序列记忆小游戏场景的ID
const SequenceSceneID = "sequence"
