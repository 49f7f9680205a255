package main

import (
	"flag"
	"log"

	"github.com/decker502/seqgame/pkg/app"
	"github.com/decker502/seqgame/pkg/config"
	"github.com/decker502/seqgame/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	verbose = flag.Bool("verbose", false, "显示详细调试信息")
	seed    = flag.Int64("seed", 0, "序列随机种子（0 表示使用当前时间）")
)

func main() {
	flag.Parse()

	// dataFS 在 embed.go 中声明
	embedded.Init(dataFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose: *verbose,
		Seed:    *seed,
	})
	if err != nil {
		log.Fatalf("游戏初始化失败: %v", err)
	}

	ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
	ebiten.SetWindowTitle("Sequence Memory")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(gameApp); err != nil {
		log.Fatal(err)
	}
}
