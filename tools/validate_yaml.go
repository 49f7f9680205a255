package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"

	"github.com/decker502/seqgame/pkg/config"
	"gopkg.in/yaml.v3"
)

func main() {
	path := flag.String("file", config.SequenceSceneConfigPath, "场景配置文件路径")
	flag.Parse()

	data, err := os.ReadFile(*path)
	if err != nil {
		fmt.Printf("❌ 读取文件失败: %v\n", err)
		os.Exit(1)
	}

	// 先做严格解析，拼错的字段名会被静默忽略
	var strict config.SequenceSceneConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&strict); err != nil {
		fmt.Printf("❌ YAML 解析失败: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ YAML 格式正确\n")

	cfg, err := config.ParseSequenceSceneConfig(data)
	if err != nil {
		fmt.Printf("❌ 配置校验失败: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ 小游戏ID: %s\n", cfg.ID)
	fmt.Printf("✅ 目标数量: %d，序列长度: %d\n", len(cfg.Targets), cfg.Minigame.SequenceLength(len(cfg.Targets)))

	overlaps := 0
	for i := range cfg.Targets {
		for j := i + 1; j < len(cfg.Targets); j++ {
			if targetsOverlap(cfg.Targets[i], cfg.Targets[j]) {
				fmt.Printf("❌ 目标 %d 与目标 %d 重叠\n", i, j)
				overlaps++
			}
		}
	}

	if overlaps == 0 {
		fmt.Printf("✅ 所有目标互不重叠\n")
	} else {
		fmt.Printf("❌ 有 %d 对目标重叠，点击时只会触发其中一个\n", overlaps)
		os.Exit(1)
	}
}

func targetsOverlap(a, b config.TargetLayout) bool {
	return a.X < b.X+b.Width && b.X < a.X+a.Width &&
		a.Y < b.Y+b.Height && b.Y < a.Y+a.Height
}
