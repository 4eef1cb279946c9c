// @title Gamification 后端 API
// @version 1.0
// @description 游戏化练习平台的后端服务器。

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"log"

	"gamification_backend/internal/app"
	"gamification_backend/internal/config"
	"gamification_backend/pkg/configwatcher"
	"gamification_backend/pkg/logger"
)

func main() {
	// 命令行参数
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	migrate := flag.Bool("migrate", false, "启动时强制执行数据库迁移（即使是 release 模式）")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 设置迁移标志
	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	// 热更新密钥类配置，无需重启服务
	go configwatcher.WatchConfig("configs/config.yaml", cfg, func(reloaded interface{}) {
		newCfg, ok := reloaded.(*config.Config)
		if !ok {
			return
		}
		cfg.JWT = newCfg.JWT
		cfg.Judge0 = newCfg.Judge0
		log.Println("配置已热更新")
	})

	// 迁移完成后直接退出
	if *migrateOnly {
		log.Println("数据库迁移完成，退出程序")
		return
	}

	application.Run()
}
