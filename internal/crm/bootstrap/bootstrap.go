// Copyright 2025 Funnel Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bootstrap

import (
	"context"
	"time"

	"github.com/go-funnel/funnel/internal/crm/conf"
	"github.com/go-funnel/funnel/internal/crm/consts"
	"github.com/go-funnel/funnel/internal/crm/repo"
	"github.com/go-funnel/funnel/internal/crm/router"
	"github.com/go-funnel/funnel/internal/crm/service"
	"github.com/go-funnel/funnel/pkg/cache"
	"github.com/go-funnel/funnel/pkg/ctx"
	"github.com/go-funnel/funnel/pkg/database"
	httpx "github.com/go-funnel/funnel/pkg/http"
	"github.com/go-funnel/funnel/pkg/log"
	"github.com/gofiber/fiber/v2"
)

// App 组装完成的应用
type App struct {
	HttpApp *fiber.App
	AppConf conf.AppConfig

	cleanup func()
}

// Bootstrap 按 配置 -> 日志 -> 存储 -> 仓储 -> 服务 -> 路由 的顺序组装应用
func Bootstrap(configFile string) (*App, error) {
	appConf := conf.NewConf(configFile)

	if err := log.Init(&appConf.Log); err != nil {
		return nil, err
	}

	redisClient, err := cache.NewRedis(appConf.Redis)
	if err != nil {
		return nil, err
	}

	db, err := database.NewDatabase(appConf.Database)
	if err != nil {
		return nil, err
	}

	if appConf.Http.Auth.RedisKeyPrefix == "" {
		appConf.Http.Auth.RedisKeyPrefix = consts.TokenKeyPrefix
	}

	appCtx := ctx.NewContext(context.Background(), db, redisClient, log.GetLogger())

	repos := repo.NewRepositories(database.NewGormDB(db))
	services := service.NewServices(repos, cache.NewRedisCache(redisClient), &appConf.Http.Auth, service.AnalyticsOptions{
		CacheTTL: time.Duration(appConf.Analytics.CacheTTL) * time.Second,
	})

	httpApp := httpx.NewFiberApp(appConf.Http)
	router.NewRouter(&appConf.Http, appCtx, services).Register(httpApp)

	cleanup := func() {
		if err := redisClient.Close(); err != nil {
			log.Errorf("close redis client: %v", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Errorf("close database: %v", err)
			}
		}
	}

	return &App{HttpApp: httpApp, AppConf: appConf, cleanup: cleanup}, nil
}

// Run 启动 http 服务并阻塞到收到退出信号
func (a *App) Run() {
	shutdown := httpx.Serve(a.HttpApp, a.AppConf.Http)
	shutdown()
	a.cleanup()
}
