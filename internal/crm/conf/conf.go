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

package conf

import (
	"fmt"
	"sync"

	"github.com/go-funnel/funnel/pkg/cache"
	pkgconf "github.com/go-funnel/funnel/pkg/conf"
	"github.com/go-funnel/funnel/pkg/database"
	"github.com/go-funnel/funnel/pkg/http"
	"github.com/go-funnel/funnel/pkg/log"
)

type AppConfig struct {
	Log       log.Conf
	Http      http.Http
	Database  database.Database
	Redis     cache.Redis
	Analytics Analytics
}

// Analytics 统计缓存配置
type Analytics struct {
	CacheTTL int // 秒，<= 0 时取 60
}

var (
	cfg  AppConfig
	once sync.Once
)

// NewConf 加载配置文件，仅首次调用生效
func NewConf(confFile string) AppConfig {
	once.Do(func() {
		if err := pkgconf.LoadConfigFile(confFile, &cfg); err != nil {
			panic(fmt.Sprintf("load conf file error: %s", err))
		}
	})
	return cfg
}
