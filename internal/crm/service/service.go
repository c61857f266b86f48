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

package service

import (
	"github.com/go-funnel/funnel/internal/crm/repo"
	"github.com/go-funnel/funnel/pkg/cache"
	"github.com/go-funnel/funnel/pkg/http"
)

// Services 统一管理所有 service
type Services struct {
	Auth      *AuthService
	Org       *OrganizationService
	Contact   *ContactService
	Deal      *DealService
	Task      *TaskService
	Analytics *AnalyticsService
}

// NewServices 初始化所有 service
func NewServices(repos *repo.Repositories, redis cache.ICache, auth *http.Auth, opts AnalyticsOptions) *Services {
	analytics := NewAnalyticsService(repos.Deal, opts)
	return &Services{
		Auth:      NewAuthService(repos, redis, auth),
		Org:       NewOrganizationService(repos.Org, repos.Member, repos.User),
		Contact:   NewContactService(repos.Contact, repos.Member),
		Deal:      NewDealService(repos, analytics),
		Task:      NewTaskService(repos),
		Analytics: analytics,
	}
}
