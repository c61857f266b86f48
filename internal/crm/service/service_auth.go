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
	"context"
	"time"

	"github.com/go-funnel/funnel/internal/crm/consts"
	"github.com/go-funnel/funnel/internal/crm/core"
	"github.com/go-funnel/funnel/internal/crm/model"
	"github.com/go-funnel/funnel/internal/crm/repo"
	"github.com/go-funnel/funnel/pkg/cache"
	"github.com/go-funnel/funnel/pkg/http"
	"github.com/go-funnel/funnel/pkg/http/auth/jwt"
	"github.com/go-funnel/funnel/pkg/id"
	"github.com/go-funnel/funnel/pkg/log"
	"golang.org/x/crypto/bcrypt"
)

// AuthService 注册、登录、令牌刷新
type AuthService struct {
	repos *repo.Repositories
	redis cache.ICache
	auth  *http.Auth
}

func NewAuthService(repos *repo.Repositories, redis cache.ICache, auth *http.Auth) *AuthService {
	return &AuthService{repos: repos, redis: redis, auth: auth}
}

func (s *AuthService) tokenKey(userId string) string {
	prefix := s.auth.RedisKeyPrefix
	if prefix == "" {
		prefix = consts.TokenKeyPrefix
	}
	return prefix + userId
}

// issueToken 签发令牌对并把 access token 登记到 redis，
// 登记失效即视为登出
func (s *AuthService) issueToken(ctx context.Context, userId string) (map[string]string, error) {
	accessExpire := time.Duration(s.auth.AccessExpire) * time.Minute
	refreshExpire := time.Duration(s.auth.RefreshExpire) * time.Minute

	aToken, rToken, err := jwt.GenToken(userId, []byte(s.auth.SecretKey), accessExpire, refreshExpire)
	if err != nil {
		return nil, err
	}
	if err = s.redis.Set(ctx, s.tokenKey(userId), aToken, accessExpire).Err(); err != nil {
		return nil, err
	}
	return map[string]string{
		"accessToken":  aToken,
		"refreshToken": rToken,
	}, nil
}

// Register 注册用户，并为其创建初始组织，注册人即组织 owner
func (s *AuthService) Register(ctx context.Context, req *model.RegisterReq) (*model.AuthResp, error) {
	exists, err := s.repos.User.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, core.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		UserId:   id.GetUUID(),
		Email:    req.Email,
		Name:     req.Name,
		Password: string(hash),
	}
	org := &model.Organization{
		OrgId: id.GetUUID(),
		Name:  req.OrganizationName,
	}

	// 用户、组织、成员资格一个事务内落库
	err = s.repos.InTx(ctx, func(tx *repo.Repositories) error {
		if err := tx.User.Create(ctx, user); err != nil {
			return err
		}
		if err := tx.Org.Create(ctx, org); err != nil {
			return err
		}
		return tx.Member.Add(ctx, &model.OrganizationMember{
			OrgId:  org.OrgId,
			UserId: user.UserId,
			Role:   model.RoleOwner,
		})
	})
	if err != nil {
		return nil, err
	}

	token, err := s.issueToken(ctx, user.UserId)
	if err != nil {
		return nil, err
	}
	log.Infow("user registered", "userId", user.UserId, "orgId", org.OrgId)

	return &model.AuthResp{
		UserInfo:     model.ToUserInfo(user),
		Organization: org,
		Token:        token,
	}, nil
}

// Login 邮箱密码登录。用户不存在与密码错误返回同一个错误，不泄露账号是否存在
func (s *AuthService) Login(ctx context.Context, req *model.LoginReq) (*model.AuthResp, error) {
	user, err := s.repos.User.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, core.ErrInvalidCredentials
	}
	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, core.ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, user.UserId)
	if err != nil {
		return nil, err
	}

	return &model.AuthResp{
		UserInfo: model.ToUserInfo(user),
		Token:    token,
	}, nil
}

// Refresh 用 refresh token 换发新令牌对
func (s *AuthService) Refresh(ctx context.Context, req *model.RefreshReq) (*model.AuthResp, error) {
	userId, token, err := jwt.RefreshToken(s.auth, req.RefreshToken)
	if err != nil {
		return nil, core.ErrInvalidToken
	}

	user, err := s.repos.User.GetByUserId(ctx, userId)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, core.ErrInvalidToken
	}

	accessExpire := time.Duration(s.auth.AccessExpire) * time.Minute
	if err = s.redis.Set(ctx, s.tokenKey(userId), token["accessToken"], accessExpire).Err(); err != nil {
		return nil, err
	}

	return &model.AuthResp{
		UserInfo: model.ToUserInfo(user),
		Token:    token,
	}, nil
}

// Logout 注销 access token 的 redis 登记，令中间件校验失败
func (s *AuthService) Logout(ctx context.Context, userId string) error {
	return s.redis.Del(ctx, s.tokenKey(userId)).Err()
}
