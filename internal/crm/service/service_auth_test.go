package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-funnel/funnel/internal/crm/core"
	"github.com/go-funnel/funnel/internal/crm/model"
	"github.com/go-funnel/funnel/pkg/http"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTokenCache 只实现认证流程用到的部分
type fakeTokenCache struct {
	data map[string]string
}

func newFakeTokenCache() *fakeTokenCache {
	return &fakeTokenCache{data: map[string]string{}}
}

func (f *fakeTokenCache) Get(_ context.Context, key string) *redis.StringCmd {
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeTokenCache) Set(_ context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	f.data[key] = value.(string)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeTokenCache) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeTokenCache) Exists(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeTokenCache) TTL(_ context.Context, _ string) *redis.DurationCmd {
	return redis.NewDurationResult(time.Minute, nil)
}

func (f *fakeTokenCache) Expire(_ context.Context, _ string, _ time.Duration) *redis.BoolCmd {
	return redis.NewBoolResult(true, nil)
}

func newAuthService(env *testEnv) (*AuthService, *fakeTokenCache) {
	tokens := newFakeTokenCache()
	auth := &http.Auth{
		SecretKey:     "test-secret",
		AccessExpire:  30,
		RefreshExpire: 1440,
	}
	return NewAuthService(env.repos, tokens, auth), tokens
}

func TestRegisterCreatesOwnerMembership(t *testing.T) {
	env := newTestEnv()
	svc, tokens := newAuthService(env)

	resp, err := svc.Register(context.Background(), &model.RegisterReq{
		Email:            "ada@example.com",
		Password:         "supersecret",
		Name:             "Ada",
		OrganizationName: "Acme",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Organization)
	assert.Equal(t, "Acme", resp.Organization.Name)
	assert.NotEmpty(t, resp.Token["accessToken"])
	assert.NotEmpty(t, resp.Token["refreshToken"])

	m, err := env.members.Get(context.Background(), resp.Organization.OrgId, resp.UserInfo.UserId)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, model.RoleOwner, m.Role)

	// access token 已登记到缓存
	assert.Len(t, tokens.data, 1)

	// 密码不以明文存储
	u, _ := env.users.GetByEmail(context.Background(), "ada@example.com")
	assert.NotEqual(t, "supersecret", u.Password)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv()
	svc, _ := newAuthService(env)

	req := &model.RegisterReq{Email: "a@example.com", Password: "supersecret", Name: "A", OrganizationName: "Org"}
	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, core.ErrEmailAlreadyExists)
}

func TestLogin(t *testing.T) {
	env := newTestEnv()
	svc, _ := newAuthService(env)
	_, err := svc.Register(context.Background(), &model.RegisterReq{
		Email: "a@example.com", Password: "supersecret", Name: "A", OrganizationName: "Org",
	})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), &model.LoginReq{Email: "a@example.com", Password: "supersecret"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token["accessToken"])

	// 密码错误和账号不存在返回同一个错误
	_, err = svc.Login(context.Background(), &model.LoginReq{Email: "a@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, core.ErrInvalidCredentials)
	_, err = svc.Login(context.Background(), &model.LoginReq{Email: "ghost@example.com", Password: "supersecret"})
	assert.ErrorIs(t, err, core.ErrInvalidCredentials)
}

func TestRefresh(t *testing.T) {
	env := newTestEnv()
	svc, _ := newAuthService(env)
	reg, err := svc.Register(context.Background(), &model.RegisterReq{
		Email: "a@example.com", Password: "supersecret", Name: "A", OrganizationName: "Org",
	})
	require.NoError(t, err)

	resp, err := svc.Refresh(context.Background(), &model.RefreshReq{RefreshToken: reg.Token["refreshToken"]})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token["accessToken"])

	// access token 不能当 refresh token 用
	_, err = svc.Refresh(context.Background(), &model.RefreshReq{RefreshToken: reg.Token["accessToken"]})
	assert.ErrorIs(t, err, core.ErrInvalidToken)

	_, err = svc.Refresh(context.Background(), &model.RefreshReq{RefreshToken: "garbage"})
	assert.ErrorIs(t, err, core.ErrInvalidToken)
}

func TestLogout(t *testing.T) {
	env := newTestEnv()
	svc, tokens := newAuthService(env)
	reg, err := svc.Register(context.Background(), &model.RegisterReq{
		Email: "a@example.com", Password: "supersecret", Name: "A", OrganizationName: "Org",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), reg.UserInfo.UserId))
	assert.Empty(t, tokens.data)
}
