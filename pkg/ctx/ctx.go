package ctx

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Context 全局上下文，持有进程级共享资源
type Context struct {
	Ctx   context.Context
	DB    *gorm.DB
	Redis *redis.Client
	Log   *zap.SugaredLogger
}

func NewContext(ctx context.Context, db *gorm.DB, rds *redis.Client, log *zap.SugaredLogger) *Context {
	return &Context{
		Ctx:   ctx,
		DB:    db,
		Redis: rds,
		Log:   log,
	}
}

func (c *Context) GetCtx() context.Context {
	return c.Ctx
}

func (c *Context) GetDB() *gorm.DB {
	return c.DB
}

func (c *Context) GetRedis() *redis.Client {
	return c.Redis
}
