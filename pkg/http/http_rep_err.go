package http

import (
	"github.com/gofiber/fiber/v2"
)

type ResponseErr struct {
	ErrCode int    `json:"code"`
	BizCode string `json:"errCode,omitempty"`
	ErrMsg  any    `json:"errMsg"`
	Path    string `json:"path,omitempty"`
}

// WithRepErr 返回操作结果，返回结构体有path字段
func WithRepErr(c *fiber.Ctx, code int, errMsg string, path string) error {
	return c.JSON(ResponseErr{
		ErrCode: code,
		ErrMsg:  errMsg,
		Path:    path,
	})
}

// WithRepErrMsg 只返回json数据
func WithRepErrMsg(c *fiber.Ctx, code int, errMsg string, path string) error {
	return c.JSON(ResponseErr{
		ErrCode: code,
		ErrMsg:  errMsg,
		Path:    path,
	})
}

// WithRepBizErr 返回带业务错误码的错误，并设置对应的 http 状态码
func WithRepBizErr(c *fiber.Ctx, status, code int, bizCode, errMsg, path string) error {
	return c.Status(status).JSON(ResponseErr{
		ErrCode: code,
		BizCode: bizCode,
		ErrMsg:  errMsg,
		Path:    path,
	})
}
