package model

// PageReq 分页请求参数
type PageReq struct {
	Page     int `query:"page" json:"page"`
	PageSize int `query:"pageSize" json:"pageSize"`
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Normalize 约束 page >= 1，pageSize 在 [1, 100]，返回 offset 和 limit
func (p *PageReq) Normalize() (offset, limit int) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
	return (p.Page - 1) * p.PageSize, p.PageSize
}

// PageResp 分页响应
type PageResp struct {
	Items      any   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int64 `json:"totalPages"`
}

// NewPageResp 构造分页响应，totalPages = ceil(total / pageSize)
func NewPageResp(items any, total int64, page, pageSize int) *PageResp {
	totalPages := int64(0)
	if pageSize > 0 {
		totalPages = (total + int64(pageSize) - 1) / int64(pageSize)
	}
	return &PageResp{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
