package model

import "time"

// Task 任务表，通过所属商机归属组织
type Task struct {
	BaseModel
	TaskId      string     `gorm:"column:task_id;uniqueIndex" json:"taskId"`  // 任务唯一标识
	DealId      string     `gorm:"column:deal_id;index" json:"dealId"`        // 所属商机
	Title       string     `gorm:"column:title" json:"title"`                 // 标题
	Description string     `gorm:"column:description" json:"description"`     // 描述
	DueDate     *time.Time `gorm:"column:due_date;type:date" json:"dueDate"`  // 截止日期，可空
	IsDone      bool       `gorm:"column:is_done" json:"isDone"`              // 是否完成
}

func (Task) TableName() string {
	return "t_task"
}

// CreateTaskReq 创建任务请求
type CreateTaskReq struct {
	DealId      string     `json:"dealId" validate:"required"`
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
}

// UpdateTaskReq 更新任务请求，nil 表示该字段不更新
type UpdateTaskReq struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	IsDone      *bool      `json:"isDone"`
}

// TaskQueryReq 任务列表查询
type TaskQueryReq struct {
	PageReq
	DealId    string     `query:"dealId"`    // 按商机过滤
	OwnerId   string     `query:"ownerId"`   // 按所属商机的负责人过滤
	OnlyOpen  bool       `query:"onlyOpen"`  // 仅未完成
	DueBefore *time.Time `query:"dueBefore"` // 截止日期上限
	DueAfter  *time.Time `query:"dueAfter"`  // 截止日期下限
}
