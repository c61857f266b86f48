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

package model

import "gorm.io/datatypes"

// ActivityType 商机时间线事件类型
type ActivityType string

const (
	ActivityComment       ActivityType = "comment"
	ActivityStatusChanged ActivityType = "status_changed"
	ActivityStageChanged  ActivityType = "stage_changed"
	ActivityTaskCreated   ActivityType = "task_created"
	ActivityTaskCompleted ActivityType = "task_completed"
	ActivitySystem        ActivityType = "system"
)

// Activity 商机时间线，append-only，从不更新或删除
type Activity struct {
	BaseModel
	ActivityId string         `gorm:"column:activity_id;uniqueIndex" json:"activityId"` // 事件唯一标识
	DealId     string         `gorm:"column:deal_id;index" json:"dealId"`               // 所属商机
	AuthorId   *string        `gorm:"column:author_id" json:"authorId"`                 // 操作人，系统事件为空
	Type       ActivityType   `gorm:"column:type" json:"type"`                          // 事件类型
	Payload    datatypes.JSON `gorm:"column:payload;type:json" json:"payload"`          // 按类型约定的载荷
}

func (Activity) TableName() string {
	return "t_activity"
}

// 各事件类型的载荷结构

type StatusChangedPayload struct {
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

type StageChangedPayload struct {
	OldStage string `json:"old_stage"`
	NewStage string `json:"new_stage"`
}

type TaskPayload struct {
	TaskTitle string `json:"task_title"`
}

type CommentPayload struct {
	Text string `json:"text"`
}

// AddCommentReq 添加评论请求
type AddCommentReq struct {
	Text string `json:"text" validate:"required"`
}
