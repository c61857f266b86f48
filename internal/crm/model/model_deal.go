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

import "github.com/shopspring/decimal"

// DealStatus 商机状态
type DealStatus string

const (
	DealStatusNew        DealStatus = "new"
	DealStatusInProgress DealStatus = "in_progress"
	DealStatusWon        DealStatus = "won"
	DealStatusLost       DealStatus = "lost"
)

// AllDealStatuses 全部状态，按固定顺序
var AllDealStatuses = []DealStatus{DealStatusNew, DealStatusInProgress, DealStatusWon, DealStatusLost}

// Valid 校验状态取值
func (s DealStatus) Valid() bool {
	switch s {
	case DealStatusNew, DealStatusInProgress, DealStatusWon, DealStatusLost:
		return true
	}
	return false
}

// IsClosed 是否为终态
func (s DealStatus) IsClosed() bool {
	return s == DealStatusWon || s == DealStatusLost
}

// DealStage 商机阶段（按 Rank 整数全序）
type DealStage string

const (
	StageQualification DealStage = "qualification"
	StageProposal      DealStage = "proposal"
	StageNegotiation   DealStage = "negotiation"
	StageClosed        DealStage = "closed"
)

// AllDealStages 全部阶段，按 rank 升序
var AllDealStages = []DealStage{StageQualification, StageProposal, StageNegotiation, StageClosed}

// Rank 阶段序号，qualification(1) < proposal(2) < negotiation(3) < closed(4)
func (s DealStage) Rank() int {
	switch s {
	case StageQualification:
		return 1
	case StageProposal:
		return 2
	case StageNegotiation:
		return 3
	case StageClosed:
		return 4
	}
	return 0
}

// Valid 校验阶段取值
func (s DealStage) Valid() bool {
	return s.Rank() > 0
}

// IsBackwardTransition 目标阶段 rank 严格小于当前阶段即为回退
func IsBackwardTransition(from, to DealStage) bool {
	return to.Rank() < from.Rank()
}

// Deal 商机表
type Deal struct {
	BaseModel
	DealId    string          `gorm:"column:deal_id;uniqueIndex" json:"dealId"`        // 商机唯一标识
	OrgId     string          `gorm:"column:org_id;index" json:"orgId"`                // 组织ID
	ContactId string          `gorm:"column:contact_id;index" json:"contactId"`        // 关联联系人(同组织)
	OwnerId   string          `gorm:"column:owner_id;index" json:"ownerId"`            // 负责人用户ID
	Title     string          `gorm:"column:title" json:"title"`                       // 标题
	Amount    decimal.Decimal `gorm:"column:amount;type:decimal(15,2)" json:"amount"`  // 金额(非负)
	Currency  string          `gorm:"column:currency;size:3" json:"currency"`          // 货币代码
	Status    DealStatus      `gorm:"column:status;index" json:"status"`               // 状态
	Stage     DealStage       `gorm:"column:stage;index" json:"stage"`                 // 阶段
}

func (Deal) TableName() string {
	return "t_deal"
}

// CreateDealReq 创建商机请求。status/stage 由服务端初始化，请求中不可指定
type CreateDealReq struct {
	ContactId string          `json:"contactId" validate:"required"`
	Title     string          `json:"title" validate:"required"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency" validate:"omitempty,len=3"`
}

// UpdateDealReq 更新商机请求，nil 表示该字段不更新
type UpdateDealReq struct {
	Title     *string          `json:"title"`
	Amount    *decimal.Decimal `json:"amount"`
	Currency  *string          `json:"currency" validate:"omitempty,len=3"`
	Status    *DealStatus      `json:"status" validate:"omitempty,oneof=new in_progress won lost"`
	Stage     *DealStage       `json:"stage" validate:"omitempty,oneof=qualification proposal negotiation closed"`
	ContactId *string          `json:"contactId"`
	OwnerId   *string          `json:"ownerId"`
}

// DealQueryReq 商机列表查询
type DealQueryReq struct {
	PageReq
	Status    []DealStatus     `query:"status"`    // 状态集合过滤
	Stage     DealStage        `query:"stage"`     // 阶段过滤
	OwnerId   string           `query:"ownerId"`   // 负责人过滤
	MinAmount *decimal.Decimal `query:"minAmount"` // 金额下限
	MaxAmount *decimal.Decimal `query:"maxAmount"` // 金额上限
	OrderBy   string           `query:"orderBy"`   // 排序字段
	Order     string           `query:"order"`     // asc / desc
}
