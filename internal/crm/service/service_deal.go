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

	"github.com/go-funnel/funnel/internal/crm/core"
	"github.com/go-funnel/funnel/internal/crm/model"
	"github.com/go-funnel/funnel/internal/crm/repo"
	"github.com/go-funnel/funnel/pkg/id"
	"github.com/go-funnel/funnel/pkg/log"
	"github.com/shopspring/decimal"
)

// AnalyticsInvalidator 商机发生变化后失效统计缓存
type AnalyticsInvalidator interface {
	InvalidateOrganization(orgId string)
}

const defaultCurrency = "USD"

// DealService 商机生命周期管理
type DealService struct {
	repos     *repo.Repositories
	analytics AnalyticsInvalidator
}

func NewDealService(repos *repo.Repositories, analytics AnalyticsInvalidator) *DealService {
	return &DealService{repos: repos, analytics: analytics}
}

// Create 创建商机，初始状态 new、初始阶段 qualification，负责人为创建者
func (s *DealService) Create(ctx context.Context, actor *model.OrganizationMember, req *model.CreateDealReq) (*model.Deal, error) {
	if req.Amount.IsNegative() {
		return nil, core.ErrInvalidDealAmount.WithMsg("amount cannot be negative")
	}

	contact, err := s.repos.Contact.GetByContactId(ctx, actor.OrgId, req.ContactId)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, core.ErrContactNotFound
	}

	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	d := &model.Deal{
		DealId:    id.GetUUID(),
		OrgId:     actor.OrgId,
		ContactId: contact.ContactId,
		OwnerId:   actor.UserId,
		Title:     req.Title,
		Amount:    req.Amount,
		Currency:  currency,
		Status:    model.DealStatusNew,
		Stage:     model.StageQualification,
	}
	if err = s.repos.Deal.Create(ctx, d); err != nil {
		return nil, err
	}

	s.analytics.InvalidateOrganization(actor.OrgId)
	return d, nil
}

// Get 获取商机，组织隔离，不做负责人限制
func (s *DealService) Get(ctx context.Context, actor *model.OrganizationMember, dealId string) (*model.Deal, error) {
	d, err := s.repos.Deal.GetByDealId(ctx, actor.OrgId, dealId)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, core.ErrDealNotFound
	}
	return d, nil
}

// List 分页查询商机。member 角色显式传的 ownerId 过滤会被
// 静默收窄为自己，不传则看到组织内全部
func (s *DealService) List(ctx context.Context, actor *model.OrganizationMember, q *model.DealQueryReq) (*model.PageResp, error) {
	if q.OwnerId != "" && !actor.Role.CanManageAllEntities() {
		q.OwnerId = actor.UserId
	}
	deals, total, err := s.repos.Deal.List(ctx, actor.OrgId, q)
	if err != nil {
		return nil, err
	}
	return model.NewPageResp(deals, total, q.Page, q.PageSize), nil
}

// Update 更新商机。规则：
// 1. won/lost 是终态，终态商机不允许再改状态或阶段
// 2. 赢单时成交金额必须大于 0
// 3. 阶段只能前进，回退需要 owner/admin 角色
// 4. 换绑联系人必须在同组织内
// 5. member 只能更新自己名下的商机
// 状态/阶段的实际变化会追加对应的时间线事件，和更新同一事务提交
func (s *DealService) Update(ctx context.Context, actor *model.OrganizationMember, dealId string, req *model.UpdateDealReq) (*model.Deal, error) {
	d, err := s.Get(ctx, actor, dealId)
	if err != nil {
		return nil, err
	}
	if err = ensureEntityAccess(actor, d.OwnerId); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Currency != nil {
		updates["currency"] = *req.Currency
	}

	finalAmount := d.Amount
	if req.Amount != nil {
		if req.Amount.IsNegative() {
			return nil, core.ErrInvalidDealAmount.WithMsg("amount cannot be negative")
		}
		finalAmount = *req.Amount
		updates["amount"] = *req.Amount
	}

	finalStatus := d.Status
	statusChanged := false
	if req.Status != nil && *req.Status != d.Status {
		if d.Status.IsClosed() {
			return nil, core.ErrDealClosed
		}
		finalStatus = *req.Status
		statusChanged = true
		updates["status"] = *req.Status
	}
	if finalStatus == model.DealStatusWon && !finalAmount.GreaterThan(decimal.Zero) {
		return nil, core.ErrInvalidDealAmount
	}

	stageChanged := false
	if req.Stage != nil && *req.Stage != d.Stage {
		if d.Status.IsClosed() && !statusChanged {
			return nil, core.ErrDealClosed
		}
		if model.IsBackwardTransition(d.Stage, *req.Stage) && !actor.Role.CanRollbackStage() {
			return nil, core.ErrInvalidStageTransition
		}
		stageChanged = true
		updates["stage"] = *req.Stage
	}

	if req.ContactId != nil && *req.ContactId != d.ContactId {
		contact, err := s.repos.Contact.GetByContactId(ctx, actor.OrgId, *req.ContactId)
		if err != nil {
			return nil, err
		}
		if contact == nil {
			return nil, core.ErrCrossOrganization
		}
		updates["contact_id"] = *req.ContactId
	}
	if req.OwnerId != nil && *req.OwnerId != d.OwnerId {
		m, err := s.repos.Member.Get(ctx, actor.OrgId, *req.OwnerId)
		if err != nil {
			return nil, err
		}
		if m == nil {
			return nil, core.ErrUserNotFound.WithMsg("new owner is not a member of this organization")
		}
		updates["owner_id"] = *req.OwnerId
	}

	if len(updates) == 0 {
		return d, nil
	}

	authorId := actor.UserId
	err = s.repos.InTx(ctx, func(tx *repo.Repositories) error {
		if statusChanged {
			payload := model.StatusChangedPayload{OldStatus: string(d.Status), NewStatus: string(finalStatus)}
			if err := tx.Activity.Append(ctx, d.DealId, &authorId, model.ActivityStatusChanged, payload); err != nil {
				return err
			}
		}
		if stageChanged {
			payload := model.StageChangedPayload{OldStage: string(d.Stage), NewStage: string(*req.Stage)}
			if err := tx.Activity.Append(ctx, d.DealId, &authorId, model.ActivityStageChanged, payload); err != nil {
				return err
			}
		}
		return tx.Deal.Update(ctx, d.DealId, updates)
	})
	if err != nil {
		return nil, err
	}

	s.analytics.InvalidateOrganization(actor.OrgId)
	log.Infow("deal updated", "orgId", actor.OrgId, "dealId", dealId, "fields", len(updates))
	return s.repos.Deal.GetByDealId(ctx, actor.OrgId, dealId)
}

// Delete 删除商机及其任务和时间线，member 只能删自己名下的
func (s *DealService) Delete(ctx context.Context, actor *model.OrganizationMember, dealId string) error {
	d, err := s.Get(ctx, actor, dealId)
	if err != nil {
		return err
	}
	if err = ensureEntityAccess(actor, d.OwnerId); err != nil {
		return err
	}

	err = s.repos.InTx(ctx, func(tx *repo.Repositories) error {
		if err := tx.Task.DeleteByDeal(ctx, d.DealId); err != nil {
			return err
		}
		if err := tx.Activity.DeleteByDeal(ctx, d.DealId); err != nil {
			return err
		}
		return tx.Deal.Delete(ctx, d.DealId)
	})
	if err != nil {
		return err
	}

	s.analytics.InvalidateOrganization(actor.OrgId)
	log.Infow("deal deleted", "orgId", actor.OrgId, "dealId", dealId)
	return nil
}

// AddComment 在商机时间线上追加评论，组织内任何成员都可以评论任何商机
func (s *DealService) AddComment(ctx context.Context, actor *model.OrganizationMember, dealId string, req *model.AddCommentReq) error {
	d, err := s.Get(ctx, actor, dealId)
	if err != nil {
		return err
	}
	authorId := actor.UserId
	return s.repos.Activity.Append(ctx, d.DealId, &authorId, model.ActivityComment, model.CommentPayload{Text: req.Text})
}

// ListActivities 按时间倒序分页查询商机时间线
func (s *DealService) ListActivities(ctx context.Context, actor *model.OrganizationMember, dealId string, page *model.PageReq) (*model.PageResp, error) {
	d, err := s.Get(ctx, actor, dealId)
	if err != nil {
		return nil, err
	}
	activities, total, err := s.repos.Activity.ListByDeal(ctx, d.DealId, page)
	if err != nil {
		return nil, err
	}
	return model.NewPageResp(activities, total, page.Page, page.PageSize), nil
}
