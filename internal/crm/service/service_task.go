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

	"github.com/go-funnel/funnel/internal/crm/core"
	"github.com/go-funnel/funnel/internal/crm/model"
	"github.com/go-funnel/funnel/internal/crm/repo"
	"github.com/go-funnel/funnel/pkg/id"
)

// TaskService 任务管理，任务通过所属商机做组织隔离和权限判定
type TaskService struct {
	repos *repo.Repositories

	// now 可注入，便于测试截止日期校验
	now func() time.Time
}

func NewTaskService(repos *repo.Repositories) *TaskService {
	return &TaskService{repos: repos, now: time.Now}
}

// validateDueDate 截止日期不能早于今天，按 UTC 日期粒度比较
func (s *TaskService) validateDueDate(due *time.Time) error {
	if due == nil {
		return nil
	}
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	d := due.UTC()
	dueDay := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	if dueDay.Before(today) {
		return core.ErrInvalidDueDate
	}
	return nil
}

// requireDeal 获取任务所属商机，组织外一律 NotFound
func (s *TaskService) requireDeal(ctx context.Context, actor *model.OrganizationMember, dealId string) (*model.Deal, error) {
	d, err := s.repos.Deal.GetByDealId(ctx, actor.OrgId, dealId)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, core.ErrDealNotFound
	}
	return d, nil
}

// Create 创建任务并在商机时间线追加 task_created 事件。
// member 只能在自己名下的商机上建任务
func (s *TaskService) Create(ctx context.Context, actor *model.OrganizationMember, req *model.CreateTaskReq) (*model.Task, error) {
	d, err := s.requireDeal(ctx, actor, req.DealId)
	if err != nil {
		return nil, err
	}
	if err = ensureEntityAccess(actor, d.OwnerId); err != nil {
		return nil, err
	}
	if err = s.validateDueDate(req.DueDate); err != nil {
		return nil, err
	}

	t := &model.Task{
		TaskId:      id.GetUUID(),
		DealId:      d.DealId,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}

	authorId := actor.UserId
	err = s.repos.InTx(ctx, func(tx *repo.Repositories) error {
		if err := tx.Task.Create(ctx, t); err != nil {
			return err
		}
		return tx.Activity.Append(ctx, d.DealId, &authorId, model.ActivityTaskCreated, model.TaskPayload{TaskTitle: t.Title})
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Get 获取任务，通过所属商机做组织隔离，不做负责人限制
func (s *TaskService) Get(ctx context.Context, actor *model.OrganizationMember, taskId string) (*model.Task, error) {
	t, err := s.repos.Task.GetByTaskId(ctx, actor.OrgId, taskId)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, core.ErrTaskNotFound
	}
	return t, nil
}

// List 分页查询组织内任务
func (s *TaskService) List(ctx context.Context, actor *model.OrganizationMember, q *model.TaskQueryReq) (*model.PageResp, error) {
	if q.DealId != "" {
		if _, err := s.requireDeal(ctx, actor, q.DealId); err != nil {
			return nil, err
		}
	}
	tasks, total, err := s.repos.Task.List(ctx, actor.OrgId, q)
	if err != nil {
		return nil, err
	}
	return model.NewPageResp(tasks, total, q.Page, q.PageSize), nil
}

// Update 更新任务，按所属商机的负责人做写权限判定。
// 首次从未完成置为完成时追加 task_completed 事件，重复置为完成不再追加
func (s *TaskService) Update(ctx context.Context, actor *model.OrganizationMember, taskId string, req *model.UpdateTaskReq) (*model.Task, error) {
	t, err := s.Get(ctx, actor, taskId)
	if err != nil {
		return nil, err
	}
	d, err := s.requireDeal(ctx, actor, t.DealId)
	if err != nil {
		return nil, err
	}
	if err = ensureEntityAccess(actor, d.OwnerId); err != nil {
		return nil, err
	}
	if err = s.validateDueDate(req.DueDate); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.DueDate != nil {
		updates["due_date"] = *req.DueDate
	}
	completed := false
	if req.IsDone != nil && *req.IsDone != t.IsDone {
		completed = *req.IsDone && !t.IsDone
		updates["is_done"] = *req.IsDone
	}
	if len(updates) == 0 {
		return t, nil
	}

	title := t.Title
	if req.Title != nil {
		title = *req.Title
	}
	authorId := actor.UserId
	err = s.repos.InTx(ctx, func(tx *repo.Repositories) error {
		if completed {
			if err := tx.Activity.Append(ctx, t.DealId, &authorId, model.ActivityTaskCompleted, model.TaskPayload{TaskTitle: title}); err != nil {
				return err
			}
		}
		return tx.Task.Update(ctx, t.TaskId, updates)
	})
	if err != nil {
		return nil, err
	}
	return s.repos.Task.GetByTaskId(ctx, actor.OrgId, taskId)
}

// Delete 删除任务，写权限规则同 Update
func (s *TaskService) Delete(ctx context.Context, actor *model.OrganizationMember, taskId string) error {
	t, err := s.Get(ctx, actor, taskId)
	if err != nil {
		return err
	}
	d, err := s.requireDeal(ctx, actor, t.DealId)
	if err != nil {
		return err
	}
	if err = ensureEntityAccess(actor, d.OwnerId); err != nil {
		return err
	}
	return s.repos.Task.Delete(ctx, t.TaskId)
}
