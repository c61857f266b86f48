package repo

import (
	"context"
	"errors"

	"github.com/go-funnel/funnel/internal/crm/model"
	"github.com/go-funnel/funnel/pkg/database"
	"gorm.io/gorm"
)

type ITaskRepository interface {
	Create(ctx context.Context, t *model.Task) error
	GetByTaskId(ctx context.Context, orgId, taskId string) (*model.Task, error)
	List(ctx context.Context, orgId string, q *model.TaskQueryReq) ([]*model.Task, int64, error)
	Update(ctx context.Context, taskId string, updates map[string]interface{}) error
	Delete(ctx context.Context, taskId string) error
	DeleteByDeal(ctx context.Context, dealId string) error
}

type TaskRepo struct {
	database.IDatabase
}

func NewTaskRepo(db database.IDatabase) ITaskRepository {
	return &TaskRepo{IDatabase: db}
}

// Create 创建任务
func (r *TaskRepo) Create(ctx context.Context, t *model.Task) error {
	return r.Database().WithContext(ctx).Create(t).Error
}

// GetByTaskId 在组织范围内获取任务，通过所属商机限定组织，不存在返回 nil
func (r *TaskRepo) GetByTaskId(ctx context.Context, orgId, taskId string) (*model.Task, error) {
	var t model.Task
	err := r.Database().WithContext(ctx).Model(&model.Task{}).
		Joins("JOIN t_deal d ON d.deal_id = t_task.deal_id").
		Where("d.org_id = ? AND t_task.task_id = ?", orgId, taskId).
		First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// List 分页查询组织内任务，支持按商机、未完成、截至区间过滤
func (r *TaskRepo) List(ctx context.Context, orgId string, q *model.TaskQueryReq) ([]*model.Task, int64, error) {
	tx := r.Database().WithContext(ctx).Model(&model.Task{}).
		Joins("JOIN t_deal d ON d.deal_id = t_task.deal_id").
		Where("d.org_id = ?", orgId)
	if q.DealId != "" {
		tx = tx.Where("t_task.deal_id = ?", q.DealId)
	}
	if q.OwnerId != "" {
		tx = tx.Where("d.owner_id = ?", q.OwnerId)
	}
	if q.OnlyOpen {
		tx = tx.Where("t_task.is_done = ?", false)
	}
	if q.DueBefore != nil {
		tx = tx.Where("t_task.due_date <= ?", q.DueBefore)
	}
	if q.DueAfter != nil {
		tx = tx.Where("t_task.due_date >= ?", q.DueAfter)
	}

	total, err := count(tx)
	if err != nil {
		return nil, 0, err
	}

	offset, limit := q.Normalize()
	var tasks []*model.Task
	err = tx.Order("t_task.created_at DESC").Offset(offset).Limit(limit).Find(&tasks).Error
	if err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// Update 按字段更新任务
func (r *TaskRepo) Update(ctx context.Context, taskId string, updates map[string]interface{}) error {
	return r.Database().WithContext(ctx).Model(&model.Task{}).
		Where("task_id = ?", taskId).Updates(updates).Error
}

// Delete 删除任务
func (r *TaskRepo) Delete(ctx context.Context, taskId string) error {
	return r.Database().WithContext(ctx).
		Where("task_id = ?", taskId).Delete(&model.Task{}).Error
}

// DeleteByDeal 删除商机下全部任务
func (r *TaskRepo) DeleteByDeal(ctx context.Context, dealId string) error {
	return r.Database().WithContext(ctx).
		Where("deal_id = ?", dealId).Delete(&model.Task{}).Error
}
