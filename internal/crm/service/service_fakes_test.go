package service

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-funnel/funnel/internal/crm/model"
	"github.com/go-funnel/funnel/internal/crm/repo"
	"github.com/go-funnel/funnel/pkg/id"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// 内存仓储实现，行为对齐 gorm 实现，供服务层测试使用

type fakeUserRepo struct {
	users []*model.User
}

func (f *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	f.users = append(f.users, u)
	return nil
}

func (f *fakeUserRepo) GetByUserId(_ context.Context, userId string) (*model.User, error) {
	for _, u := range f.users {
		if u.UserId == userId {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	u, _ := f.GetByEmail(ctx, email)
	return u != nil, nil
}

type fakeMemberRepo struct {
	members []*model.OrganizationMember
}

func (f *fakeMemberRepo) Add(_ context.Context, m *model.OrganizationMember) error {
	f.members = append(f.members, m)
	return nil
}

func (f *fakeMemberRepo) Get(_ context.Context, orgId, userId string) (*model.OrganizationMember, error) {
	for _, m := range f.members {
		if m.OrgId == orgId && m.UserId == userId {
			return m, nil
		}
	}
	return nil, nil
}

func (f *fakeMemberRepo) ListByOrg(_ context.Context, orgId string) ([]*model.OrganizationMember, error) {
	var out []*model.OrganizationMember
	for _, m := range f.members {
		if m.OrgId == orgId {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMemberRepo) UpdateRole(_ context.Context, orgId, userId string, role model.OrganizationRole) error {
	for _, m := range f.members {
		if m.OrgId == orgId && m.UserId == userId {
			m.Role = role
		}
	}
	return nil
}

func (f *fakeMemberRepo) Remove(_ context.Context, orgId, userId string) error {
	out := f.members[:0]
	for _, m := range f.members {
		if !(m.OrgId == orgId && m.UserId == userId) {
			out = append(out, m)
		}
	}
	f.members = out
	return nil
}

type fakeOrgRepo struct {
	orgs    []*model.Organization
	members *fakeMemberRepo
}

func (f *fakeOrgRepo) Create(_ context.Context, org *model.Organization) error {
	f.orgs = append(f.orgs, org)
	return nil
}

func (f *fakeOrgRepo) GetByOrgId(_ context.Context, orgId string) (*model.Organization, error) {
	for _, o := range f.orgs {
		if o.OrgId == orgId {
			return o, nil
		}
	}
	return nil, nil
}

func (f *fakeOrgRepo) ListByUser(ctx context.Context, userId string) ([]*model.Organization, error) {
	var out []*model.Organization
	for _, m := range f.members.members {
		if m.UserId == userId {
			if o, _ := f.GetByOrgId(ctx, m.OrgId); o != nil {
				out = append(out, o)
			}
		}
	}
	return out, nil
}

type fakeDealRepo struct {
	deals        []*model.Deal
	summaryCalls int
	funnelCalls  int
}

func (f *fakeDealRepo) Create(_ context.Context, d *model.Deal) error {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	f.deals = append(f.deals, d)
	return nil
}

func (f *fakeDealRepo) GetByDealId(_ context.Context, orgId, dealId string) (*model.Deal, error) {
	for _, d := range f.deals {
		if d.OrgId == orgId && d.DealId == dealId {
			return d, nil
		}
	}
	return nil, nil
}

func (f *fakeDealRepo) List(_ context.Context, orgId string, q *model.DealQueryReq) ([]*model.Deal, int64, error) {
	// total 只按状态口径统计，和真实仓储保持一致
	var total int64
	var out []*model.Deal
	for _, d := range f.deals {
		if d.OrgId != orgId {
			continue
		}
		if len(q.Status) > 0 {
			hit := false
			for _, st := range q.Status {
				if d.Status == st {
					hit = true
				}
			}
			if !hit {
				continue
			}
		}
		total++
		if q.Stage != "" && d.Stage != q.Stage {
			continue
		}
		if q.OwnerId != "" && d.OwnerId != q.OwnerId {
			continue
		}
		if q.MinAmount != nil && d.Amount.LessThan(*q.MinAmount) {
			continue
		}
		if q.MaxAmount != nil && d.Amount.GreaterThan(*q.MaxAmount) {
			continue
		}
		out = append(out, d)
	}
	offset, limit := q.Normalize()
	if offset >= len(out) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], total, nil
}

func (f *fakeDealRepo) Update(_ context.Context, dealId string, updates map[string]interface{}) error {
	for _, d := range f.deals {
		if d.DealId != dealId {
			continue
		}
		for k, v := range updates {
			switch k {
			case "title":
				d.Title = v.(string)
			case "amount":
				d.Amount = v.(decimal.Decimal)
			case "currency":
				d.Currency = v.(string)
			case "status":
				d.Status = v.(model.DealStatus)
			case "stage":
				d.Stage = v.(model.DealStage)
			case "contact_id":
				d.ContactId = v.(string)
			case "owner_id":
				d.OwnerId = v.(string)
			}
		}
	}
	return nil
}

func (f *fakeDealRepo) Delete(_ context.Context, dealId string) error {
	out := f.deals[:0]
	for _, d := range f.deals {
		if d.DealId != dealId {
			out = append(out, d)
		}
	}
	f.deals = out
	return nil
}

func (f *fakeDealRepo) SummaryByStatus(_ context.Context, orgId string) ([]repo.StatusSummaryRow, error) {
	f.summaryCalls++
	agg := map[model.DealStatus]*repo.StatusSummaryRow{}
	for _, d := range f.deals {
		if d.OrgId != orgId {
			continue
		}
		row, ok := agg[d.Status]
		if !ok {
			row = &repo.StatusSummaryRow{Status: d.Status}
			agg[d.Status] = row
		}
		row.Count++
		row.TotalAmount = row.TotalAmount.Add(d.Amount)
	}
	var rows []repo.StatusSummaryRow
	for _, row := range agg {
		rows = append(rows, *row)
	}
	return rows, nil
}

func (f *fakeDealRepo) AvgWonAmount(_ context.Context, orgId string) (decimal.Decimal, error) {
	sum := decimal.Zero
	var n int64
	for _, d := range f.deals {
		if d.OrgId == orgId && d.Status == model.DealStatusWon {
			sum = sum.Add(d.Amount)
			n++
		}
	}
	if n == 0 {
		return decimal.Zero, nil
	}
	return sum.Div(decimal.NewFromInt(n)), nil
}

func (f *fakeDealRepo) CountCreatedSince(_ context.Context, orgId string, since time.Time) (int64, error) {
	var n int64
	for _, d := range f.deals {
		if d.OrgId == orgId && !d.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (f *fakeDealRepo) FunnelData(_ context.Context, orgId string) ([]repo.FunnelRow, error) {
	f.funnelCalls++
	agg := map[model.DealStage]map[model.DealStatus]int64{}
	for _, d := range f.deals {
		if d.OrgId != orgId {
			continue
		}
		if agg[d.Stage] == nil {
			agg[d.Stage] = map[model.DealStatus]int64{}
		}
		agg[d.Stage][d.Status]++
	}
	var rows []repo.FunnelRow
	for stage, byStatus := range agg {
		for status, n := range byStatus {
			rows = append(rows, repo.FunnelRow{Stage: stage, Status: status, Count: n})
		}
	}
	return rows, nil
}

type fakeContactRepo struct {
	contacts []*model.Contact
	deals    *fakeDealRepo
}

func (f *fakeContactRepo) Create(_ context.Context, c *model.Contact) error {
	f.contacts = append(f.contacts, c)
	return nil
}

func (f *fakeContactRepo) GetByContactId(_ context.Context, orgId, contactId string) (*model.Contact, error) {
	for _, c := range f.contacts {
		if c.OrgId == orgId && c.ContactId == contactId {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeContactRepo) List(_ context.Context, orgId string, q *model.ContactQueryReq) ([]*model.Contact, int64, error) {
	var out []*model.Contact
	for _, c := range f.contacts {
		if c.OrgId != orgId {
			continue
		}
		if q.OwnerId != "" && c.OwnerId != q.OwnerId {
			continue
		}
		out = append(out, c)
	}
	total := int64(len(out))
	offset, limit := q.Normalize()
	if offset >= len(out) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], total, nil
}

func (f *fakeContactRepo) Update(_ context.Context, contactId string, updates map[string]interface{}) error {
	for _, c := range f.contacts {
		if c.ContactId != contactId {
			continue
		}
		for k, v := range updates {
			switch k {
			case "name":
				c.Name = v.(string)
			case "email":
				c.Email = v.(string)
			case "phone":
				c.Phone = v.(string)
			case "owner_id":
				c.OwnerId = v.(string)
			}
		}
	}
	return nil
}

func (f *fakeContactRepo) Delete(_ context.Context, contactId string) error {
	out := f.contacts[:0]
	for _, c := range f.contacts {
		if c.ContactId != contactId {
			out = append(out, c)
		}
	}
	f.contacts = out
	return nil
}

func (f *fakeContactRepo) HasDeals(_ context.Context, contactId string) (bool, error) {
	for _, d := range f.deals.deals {
		if d.ContactId == contactId {
			return true, nil
		}
	}
	return false, nil
}

type fakeTaskRepo struct {
	tasks []*model.Task
	deals *fakeDealRepo
}

func (f *fakeTaskRepo) Create(_ context.Context, t *model.Task) error {
	f.tasks = append(f.tasks, t)
	return nil
}

func (f *fakeTaskRepo) GetByTaskId(ctx context.Context, orgId, taskId string) (*model.Task, error) {
	for _, t := range f.tasks {
		if t.TaskId != taskId {
			continue
		}
		if d, _ := f.deals.GetByDealId(ctx, orgId, t.DealId); d != nil {
			return t, nil
		}
	}
	return nil, nil
}

func (f *fakeTaskRepo) List(ctx context.Context, orgId string, q *model.TaskQueryReq) ([]*model.Task, int64, error) {
	var out []*model.Task
	for _, t := range f.tasks {
		d, _ := f.deals.GetByDealId(ctx, orgId, t.DealId)
		if d == nil {
			continue
		}
		if q.DealId != "" && t.DealId != q.DealId {
			continue
		}
		if q.OwnerId != "" && d.OwnerId != q.OwnerId {
			continue
		}
		if q.OnlyOpen && t.IsDone {
			continue
		}
		if q.DueBefore != nil && (t.DueDate == nil || t.DueDate.After(*q.DueBefore)) {
			continue
		}
		if q.DueAfter != nil && (t.DueDate == nil || t.DueDate.Before(*q.DueAfter)) {
			continue
		}
		out = append(out, t)
	}
	total := int64(len(out))
	offset, limit := q.Normalize()
	if offset >= len(out) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], total, nil
}

func (f *fakeTaskRepo) Update(_ context.Context, taskId string, updates map[string]interface{}) error {
	for _, t := range f.tasks {
		if t.TaskId != taskId {
			continue
		}
		for k, v := range updates {
			switch k {
			case "title":
				t.Title = v.(string)
			case "description":
				t.Description = v.(string)
			case "due_date":
				due := v.(time.Time)
				t.DueDate = &due
			case "is_done":
				t.IsDone = v.(bool)
			}
		}
	}
	return nil
}

func (f *fakeTaskRepo) Delete(_ context.Context, taskId string) error {
	out := f.tasks[:0]
	for _, t := range f.tasks {
		if t.TaskId != taskId {
			out = append(out, t)
		}
	}
	f.tasks = out
	return nil
}

func (f *fakeTaskRepo) DeleteByDeal(_ context.Context, dealId string) error {
	out := f.tasks[:0]
	for _, t := range f.tasks {
		if t.DealId != dealId {
			out = append(out, t)
		}
	}
	f.tasks = out
	return nil
}

type fakeActivityRepo struct {
	activities []*model.Activity
}

func (f *fakeActivityRepo) Create(_ context.Context, a *model.Activity) error {
	f.activities = append(f.activities, a)
	return nil
}

func (f *fakeActivityRepo) Append(ctx context.Context, dealId string, authorId *string, typ model.ActivityType, payload interface{}) error {
	raw, err := sonic.Marshal(payload)
	if err != nil {
		return err
	}
	return f.Create(ctx, &model.Activity{
		ActivityId: id.GetUUID(),
		DealId:     dealId,
		AuthorId:   authorId,
		Type:       typ,
		Payload:    datatypes.JSON(raw),
	})
}

func (f *fakeActivityRepo) ListByDeal(_ context.Context, dealId string, page *model.PageReq) ([]*model.Activity, int64, error) {
	var out []*model.Activity
	// 倒序
	for i := len(f.activities) - 1; i >= 0; i-- {
		if f.activities[i].DealId == dealId {
			out = append(out, f.activities[i])
		}
	}
	total := int64(len(out))
	offset, limit := page.Normalize()
	if offset >= len(out) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], total, nil
}

func (f *fakeActivityRepo) DeleteByDeal(_ context.Context, dealId string) error {
	out := f.activities[:0]
	for _, a := range f.activities {
		if a.DealId != dealId {
			out = append(out, a)
		}
	}
	f.activities = out
	return nil
}

// byType 统计某商机某类型的事件数
func (f *fakeActivityRepo) byType(dealId string, typ model.ActivityType) []*model.Activity {
	var out []*model.Activity
	for _, a := range f.activities {
		if a.DealId == dealId && a.Type == typ {
			out = append(out, a)
		}
	}
	return out
}

// testEnv 服务层测试环境，内存仓储加预置的组织成员
type testEnv struct {
	users      *fakeUserRepo
	orgs       *fakeOrgRepo
	members    *fakeMemberRepo
	contacts   *fakeContactRepo
	deals      *fakeDealRepo
	tasks      *fakeTaskRepo
	activities *fakeActivityRepo
	repos      *repo.Repositories
}

func newTestEnv() *testEnv {
	members := &fakeMemberRepo{}
	deals := &fakeDealRepo{}
	env := &testEnv{
		users:      &fakeUserRepo{},
		orgs:       &fakeOrgRepo{members: members},
		members:    members,
		contacts:   &fakeContactRepo{deals: deals},
		deals:      deals,
		tasks:      &fakeTaskRepo{deals: deals},
		activities: &fakeActivityRepo{},
	}
	env.repos = &repo.Repositories{
		User:     env.users,
		Org:      env.orgs,
		Member:   env.members,
		Contact:  env.contacts,
		Deal:     env.deals,
		Task:     env.tasks,
		Activity: env.activities,
	}
	return env
}

func (e *testEnv) addMember(orgId, userId string, role model.OrganizationRole) *model.OrganizationMember {
	m := &model.OrganizationMember{OrgId: orgId, UserId: userId, Role: role}
	e.members.members = append(e.members.members, m)
	return m
}

func (e *testEnv) addContact(orgId, ownerId string) *model.Contact {
	c := &model.Contact{ContactId: id.GetUUID(), OrgId: orgId, OwnerId: ownerId, Name: "contact"}
	e.contacts.contacts = append(e.contacts.contacts, c)
	return c
}

func (e *testEnv) addDeal(orgId, ownerId string, status model.DealStatus, stage model.DealStage, amount decimal.Decimal) *model.Deal {
	d := &model.Deal{
		DealId:  id.GetUUID(),
		OrgId:   orgId,
		OwnerId: ownerId,
		Title:   "deal",
		Amount:  amount,
		Status:  status,
		Stage:   stage,
	}
	d.CreatedAt = time.Now()
	e.deals.deals = append(e.deals.deals, d)
	return d
}
