package model

// Contact 联系人表，归属于一个组织和一个负责人
type Contact struct {
	BaseModel
	ContactId string `gorm:"column:contact_id;uniqueIndex" json:"contactId"` // 联系人唯一标识
	OrgId     string `gorm:"column:org_id;index" json:"orgId"`               // 组织ID
	OwnerId   string `gorm:"column:owner_id;index" json:"ownerId"`           // 负责人用户ID
	Name      string `gorm:"column:name" json:"name"`                        // 姓名
	Email     string `gorm:"column:email" json:"email"`                      // 邮箱
	Phone     string `gorm:"column:phone" json:"phone"`                      // 电话
}

func (Contact) TableName() string {
	return "t_contact"
}

// CreateContactReq 创建联系人请求
type CreateContactReq struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone"`
}

// UpdateContactReq 更新联系人请求，nil 表示该字段不更新
type UpdateContactReq struct {
	Name    *string `json:"name"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone"`
	OwnerId *string `json:"ownerId"`
}

// ContactQueryReq 联系人列表查询
type ContactQueryReq struct {
	PageReq
	Search  string `query:"search"`  // 按姓名或邮箱模糊匹配
	OwnerId string `query:"ownerId"` // 负责人过滤
}
