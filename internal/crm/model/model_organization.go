package model

// Organization 组织表，所有 CRM 数据的租户边界
type Organization struct {
	BaseModel
	OrgId string `gorm:"column:org_id;uniqueIndex" json:"orgId"` // 组织唯一标识
	Name  string `gorm:"column:name" json:"name"`                // 组织名称
}

func (Organization) TableName() string {
	return "t_organization"
}
