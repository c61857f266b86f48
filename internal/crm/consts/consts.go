package consts

const (
	// TokenKeyPrefix Redis 中 access token 的 key 前缀
	TokenKeyPrefix = "crm:token:"

	// MembershipKey fiber locals 中当前组织成员身份的 key
	MembershipKey = "membership"
)
