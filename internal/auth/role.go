package auth

import "fmt"

// Role 是系统内角色的封闭枚举，替代散落在各处的字符串比较。
type Role string

const (
	RoleApplicant Role = "applicant"
	RoleAdmin     Role = "admin"
)

// ParseRole 校验并返回角色。
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleApplicant, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) String() string { return string(r) }

// Valid 判断角色是否属于枚举集合。
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// CanManageJobs 判断角色是否可以创建/修改/删除岗位。
func (r Role) CanManageJobs() bool { return r == RoleAdmin }

// CanReviewApplications 判断角色是否可以查看全部申请、
// 变更状态、安排面试与添加管理员备注。
func (r Role) CanReviewApplications() bool { return r == RoleAdmin }
