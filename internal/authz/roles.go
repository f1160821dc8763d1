package authz

import "strings"

// Grant 角色可访问的后台接口
type Grant struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

// Role 后台角色定义
type Role struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Parents     []string `json:"parents,omitempty"`
	Grants      []Grant  `json:"grants"`
}

var roleCatalog = []Role{
	{
		Name:        "viewer",
		Description: "只读查看币种与订单",
		Grants: []Grant{
			{Method: "GET", Path: "/admin/*"},
		},
	},
	{
		Name:        "merchandiser",
		Description: "维护币种汇率",
		Parents:     []string{"viewer"},
		Grants: []Grant{
			{Method: "PUT", Path: "/admin/currencies/:code"},
		},
	},
	{
		Name:        "support",
		Description: "客服查询订单",
		Parents:     []string{"viewer"},
		Grants: []Grant{
			{Method: "GET", Path: "/admin/orders"},
		},
	},
}

// Roles 返回预置角色目录副本
func Roles() []Role {
	out := make([]Role, len(roleCatalog))
	copy(out, roleCatalog)
	return out
}

// LookupRole 按名称查找角色，大小写与首尾空白不敏感
func LookupRole(name string) (Role, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, role := range roleCatalog {
		if role.Name == key {
			return role, true
		}
	}
	return Role{}, false
}
