package authz

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aurelia-jewels/storefront/internal/logger"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/casbin/casbin/v3/util"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

const (
	ruleTable   = "casbin_rule"
	routePrefix = "/api/v1"
	adminPrefix = "admin:"
	rolePrefix  = "role:"
)

// ErrUnknownRole 角色不在预置目录中
var ErrUnknownRole = errors.New("unknown role")

var errNotReady = errors.New("authz not initialized")

const adminModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && r.act == p.act
`

// Service 后台角色授权，角色关系与策略存放在 casbin_rule 表
type Service struct {
	enforcer *casbin.SyncedEnforcer
}

// NewService 创建授权服务并加载已持久化的策略
func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, errors.New("authz: nil db")
	}
	adapter, err := gormadapter.NewAdapterByDBUseTableName(db, "", ruleTable)
	if err != nil {
		return nil, fmt.Errorf("authz adapter: %w", err)
	}
	m, err := model.NewModelFromString(adminModel)
	if err != nil {
		return nil, fmt.Errorf("authz model: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("authz enforcer: %w", err)
	}
	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)
	enforcer.EnableAutoSave(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("authz load policy: %w", err)
	}
	return &Service{enforcer: enforcer}, nil
}

// BootstrapBuiltinRoles 把角色目录同步到策略表，重复执行结果不变
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return errNotReady
	}
	for _, role := range roleCatalog {
		subject := rolePrefix + role.Name
		for _, parent := range role.Parents {
			if _, err := s.enforcer.AddGroupingPolicy(subject, rolePrefix+parent); err != nil {
				return fmt.Errorf("authz inherit %s: %w", role.Name, err)
			}
		}
		for _, grant := range role.Grants {
			if _, err := s.enforcer.AddPolicy(subject, NormalizeObject(grant.Path), strings.ToUpper(grant.Method)); err != nil {
				return fmt.Errorf("authz grant %s: %w", role.Name, err)
			}
		}
	}
	return nil
}

// EnforceAdmin 判断管理员能否以 method 访问 path
func (s *Service) EnforceAdmin(adminID uint, path, method string) (bool, error) {
	if s == nil || s.enforcer == nil {
		return false, errNotReady
	}
	obj := NormalizeObject(path)
	act := strings.ToUpper(strings.TrimSpace(method))
	allowed, err := s.enforcer.Enforce(adminSubject(adminID), obj, act)
	if err != nil {
		return false, err
	}
	logger.Debugw("authz_enforce", "admin_id", adminID, "object", obj, "action", act, "allowed", allowed)
	return allowed, nil
}

// SetAdminRoles 覆盖管理员角色；任一角色未知时不做任何修改
func (s *Service) SetAdminRoles(adminID uint, names []string) error {
	if adminID == 0 {
		return errors.New("authz: admin id is required")
	}
	if s == nil || s.enforcer == nil {
		return errNotReady
	}
	subjects := make([]string, 0, len(names))
	for _, name := range names {
		role, ok := LookupRole(name)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownRole, name)
		}
		subjects = append(subjects, rolePrefix+role.Name)
	}

	subject := adminSubject(adminID)
	if _, err := s.enforcer.RemoveFilteredGroupingPolicy(0, subject); err != nil {
		return fmt.Errorf("authz clear roles: %w", err)
	}
	for _, role := range subjects {
		if _, err := s.enforcer.AddGroupingPolicy(subject, role); err != nil {
			return fmt.Errorf("authz assign role: %w", err)
		}
	}
	return nil
}

// GetAdminRoles 管理员直接持有的角色名
func (s *Service) GetAdminRoles(adminID uint) ([]string, error) {
	if s == nil || s.enforcer == nil {
		return nil, errNotReady
	}
	assigned, err := s.enforcer.GetRolesForUser(adminSubject(adminID))
	if err != nil {
		return nil, fmt.Errorf("authz get roles: %w", err)
	}
	names := make([]string, 0, len(assigned))
	for _, subject := range assigned {
		if name, ok := strings.CutPrefix(subject, rolePrefix); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func adminSubject(adminID uint) string {
	return fmt.Sprintf("%s%d", adminPrefix, adminID)
}

// NormalizeObject 去掉 /api/v1 前缀，得到策略中使用的路径
func NormalizeObject(path string) string {
	p := strings.TrimSpace(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if p == routePrefix {
		return "/"
	}
	if strings.HasPrefix(p, routePrefix+"/") {
		return strings.TrimPrefix(p, routePrefix)
	}
	return p
}
