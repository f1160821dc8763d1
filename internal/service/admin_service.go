package service

import (
	"errors"

	"github.com/aurelia-jewels/storefront/internal/authz"
	"github.com/aurelia-jewels/storefront/internal/logger"
	"github.com/aurelia-jewels/storefront/internal/repository"
)

// AdminRoleService 管理员角色分配
type AdminRoleService struct {
	adminRepo repository.AdminRepository
	authz     *authz.Service
}

// NewAdminRoleService 创建角色分配服务
func NewAdminRoleService(adminRepo repository.AdminRepository, authzService *authz.Service) *AdminRoleService {
	return &AdminRoleService{adminRepo: adminRepo, authz: authzService}
}

// AssignRoles 覆盖管理员角色，返回生效角色
func (s *AdminRoleService) AssignRoles(operatorID, adminID uint, roles []string) ([]string, error) {
	if adminID == 0 {
		return nil, ErrInvalidInput
	}
	admin, err := s.adminRepo.GetByID(adminID)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, ErrNotFound
	}
	if err := s.authz.SetAdminRoles(admin.ID, roles); err != nil {
		if errors.Is(err, authz.ErrUnknownRole) {
			return nil, ErrAdminRoleInvalid
		}
		return nil, err
	}
	assigned, err := s.authz.GetAdminRoles(admin.ID)
	if err != nil {
		return nil, err
	}
	logger.Infow("admin_roles_assigned", "operator_id", operatorID, "admin_id", admin.ID, "roles", assigned)
	return assigned, nil
}
