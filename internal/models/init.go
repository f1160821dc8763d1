package models

import (
	"strings"

	"github.com/aurelia-jewels/storefront/internal/constants"
	"github.com/aurelia-jewels/storefront/internal/logger"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// InitDefaultAdmin 初始化默认管理员账号
func InitDefaultAdmin(username, password string) error {
	var count int64
	DB.Model(&Admin{}).Count(&count)

	// 已有管理员时确保默认 admin 拥有超级管理员权限
	if count > 0 {
		if err := DB.Model(&Admin{}).Where("username = ?", "admin").Update("is_super", true).Error; err != nil {
			logger.Warnw("ensure_default_admin_super_failed", "error", err)
		}
		return nil
	}

	if username == "" {
		username = "admin"
	}
	if password == "" {
		password = "admin123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := Admin{
		Username:     username,
		PasswordHash: string(hash),
		IsSuper:      strings.EqualFold(strings.TrimSpace(username), "admin"),
	}
	if err := DB.Create(&admin).Error; err != nil {
		return err
	}

	if password == "admin123" {
		logger.Warnw("default_admin_created_with_default_password", "username", username)
		logger.Warnw("default_admin_password_change_required", "username", username)
	} else {
		logger.Warnw("default_admin_created", "username", username, "password_hidden", true)
	}
	return nil
}

// InitBaseCurrency 确保基准币种存在且汇率为 1
func InitBaseCurrency(code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = constants.BaseCurrencyCode
	}
	var existing Currency
	result := DB.Where("code = ?", code).Limit(1).Find(&existing)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return DB.Model(&Currency{}).Where("id = ?", existing.ID).Updates(map[string]interface{}{
			"is_base":       true,
			"is_active":     true,
			"exchange_rate": decimal.NewFromInt(1),
		}).Error
	}

	symbol := code
	if code == constants.BaseCurrencyCode {
		symbol = constants.BaseCurrencySymbol
	}
	base := Currency{
		Code:         code,
		Symbol:       symbol,
		ExchangeRate: decimal.NewFromInt(1),
		IsBase:       true,
		IsActive:     true,
	}
	if err := DB.Create(&base).Error; err != nil {
		return err
	}
	logger.Infow("base_currency_seeded", "code", code)
	return nil
}
