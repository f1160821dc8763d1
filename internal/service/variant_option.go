package service

import (
	"fmt"
	"strings"

	"github.com/aurelia-jewels/storefront/internal/constants"
	"github.com/aurelia-jewels/storefront/internal/models"
	"github.com/aurelia-jewels/storefront/internal/repository"
)

// VariantOption 款式选项：尺码或耳堵，二者之一
type VariantOption interface {
	Type() string
	ID() uint
	VariantID() uint
	Label() string
	Active() bool
}

// SizeOption 尺码选项
type SizeOption struct {
	Size models.VariantSize
}

// Type 选项类型
func (o SizeOption) Type() string { return constants.OptionTypeSize }

// ID 选项ID
func (o SizeOption) ID() uint { return o.Size.ID }

// VariantID 所属款式
func (o SizeOption) VariantID() uint { return o.Size.VariantID }

// Label 展示名称
func (o SizeOption) Label() string { return o.Size.Label }

// Active 是否启用
func (o SizeOption) Active() bool { return o.Size.IsActive }

// ScrewOption 耳堵选项
type ScrewOption struct {
	Screw models.VariantScrewOption
}

// Type 选项类型
func (o ScrewOption) Type() string { return constants.OptionTypeScrewOption }

// ID 选项ID
func (o ScrewOption) ID() uint { return o.Screw.ID }

// VariantID 所属款式
func (o ScrewOption) VariantID() uint { return o.Screw.VariantID }

// Label 展示名称
func (o ScrewOption) Label() string { return o.Screw.Name }

// Active 是否启用
func (o ScrewOption) Active() bool { return o.Screw.IsActive }

// NormalizeOptionType 归一化选项类型，未知类型返回 ErrOptionTypeInvalid
func NormalizeOptionType(raw string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case constants.OptionTypeSize:
		return constants.OptionTypeSize, nil
	case constants.OptionTypeScrewOption:
		return constants.OptionTypeScrewOption, nil
	default:
		return "", ErrOptionTypeInvalid
	}
}

// variantResolver 校验款式与选项
type variantResolver struct {
	productRepo repository.ProductRepository
}

// resolvedVariant 校验通过的款式与选项
type resolvedVariant struct {
	Variant *models.ProductVariant
	Option  VariantOption
}

// Snapshot 构建款式展示快照
func (r resolvedVariant) Snapshot() models.VariantSnapshot {
	snapshot := models.VariantSnapshot{
		SKU:         r.Variant.SKU,
		MRP:         r.Variant.MRP,
		FinalPrice:  r.Variant.FinalPrice,
		OptionLabel: r.Option.Label(),
	}
	if r.Variant.Product != nil {
		snapshot.ProductName = r.Variant.Product.Name
		snapshot.ProductSlug = r.Variant.Product.Slug
		snapshot.Image = r.Variant.Product.PrimaryImage()
	}
	return snapshot
}

// resolve 校验款式启用、选项存在且属于该款式
func (r variantResolver) resolve(variantID uint, optionType string, optionID uint) (*resolvedVariant, error) {
	normalizedType, err := NormalizeOptionType(optionType)
	if err != nil {
		return nil, err
	}
	variant, err := r.productRepo.GetVariantByID(variantID)
	if err != nil {
		return nil, err
	}
	if variant == nil {
		return nil, ErrVariantNotFound
	}
	if !variant.IsActive || (variant.Product != nil && !variant.Product.IsActive) {
		return nil, ErrVariantInactive
	}

	option, err := r.loadOption(normalizedType, optionID)
	if err != nil {
		return nil, err
	}
	if option.VariantID() != variant.ID {
		return nil, ErrOptionMismatch
	}
	if !option.Active() {
		return nil, ErrOptionNotFound
	}
	return &resolvedVariant{Variant: variant, Option: option}, nil
}

func (r variantResolver) loadOption(optionType string, optionID uint) (VariantOption, error) {
	switch optionType {
	case constants.OptionTypeSize:
		size, err := r.productRepo.GetSize(optionID)
		if err != nil {
			return nil, err
		}
		if size == nil {
			return nil, ErrOptionNotFound
		}
		return SizeOption{Size: *size}, nil
	case constants.OptionTypeScrewOption:
		screw, err := r.productRepo.GetScrewOption(optionID)
		if err != nil {
			return nil, err
		}
		if screw == nil {
			return nil, ErrOptionNotFound
		}
		return ScrewOption{Screw: *screw}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrOptionTypeInvalid, optionType)
	}
}

// describeOption 生成日志用的选项描述
func describeOption(option VariantOption) string {
	switch o := option.(type) {
	case SizeOption:
		return "size:" + o.Size.Label
	case ScrewOption:
		return "screw:" + o.Screw.Name
	default:
		return "unknown"
	}
}
