package common

import "gorm.io/gorm"

// ByCompany 按公司过滤（审批配置均以公司隔离）
// 使用方法：db.Scopes(common.ByCompany(companyID)).Find(&controls)
func ByCompany(companyID uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("company_id = ?", companyID)
	}
}

// ActiveOnly 仅查询启用的记录
func ActiveOnly() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("active = ?", true)
	}
}

// Paginate 应用分页条件
func Paginate(req PaginationRequest) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(req.GetOffset()).Limit(req.GetPageSize())
	}
}
