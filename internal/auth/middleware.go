package auth

import (
	"strconv"
	"strings"

	"approvalhub/internal/common"
	"approvalhub/internal/logger"

	"github.com/gin-gonic/gin"
)

// ContextKey 上下文键类型
type ContextKey string

// UserContextKey 用户上下文键
const UserContextKey ContextKey = "user"

// 管理员角色，可维护审批配置和强制重置单据
var adminRoles = []string{"admin", "approval_admin"}

// UserContext 用户上下文
type UserContext struct {
	UserID    string
	CompanyID uint
	Roles     []string
}

// IsAdmin 是否审批管理员
func (u *UserContext) IsAdmin() bool {
	return hasRole(u.Roles, adminRoles)
}

// AuthMiddleware JWT 认证中间件
func AuthMiddleware(jwtService *JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			common.AbortWithError(c, common.CodeUnauthorized, "缺少认证令牌")
			return
		}

		token := ExtractTokenFromBearer(authHeader)
		if token == "" {
			common.AbortWithError(c, common.CodeUnauthorized, "无效的令牌格式")
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			common.AbortWithError(c, common.CodeUnauthorized, "令牌验证失败: "+err.Error())
			return
		}

		c.Set(string(UserContextKey), &UserContext{
			UserID:    claims.UserID,
			CompanyID: claims.CompanyID,
			Roles:     claims.Roles,
		})
		c.Set("company_id", claims.CompanyID)
		c.Set("user_id", claims.UserID)

		ctx := logger.WithCompanyID(c.Request.Context(), strconv.FormatUint(uint64(claims.CompanyID), 10))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireAdmin 审批管理员检查中间件
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		userCtx, exists := GetUserContext(c)
		if !exists {
			common.AbortWithError(c, common.CodeUnauthorized, "未认证")
			return
		}
		if !userCtx.IsAdmin() {
			common.AbortWithError(c, common.CodeForbidden, "仅审批管理员可执行该操作")
			return
		}
		c.Next()
	}
}

// GetUserContext 从 Gin Context 获取用户上下文
func GetUserContext(c *gin.Context) (*UserContext, bool) {
	userCtx, exists := c.Get(string(UserContextKey))
	if !exists {
		return nil, false
	}
	ctx, ok := userCtx.(*UserContext)
	return ctx, ok
}

// CompanyID 获取当前请求的公司ID，未认证时返回 0
func CompanyID(c *gin.Context) uint {
	if userCtx, ok := GetUserContext(c); ok {
		return userCtx.CompanyID
	}
	return 0
}

// hasRole 检查是否有指定角色
func hasRole(userRoles []string, requiredRoles []string) bool {
	roleMap := make(map[string]bool, len(userRoles))
	for _, role := range userRoles {
		roleMap[strings.ToLower(role)] = true
	}
	for _, required := range requiredRoles {
		if roleMap[strings.ToLower(required)] {
			return true
		}
	}
	return false
}
