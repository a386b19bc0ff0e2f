package util

import (
	"context"

	"github.com/snspapa-cell/shoping-mall-demo-sub000/internal/auth"
	"github.com/snspapa-cell/shoping-mall-demo-sub000/internal/constants"
)

// WithPrincipal 將授權資訊存入請求上下文
func WithPrincipal(ctx context.Context, p *auth.Principal) context.Context {
	return context.WithValue(ctx, constants.AuthorizationPayloadKey, p)
}

// GetPrincipalFromContext 從請求上下文中取得授權資訊, 不存在回傳nil
func GetPrincipalFromContext(ctx context.Context) *auth.Principal {
	var principal *auth.Principal

	if v := ctx.Value(constants.AuthorizationPayloadKey); v != nil {
		principal = v.(*auth.Principal)
	}

	return principal
}

// GetRequestIDFromContext 取得request id, 不存在回傳unknown
func GetRequestIDFromContext(ctx context.Context) string {
	requestId := "unknown"
	if v := ctx.Value(constants.RequestIDKey); v != nil {
		requestId = v.(string)
	}
	return requestId
}
