package middleware

import (
	"net/http"

	"github.com/snspapa-cell/shoping-mall-demo-sub000/internal/auth"
	"github.com/snspapa-cell/shoping-mall-demo-sub000/internal/util"
	"github.com/snspapa-cell/shoping-mall-demo-sub000/pkg/api"
	"github.com/snspapa-cell/shoping-mall-demo-sub000/pkg/er"
)

// AuthMiddleware 驗證Bearer token並將授權資訊存入上下文
func AuthMiddleware(secret string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := auth.ParseBearer(r.Header.Get("Authorization"), secret)
			if err != nil {
				api.ErrorJSON(w, int(er.UnauthenticatedCode), err, er.ErrStrMap[er.UnauthenticatedCode])
				return
			}

			ctx := util.WithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminOnlyMiddleware 只放行管理員, 需接在AuthMiddleware之後
func AdminOnlyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal := util.GetPrincipalFromContext(r.Context())
		if principal == nil || !principal.IsAdmin {
			api.ErrorJSON(w, int(er.UnauthorizedCode), nil, er.ErrStrMap[er.UnauthorizedCode])
			return
		}
		next.ServeHTTP(w, r)
	})
}
