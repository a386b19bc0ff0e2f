package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/snspapa-cell/shoping-mall-demo-sub000/internal/constants"
)

// RequestIdMiddleware 每個請求帶唯一request id
// 上游沒帶就補一個, 回應header回填方便與log對照
func RequestIdMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestId := r.Header.Get("request_id")
		if requestId == "" {
			requestId = uuid.New().String()
		}

		w.Header().Set("request_id", requestId)

		ctx := context.WithValue(r.Context(), constants.RequestIDKey, requestId)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
