package middleware

import (
	"net/http"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog"
	"github.com/snspapa-cell/shoping-mall-demo-sub000/internal/util"
	"github.com/snspapa-cell/shoping-mall-demo-sub000/pkg/api"
	"github.com/snspapa-cell/shoping-mall-demo-sub000/pkg/er"
)

// RecoverMiddleware 攔截panic, 記錄stack後回應標準錯誤格式
func RecoverMiddleware(logger *zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if logger == nil {
						temp := zerolog.New(os.Stdout).With().Timestamp().Logger()
						logger = &temp
					}
					logger.Error().
						Str("request_id", util.GetRequestIDFromContext(r.Context())).
						Str("method", r.Method).
						Str("url", r.URL.String()).
						Interface("panic", rec).
						Bytes("stack", debug.Stack()).
						Msg("panic recovered")

					api.ErrorJSON(w, int(er.InternalErrorCode), nil, er.ErrStrMap[er.InternalErrorCode])
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
