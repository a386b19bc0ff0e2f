package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	innerapi "github.com/snspapa-cell/shoping-mall-demo-sub000/internal/api"
	m "github.com/snspapa-cell/shoping-mall-demo-sub000/internal/api/middleware"
	"github.com/snspapa-cell/shoping-mall-demo-sub000/pkg/metrics"
)

func SetupRouter(server *innerapi.Server, tokenSecret string, logger *zerolog.Logger, serverMetrics *metrics.ServerMetrics) *chi.Mux {
	r := chi.NewRouter()

	// 全局中間件
	r.Use(m.RequestIdMiddleware)
	r.Use(middleware.RealIP)
	r.Use(m.LoggerMiddleware(logger))
	r.Use(m.MetricsMiddleware(serverMetrics))
	r.Use(m.RecoverMiddleware(logger))

	r.Handle("/metrics", metrics.Handler())

	// API 路由
	r.Route("/api/v1", func(r chi.Router) {
		//Order相關路由
		r.Group(func(r chi.Router) {
			r.Use(m.AuthMiddleware(tokenSecret))
			r.Route("/orders", func(r chi.Router) {
				r.Post("/", server.OrderHandler.CreateOrder)
				r.Get("/my", server.OrderHandler.ListMyOrders)
				r.Get("/{id}", server.OrderHandler.GetOrder)
				r.Put("/{id}/pay", server.OrderHandler.PayOrder)
				r.Put("/{id}/cancel", server.OrderHandler.CancelOrder)
				r.With(m.AdminOnlyMiddleware).Put("/{id}/status", server.OrderHandler.UpdateOrderStatus)
			})
		})
	})

	return r
}
