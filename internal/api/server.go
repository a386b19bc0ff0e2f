package api

import "github.com/snspapa-cell/shoping-mall-demo-sub000/internal/api/handler"

type Server struct {
	OrderHandler *handler.OrderHandler
}

func NewServer(
	orderHandler *handler.OrderHandler,
) *Server {
	return &Server{
		OrderHandler: orderHandler,
	}
}
