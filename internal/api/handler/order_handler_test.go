package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	innerapi "github.com/snspapa-cell/shoping-mall-demo-sub000/internal/api"
	"github.com/snspapa-cell/shoping-mall-demo-sub000/internal/api/handler"
	"github.com/snspapa-cell/shoping-mall-demo-sub000/internal/api/router"
	"github.com/snspapa-cell/shoping-mall-demo-sub000/internal/auth"
	"github.com/snspapa-cell/shoping-mall-demo-sub000/internal/domain/model"
	"github.com/snspapa-cell/shoping-mall-demo-sub000/internal/service"
	"github.com/snspapa-cell/shoping-mall-demo-sub000/pkg/er"
	"github.com/snspapa-cell/shoping-mall-demo-sub000/pkg/metrics"
	"github.com/stretchr/testify/require"
)

const testSecret = "12345678901234567890123456789012"

// prometheus不允許重複註冊, 整個測試程序共用一份
var testMetrics = metrics.NewServerMetrics("handler_test")

// stubOrderService 以函式欄位覆寫個別操作
type stubOrderService struct {
	createOrder      func(ctx context.Context, params service.CreateOrderParams) (*model.Order, error)
	confirmPayment   func(ctx context.Context, userID int, orderID, transactionID string) (*model.Order, error)
	cancelOrder      func(ctx context.Context, userID int, isAdmin bool, orderID, reason string) (*model.Order, error)
	transitionStatus func(ctx context.Context, orderID string, target model.OrderStatus, params service.TransitionParams) (*model.Order, error)
	getOrder         func(ctx context.Context, userID int, isAdmin bool, orderID string) (*model.Order, error)
	listUserOrders   func(ctx context.Context, userID int, status model.OrderStatus, page, pageSize int) ([]model.Order, int64, error)
}

func (s *stubOrderService) CreateOrder(ctx context.Context, params service.CreateOrderParams) (*model.Order, error) {
	return s.createOrder(ctx, params)
}

func (s *stubOrderService) ConfirmPayment(ctx context.Context, userID int, orderID, transactionID string) (*model.Order, error) {
	return s.confirmPayment(ctx, userID, orderID, transactionID)
}

func (s *stubOrderService) CancelOrder(ctx context.Context, userID int, isAdmin bool, orderID, reason string) (*model.Order, error) {
	return s.cancelOrder(ctx, userID, isAdmin, orderID, reason)
}

func (s *stubOrderService) TransitionStatus(ctx context.Context, orderID string, target model.OrderStatus, params service.TransitionParams) (*model.Order, error) {
	return s.transitionStatus(ctx, orderID, target, params)
}

func (s *stubOrderService) GetOrder(ctx context.Context, userID int, isAdmin bool, orderID string) (*model.Order, error) {
	return s.getOrder(ctx, userID, isAdmin, orderID)
}

func (s *stubOrderService) ListUserOrders(ctx context.Context, userID int, status model.OrderStatus, page, pageSize int) ([]model.Order, int64, error) {
	return s.listUserOrders(ctx, userID, status, page, pageSize)
}

var _ service.IOrderService = (*stubOrderService)(nil)

func newTestRouter(t *testing.T, stub *stubOrderService) http.Handler {
	t.Helper()
	server := innerapi.NewServer(handler.NewOrderHandler(stub))
	return router.SetupRouter(server, testSecret, nil, testMetrics)
}

func bearerToken(t *testing.T, userID int, isAdmin bool) string {
	t.Helper()
	token, err := auth.IssueToken(userID, isAdmin, testSecret, time.Minute)
	require.NoError(t, err)
	return "Bearer " + token
}

func sampleOrder(userID int) *model.Order {
	return &model.Order{
		OrderID:    "order-1",
		OrderNo:    "ORD-20260901-00001",
		UserID:     userID,
		Status:     model.OrderStatusPending,
		ItemsPrice: decimal.NewFromInt(20000),
		TotalPrice: decimal.NewFromInt(23000),
		OrderDate:  time.Now(),
	}
}

func TestCreateOrder_Handler(t *testing.T) {
	var gotParams service.CreateOrderParams
	stub := &stubOrderService{
		createOrder: func(ctx context.Context, params service.CreateOrderParams) (*model.Order, error) {
			gotParams = params
			return sampleOrder(params.UserID), nil
		},
	}
	r := newTestRouter(t, stub)

	body, _ := json.Marshal(map[string]any{
		"payment_method": "card",
		"shipping_address": map[string]string{
			"recipient": "Tester",
			"address":   "Seoul",
		},
		"items": []map[string]any{
			{"product_id": "PROD-A", "quantity": 2},
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader(body))
	req.Header.Set("Authorization", bearerToken(t, 42, false))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	// UserID來自token, 不從body讀
	require.Equal(t, 42, gotParams.UserID)
	require.Equal(t, model.PaymentMethodCard, gotParams.PaymentMethod)
	require.Len(t, gotParams.Items, 1)

	var resp struct {
		Data struct {
			OrderNo string `json:"order_no"`
			Status  string `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "ORD-20260901-00001", resp.Data.OrderNo)
	require.Equal(t, "pending", resp.Data.Status)
}

func TestCreateOrder_NoToken(t *testing.T) {
	r := newTestRouter(t, &stubOrderService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateOrder_InvalidBody(t *testing.T) {
	r := newTestRouter(t, &stubOrderService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader([]byte(`{not json`)))
	req.Header.Set("Authorization", bearerToken(t, 42, false))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetOrder_Handler(t *testing.T) {
	stub := &stubOrderService{
		getOrder: func(ctx context.Context, userID int, isAdmin bool, orderID string) (*model.Order, error) {
			require.Equal(t, "order-1", orderID)
			return sampleOrder(userID), nil
		},
	}
	r := newTestRouter(t, stub)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/order-1", nil)
	req.Header.Set("Authorization", bearerToken(t, 42, false))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGetOrder_ServiceErrorCodeMapsToStatus(t *testing.T) {
	stub := &stubOrderService{
		getOrder: func(ctx context.Context, userID int, isAdmin bool, orderID string) (*model.Order, error) {
			return nil, er.Wrap(er.NotFoundCode, service.ErrOrderNotExist)
		},
	}
	r := newTestRouter(t, stub)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/missing", nil)
	req.Header.Set("Authorization", bearerToken(t, 42, false))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp struct {
		Message string `json:"message"`
		Data    string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "not found", resp.Message)
	require.Contains(t, resp.Data, "order is not exist")
}

func TestListMyOrders_Paging(t *testing.T) {
	var gotPage, gotPageSize int
	stub := &stubOrderService{
		listUserOrders: func(ctx context.Context, userID int, status model.OrderStatus, page, pageSize int) ([]model.Order, int64, error) {
			gotPage, gotPageSize = page, pageSize
			return []model.Order{*sampleOrder(userID)}, 1, nil
		},
	}
	r := newTestRouter(t, stub)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/my?page=2&page_size=999", nil)
	req.Header.Set("Authorization", bearerToken(t, 42, false))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 2, gotPage)
	// page_size超過上限時截斷
	require.Equal(t, 100, gotPageSize)

	var resp struct {
		Meta struct {
			Page  int   `json:"page"`
			Total int64 `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Meta.Page)
	require.Equal(t, int64(1), resp.Meta.Total)
}

func TestPayOrder_Handler(t *testing.T) {
	stub := &stubOrderService{
		confirmPayment: func(ctx context.Context, userID int, orderID, transactionID string) (*model.Order, error) {
			require.Equal(t, "imp_123", transactionID)
			order := sampleOrder(userID)
			order.Status = model.OrderStatusPaid
			return order, nil
		},
	}
	r := newTestRouter(t, stub)

	body := []byte(`{"transaction_id":"imp_123"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/orders/order-1/pay", bytes.NewReader(body))
	req.Header.Set("Authorization", bearerToken(t, 42, false))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestPayOrder_GatewayErrorMapsTo502(t *testing.T) {
	stub := &stubOrderService{
		confirmPayment: func(ctx context.Context, userID int, orderID, transactionID string) (*model.Order, error) {
			return nil, er.Wrap(er.BadGatewayCode, service.ErrGatewayUnavailable)
		},
	}
	r := newTestRouter(t, stub)

	body := []byte(`{"transaction_id":"imp_123"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/orders/order-1/pay", bytes.NewReader(body))
	req.Header.Set("Authorization", bearerToken(t, 42, false))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestCancelOrder_EmptyBody(t *testing.T) {
	var gotReason string
	stub := &stubOrderService{
		cancelOrder: func(ctx context.Context, userID int, isAdmin bool, orderID, reason string) (*model.Order, error) {
			gotReason = reason
			order := sampleOrder(userID)
			order.Status = model.OrderStatusCancelled
			return order, nil
		},
	}
	r := newTestRouter(t, stub)

	// 無body也可取消, reason交由service套預設值
	req := httptest.NewRequest(http.MethodPut, "/api/v1/orders/order-1/cancel", nil)
	req.Header.Set("Authorization", bearerToken(t, 42, false))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, gotReason)
}

func TestUpdateOrderStatus_AdminOnly(t *testing.T) {
	stub := &stubOrderService{
		transitionStatus: func(ctx context.Context, orderID string, target model.OrderStatus, params service.TransitionParams) (*model.Order, error) {
			order := sampleOrder(1)
			order.Status = target
			return order, nil
		},
	}
	r := newTestRouter(t, stub)

	body := []byte(`{"status":"preparing"}`)

	// 一般用戶被拒
	req := httptest.NewRequest(http.MethodPut, "/api/v1/orders/order-1/status", bytes.NewReader(body))
	req.Header.Set("Authorization", bearerToken(t, 42, false))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)

	// 管理員可操作
	req = httptest.NewRequest(http.MethodPut, "/api/v1/orders/order-1/status", bytes.NewReader(body))
	req.Header.Set("Authorization", bearerToken(t, 42, true))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateOrderStatus_InvalidStatus(t *testing.T) {
	r := newTestRouter(t, &stubOrderService{})

	body := []byte(`{"status":"bogus"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/orders/order-1/status", bytes.NewReader(body))
	req.Header.Set("Authorization", bearerToken(t, 42, true))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, 460, rec.Code)
}
