package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/snspapa-cell/shoping-mall-demo-sub000/internal/constants"
	"github.com/snspapa-cell/shoping-mall-demo-sub000/internal/domain/model"
	"github.com/snspapa-cell/shoping-mall-demo-sub000/internal/infra/gateway/iamport"
	"github.com/snspapa-cell/shoping-mall-demo-sub000/internal/infra/producer"
	"github.com/snspapa-cell/shoping-mall-demo-sub000/internal/infra/repository/db"
	"github.com/snspapa-cell/shoping-mall-demo-sub000/internal/infra/repository/redis_repo"
	"github.com/snspapa-cell/shoping-mall-demo-sub000/pkg/er"
)

var (
	ErrOrderNotExist       = errors.New("order is not exist")
	ErrUserNotExist        = errors.New("user is not exist")
	ErrProductNotFound     = errors.New("product not found")
	ErrEmptyOrderItems     = errors.New("order has no items")
	ErrInvalidQuantity     = errors.New("quantity must be positive")
	ErrInvalidPayMethod    = errors.New("invalid payment method")
	ErrNotOrderOwner       = errors.New("caller is not the order owner")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrDuplicatePayment    = errors.New("transaction id already used by another order")
	ErrPaymentNotCompleted = errors.New("payment not completed")
	ErrAmountMismatch      = errors.New("payment amount mismatch")
	ErrGatewayUnavailable  = errors.New("payment gateway unavailable")
)

const (
	ReasonSuperseded      = "superseded by new order"
	ReasonCustomerRequest = "customer request"
)

// BuyNowItem 直接購買(不經購物車)的品項
type BuyNowItem struct {
	ProductID string
	Quantity  int
}

type CreateOrderParams struct {
	UserID          int
	ShippingAddress model.ShippingAddress
	PaymentMethod   model.PaymentMethod
	// UseCart為true時從購物車取品項, SelectedProductIDs非空時只取該子集
	UseCart            bool
	SelectedProductIDs []string
	Items              []BuyNowItem
}

// TransitionParams 狀態轉移附帶資訊
type TransitionParams struct {
	Reason     string
	Courier    string
	TrackingNo string
}

type IOrderService interface {
	CreateOrder(ctx context.Context, params CreateOrderParams) (*model.Order, error)
	ConfirmPayment(ctx context.Context, userID int, orderID, transactionID string) (*model.Order, error)
	CancelOrder(ctx context.Context, userID int, isAdmin bool, orderID, reason string) (*model.Order, error)
	TransitionStatus(ctx context.Context, orderID string, target model.OrderStatus, params TransitionParams) (*model.Order, error)
	GetOrder(ctx context.Context, userID int, isAdmin bool, orderID string) (*model.Order, error)
	ListUserOrders(ctx context.Context, userID int, status model.OrderStatus, page, pageSize int) ([]model.Order, int64, error)
}

type OrderService struct {
	orderRepo   db.IOrderRepository
	productRepo db.IProductRepository
	userRepo    db.IUserRepository
	cartRepo    redis_repo.ICartRepository
	seqRepo     redis_repo.ISequenceRepository
	// verifier為nil時跳過金流驗證, 只允許在開發環境
	verifier      iamport.IPaymentVerifier
	eventProducer producer.IOrderEventProducer
	logger        *zerolog.Logger
}

func NewOrderService(
	orderRepo db.IOrderRepository,
	productRepo db.IProductRepository,
	userRepo db.IUserRepository,
	cartRepo redis_repo.ICartRepository,
	seqRepo redis_repo.ISequenceRepository,
	verifier iamport.IPaymentVerifier,
	eventProducer producer.IOrderEventProducer,
	logger *zerolog.Logger,
) *OrderService {
	if logger == nil {
		temp := zerolog.New(os.Stdout).With().Timestamp().Logger()
		logger = &temp
	}
	return &OrderService{
		orderRepo:     orderRepo,
		productRepo:   productRepo,
		userRepo:      userRepo,
		cartRepo:      cartRepo,
		seqRepo:       seqRepo,
		verifier:      verifier,
		eventProducer: eventProducer,
		logger:        logger,
	}
}

/*
CreateOrder 創建訂單

 1. 同一用戶現存的pending訂單先自動取消(被新訂單取代)
 2. 品項來源: 購物車(可選子集) 或 直接購買清單, 下單當下快照商品名稱/價格/圖片
 3. 計算金額後以pending狀態落庫, 此時尚不動購物車
*/
func (o *OrderService) CreateOrder(ctx context.Context, params CreateOrderParams) (*model.Order, error) {
	if !model.IsValidPaymentMethod(string(params.PaymentMethod)) {
		return nil, er.Wrapf(er.BadRequestCode, "%w: %s", ErrInvalidPayMethod, params.PaymentMethod)
	}

	user, err := o.userRepo.GetUserByID(ctx, params.UserID)
	if err != nil {
		return nil, er.Wrap(er.InternalErrorCode, err)
	}
	if user == nil {
		return nil, er.Wrap(er.NotFoundCode, ErrUserNotExist)
	}

	// 取消現存pending訂單
	if pending, err := o.orderRepo.GetPendingOrderByUserID(ctx, params.UserID); err != nil {
		return nil, er.Wrap(er.InternalErrorCode, err)
	} else if pending != nil {
		if err := o.applyTransition(pending, model.OrderStatusCancelled, TransitionParams{Reason: ReasonSuperseded}, time.Now()); err != nil {
			return nil, err
		}
		if err := o.orderRepo.UpdateOrder(ctx, pending); err != nil {
			return nil, er.Wrap(er.InternalErrorCode, err)
		}
		o.publishEvent(ctx, producer.EventOrderCancelled, pending, ReasonSuperseded)
	}

	refs, err := o.resolveItemRefs(ctx, params)
	if err != nil {
		return nil, err
	}

	orderID := uuid.New().String()
	now := time.Now()

	// 快照商品資訊, 之後商品異動不影響已成立訂單
	items := make([]model.OrderItem, 0, len(refs))
	productIDs := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref.Quantity <= 0 {
			return nil, er.Wrapf(er.BadRequestCode, "%w: product %s", ErrInvalidQuantity, ref.ProductID)
		}
		product, err := o.productRepo.GetProductByID(ctx, ref.ProductID)
		if err != nil {
			return nil, er.Wrap(er.InternalErrorCode, err)
		}
		if product == nil {
			return nil, er.Wrapf(er.BadRequestCode, "%w: %s", ErrProductNotFound, ref.ProductID)
		}
		items = append(items, model.OrderItem{
			OrderID:     orderID,
			ProductID:   product.ProductID,
			ProductName: product.Name,
			UnitPrice:   product.Price,
			Quantity:    ref.Quantity,
			ImageURL:    product.ImageURL,
		})
		productIDs = append(productIDs, product.ProductID)
	}

	orderNo, err := o.seqRepo.NextOrderNo(ctx, now)
	if err != nil {
		return nil, er.Wrap(er.InternalErrorCode, err)
	}

	pricing := model.ComputePricing(items, decimal.Zero)

	order := &model.Order{
		OrderID:         orderID,
		OrderNo:         orderNo,
		UserID:          params.UserID,
		OrderItems:      items,
		Status:          model.OrderStatusPending,
		ShippingAddress: params.ShippingAddress,
		Payment: model.PaymentInfo{
			Method: params.PaymentMethod,
			Status: model.PaymentStatusPending,
		},
		ItemsPrice:     pricing.ItemsPrice,
		ShippingPrice:  pricing.ShippingPrice,
		DiscountAmount: pricing.DiscountAmount,
		TotalPrice:     pricing.TotalPrice,
		FromCart:       params.UseCart,
		OrderDate:      now,
	}
	if params.UseCart {
		order.OrderedProductIDs = productIDs
	}

	if err := o.orderRepo.CreateOrder(ctx, order); err != nil {
		return nil, er.Wrap(er.InternalErrorCode, err)
	}

	o.publishEvent(ctx, producer.EventOrderCreated, order, "")
	return order, nil
}

func (o *OrderService) resolveItemRefs(ctx context.Context, params CreateOrderParams) ([]BuyNowItem, error) {
	var refs []BuyNowItem

	if params.UseCart {
		cart, err := o.cartRepo.Get(ctx, params.UserID)
		if err != nil {
			return nil, er.Wrap(er.InternalErrorCode, err)
		}
		selected := make(map[string]struct{}, len(params.SelectedProductIDs))
		for _, id := range params.SelectedProductIDs {
			selected[id] = struct{}{}
		}
		for _, item := range cart.Items {
			if len(selected) > 0 {
				if _, ok := selected[item.ProductID]; !ok {
					continue
				}
			}
			refs = append(refs, BuyNowItem{ProductID: item.ProductID, Quantity: item.Quantity})
		}
	} else {
		refs = params.Items
	}

	if len(refs) == 0 {
		return nil, er.Wrap(er.BadRequestCode, ErrEmptyOrderItems)
	}
	return refs, nil
}

/*
ConfirmPayment 核對金流商付款結果後將訂單轉為paid

驗證失敗(非paid狀態或金額不符)會自動取消訂單;
金流商連線失敗則維持pending, 之後可重試。
付款成功且訂單來自購物車時, 只從購物車移除已下單的商品。
*/
func (o *OrderService) ConfirmPayment(ctx context.Context, userID int, orderID, transactionID string) (*model.Order, error) {
	if transactionID == "" {
		return nil, er.New(er.BadRequestCode, "transaction id is required")
	}

	order, err := o.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, er.Wrap(er.InternalErrorCode, err)
	}
	if order == nil {
		return nil, er.Wrap(er.NotFoundCode, ErrOrderNotExist)
	}
	if order.UserID != userID {
		return nil, er.Wrap(er.UnauthorizedCode, ErrNotOrderOwner)
	}
	// 重複付款防呆, 同一序號重付一律回報重複, 同一筆訂單也是
	if dup, err := o.orderRepo.GetOrderByTransactionID(ctx, transactionID); err != nil {
		return nil, er.Wrap(er.InternalErrorCode, err)
	} else if dup != nil {
		return nil, er.Wrapf(er.ConflictCode, "%w: %s", ErrDuplicatePayment, transactionID)
	}

	if order.Status != model.OrderStatusPending {
		return nil, er.Wrapf(er.ConflictCode, "%w: %s -> %s", ErrInvalidTransition, order.Status, model.OrderStatusPaid)
	}

	now := time.Now()
	verified := false

	if o.verifier != nil {
		payment, err := o.verifier.GetPayment(ctx, transactionID)
		if err != nil {
			// 連線失敗視為暫時性問題, 訂單維持pending
			o.logger.Error().Err(err).Str("order_id", orderID).Msg("payment gateway lookup failed")
			return nil, er.Wrapf(er.BadGatewayCode, "%w: %v", ErrGatewayUnavailable, err)
		}

		if payment.Status != "paid" {
			reason := fmt.Sprintf("verification failed: payment status is %s", payment.Status)
			if err := o.cancelWithReason(ctx, order, reason); err != nil {
				return nil, err
			}
			return nil, er.Wrapf(er.UnprocessableCode, "%w: status %s", ErrPaymentNotCompleted, payment.Status)
		}

		if !decimal.NewFromInt(payment.Amount).Equal(order.TotalPrice) {
			reason := fmt.Sprintf("verification failed: amount %d does not match order total %s", payment.Amount, order.TotalPrice)
			if err := o.cancelWithReason(ctx, order, reason); err != nil {
				return nil, err
			}
			return nil, er.Wrapf(er.UnprocessableCode, "%w: gateway %d, order %s", ErrAmountMismatch, payment.Amount, order.TotalPrice)
		}

		order.Payment.PGProvider = payment.PGProvider
		order.Payment.ReceiptURL = payment.ReceiptURL
		verified = true
	} else {
		o.logger.Warn().Str("order_id", orderID).Msg("payment verification skipped: gateway credentials not configured, development only")
	}

	if err := o.applyTransition(order, model.OrderStatusPaid, TransitionParams{}, now); err != nil {
		return nil, err
	}
	order.Payment.TransactionID = transactionID
	if verified {
		order.Payment.VerifiedAt = &now
	}

	if err := o.orderRepo.UpdateOrder(ctx, order); err != nil {
		return nil, er.Wrap(er.InternalErrorCode, err)
	}

	// 只移除已下單的商品, 下單後才加入購物車的商品要保留
	if order.FromCart && len(order.OrderedProductIDs) > 0 {
		if err := o.cartRepo.RemoveItems(ctx, userID, order.OrderedProductIDs); err != nil {
			o.logger.Warn().Err(err).Str("order_id", orderID).Msg("failed to prune ordered items from cart")
		}
	}

	o.publishEvent(ctx, producer.EventOrderPaid, order, "")
	return order, nil
}

func (o *OrderService) cancelWithReason(ctx context.Context, order *model.Order, reason string) error {
	if err := o.applyTransition(order, model.OrderStatusCancelled, TransitionParams{Reason: reason}, time.Now()); err != nil {
		return err
	}
	if err := o.orderRepo.UpdateOrder(ctx, order); err != nil {
		return er.Wrap(er.InternalErrorCode, err)
	}
	o.publishEvent(ctx, producer.EventOrderCancelled, order, reason)
	return nil
}

// CancelOrder 訂單擁有者或管理員才可取消, 不支援部分品項取消
func (o *OrderService) CancelOrder(ctx context.Context, userID int, isAdmin bool, orderID, reason string) (*model.Order, error) {
	order, err := o.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, er.Wrap(er.InternalErrorCode, err)
	}
	if order == nil {
		return nil, er.Wrap(er.NotFoundCode, ErrOrderNotExist)
	}
	if order.UserID != userID && !isAdmin {
		return nil, er.Wrap(er.UnauthorizedCode, ErrNotOrderOwner)
	}

	if reason == "" {
		reason = ReasonCustomerRequest
	}

	if err := o.applyTransition(order, model.OrderStatusCancelled, TransitionParams{Reason: reason}, time.Now()); err != nil {
		return nil, err
	}
	if err := o.orderRepo.UpdateOrder(ctx, order); err != nil {
		return nil, er.Wrap(er.InternalErrorCode, err)
	}

	o.publishEvent(ctx, producer.EventOrderCancelled, order, reason)
	return order, nil
}

// TransitionStatus 依狀態轉移表推進訂單, 管理端出貨/送達/退款用
func (o *OrderService) TransitionStatus(ctx context.Context, orderID string, target model.OrderStatus, params TransitionParams) (*model.Order, error) {
	order, err := o.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, er.Wrap(er.InternalErrorCode, err)
	}
	if order == nil {
		return nil, er.Wrap(er.NotFoundCode, ErrOrderNotExist)
	}

	if err := o.applyTransition(order, target, params, time.Now()); err != nil {
		return nil, err
	}
	if err := o.orderRepo.UpdateOrder(ctx, order); err != nil {
		return nil, er.Wrap(er.InternalErrorCode, err)
	}

	switch target {
	case model.OrderStatusCancelled:
		o.publishEvent(ctx, producer.EventOrderCancelled, order, params.Reason)
	default:
		o.publishEvent(ctx, producer.EventOrderStatusChanged, order, params.Reason)
	}
	return order, nil
}

/*
applyTransition 是唯一允許變更訂單狀態的路徑

轉移表之外的請求回傳ErrInvalidTransition且不改動訂單;
進入各狀態時蓋上對應時間戳:

	paid      -> payment.paid_at
	shipped   -> shipping.shipped_at (含物流資訊)
	delivered -> shipping.delivered_at
	cancelled -> cancellation.cancelled_at, payment轉cancelled
	refunded  -> cancellation.refunded_at, refund_amount = total_price
*/
func (o *OrderService) applyTransition(order *model.Order, target model.OrderStatus, params TransitionParams, now time.Time) error {
	if !order.Status.CanTransitionTo(target) {
		return er.Wrapf(er.ConflictCode, "%w: %s -> %s", ErrInvalidTransition, order.Status, target)
	}

	order.Status = target
	switch target {
	case model.OrderStatusPaid:
		order.Payment.Status = model.PaymentStatusPaid
		order.Payment.PaidAt = &now
	case model.OrderStatusShipped:
		order.Shipping.Courier = params.Courier
		order.Shipping.TrackingNo = params.TrackingNo
		order.Shipping.ShippedAt = &now
	case model.OrderStatusDelivered:
		order.Shipping.DeliveredAt = &now
	case model.OrderStatusCancelled:
		order.Cancellation.Reason = params.Reason
		order.Cancellation.CancelledAt = &now
		order.Payment.Status = model.PaymentStatusCancelled
	case model.OrderStatusRefunded:
		if params.Reason != "" {
			order.Cancellation.Reason = params.Reason
		}
		order.Cancellation.RefundAmount = order.TotalPrice
		order.Cancellation.RefundedAt = &now
	}
	return nil
}

// GetOrder 訂單擁有者或管理員才可查看
func (o *OrderService) GetOrder(ctx context.Context, userID int, isAdmin bool, orderID string) (*model.Order, error) {
	order, err := o.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, er.Wrap(er.InternalErrorCode, err)
	}
	if order == nil {
		return nil, er.Wrap(er.NotFoundCode, ErrOrderNotExist)
	}
	if order.UserID != userID && !isAdmin {
		return nil, er.Wrap(er.UnauthorizedCode, ErrNotOrderOwner)
	}
	return order, nil
}

func (o *OrderService) ListUserOrders(ctx context.Context, userID int, status model.OrderStatus, page, pageSize int) ([]model.Order, int64, error) {
	if status != "" && !model.IsValidOrderStatus(string(status)) {
		return nil, 0, er.Wrapf(er.BadRequestCode, "invalid status filter: %s", status)
	}

	// 分頁參數下限保護, 避免負offset
	if page < 1 {
		page = constants.DefaultPaging
	}
	if pageSize < 1 {
		pageSize = constants.DefaultPagingSize
	}

	orders, total, err := o.orderRepo.GetOrdersByUserIDPaginated(ctx, userID, status, page, pageSize)
	if err != nil {
		return nil, 0, er.Wrap(er.InternalErrorCode, err)
	}
	return orders, total, nil
}

func (o *OrderService) publishEvent(ctx context.Context, eventType string, order *model.Order, reason string) {
	if o.eventProducer == nil {
		return
	}
	event := producer.OrderEvent{
		EventType:  eventType,
		OrderID:    order.OrderID,
		OrderNo:    order.OrderNo,
		UserID:     order.UserID,
		Status:     string(order.Status),
		Reason:     reason,
		OccurredAt: time.Now(),
	}
	if err := o.eventProducer.Publish(ctx, event); err != nil {
		o.logger.Warn().Err(err).Str("order_id", order.OrderID).Str("event_type", eventType).Msg("failed to publish order event")
	}
}

var _ IOrderService = (*OrderService)(nil)
