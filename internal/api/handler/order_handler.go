package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/snspapa-cell/shoping-mall-demo-sub000/internal/api/dto"
	"github.com/snspapa-cell/shoping-mall-demo-sub000/internal/constants"
	"github.com/snspapa-cell/shoping-mall-demo-sub000/internal/domain/model"
	"github.com/snspapa-cell/shoping-mall-demo-sub000/internal/service"
	"github.com/snspapa-cell/shoping-mall-demo-sub000/internal/util"
	"github.com/snspapa-cell/shoping-mall-demo-sub000/pkg/api"
	"github.com/snspapa-cell/shoping-mall-demo-sub000/pkg/er"
)

type OrderHandler struct {
	orderService service.IOrderService
}

func NewOrderHandler(orderService service.IOrderService) *OrderHandler {
	if orderService == nil {
		panic("orderService cannot be nil")
	}
	return &OrderHandler{
		orderService: orderService,
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	var codeErr *er.CodeError
	if errors.As(err, &codeErr) {
		api.ErrorJSON(w, int(codeErr.Code), codeErr, er.ErrStrMap[codeErr.Code])
	} else {
		api.ErrorJSON(w, int(er.InternalErrorCode), err, er.ErrStrMap[er.InternalErrorCode])
	}
}

// @Summary create order
// @Tags order
// @Accept json
// @Produce json
// @Param order body dto.CreateOrderDTO true "shipping address, payment method, items"
// @Success 200 {object} api.Response{data=dto.OrderDTO} "success"
// @Failure 400 {object} api.ResponseError{data=string} "BadRequestCode"
// @Failure 401 {object} api.ResponseError{data=string} "UnauthenticatedCode"
// @Failure 500 {object} api.ResponseError{data=string} "Internal server error"
// @Security ApiKeyAuth
// @Router /orders [post]
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var createDTO dto.CreateOrderDTO
	if err := json.NewDecoder(r.Body).Decode(&createDTO); err != nil {
		api.ErrorJSON(w, int(er.BadRequestCode), err, er.ErrStrMap[er.BadRequestCode])
		return
	}

	ctx := r.Context()
	principal := util.GetPrincipalFromContext(ctx)

	items := make([]service.BuyNowItem, 0, len(createDTO.Items))
	for _, item := range createDTO.Items {
		items = append(items, service.BuyNowItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	order, err := h.orderService.CreateOrder(ctx, service.CreateOrderParams{
		UserID: principal.UserID,
		ShippingAddress: model.ShippingAddress{
			Recipient:     createDTO.ShippingAddress.Recipient,
			Phone:         createDTO.ShippingAddress.Phone,
			PostalCode:    createDTO.ShippingAddress.PostalCode,
			Address:       createDTO.ShippingAddress.Address,
			AddressDetail: createDTO.ShippingAddress.AddressDetail,
			DeliveryNote:  createDTO.ShippingAddress.DeliveryNote,
		},
		PaymentMethod:      model.PaymentMethod(createDTO.PaymentMethod),
		UseCart:            createDTO.UseCart,
		SelectedProductIDs: createDTO.SelectedItems,
		Items:              items,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	api.SuccessJSON(w, dto.ConvertOrderModelToDTO(order), nil)
}

// @Summary list my orders
// @Tags order
// @Accept json
// @Produce json
// @Param page query int false "page"
// @Param page_size query int false "page size"
// @Param status query string false "status filter"
// @Success 200 {object} api.Response{data=[]dto.OrderDTO} "success"
// @Failure 401 {object} api.ResponseError{data=string} "UnauthenticatedCode"
// @Failure 500 {object} api.ResponseError{data=string} "Internal server error"
// @Security ApiKeyAuth
// @Router /orders/my [get]
func (h *OrderHandler) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal := util.GetPrincipalFromContext(ctx)

	page := constants.DefaultPaging
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	pageSize := constants.DefaultPagingSize
	if v, err := strconv.Atoi(r.URL.Query().Get("page_size")); err == nil && v > 0 {
		pageSize = v
	}
	if pageSize > constants.MaxPagingSize {
		pageSize = constants.MaxPagingSize
	}
	status := model.OrderStatus(r.URL.Query().Get("status"))

	orders, total, err := h.orderService.ListUserOrders(ctx, principal.UserID, status, page, pageSize)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	orderDTOs := make([]dto.OrderDTO, 0, len(orders))
	for i := range orders {
		orderDTOs = append(orderDTOs, dto.ConvertOrderModelToDTO(&orders[i]))
	}

	api.SuccessJSON(w, orderDTOs, api.Pagination{
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	})
}

// @Summary get order by id
// @Tags order
// @Accept json
// @Produce json
// @Param id path string true "order id"
// @Success 200 {object} api.Response{data=dto.OrderDTO} "success"
// @Failure 403 {object} api.ResponseError{data=string} "UnauthorizedCode"
// @Failure 404 {object} api.ResponseError{data=string} "NotFoundCode"
// @Failure 500 {object} api.ResponseError{data=string} "Internal server error"
// @Security ApiKeyAuth
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal := util.GetPrincipalFromContext(ctx)
	orderID := chi.URLParam(r, "id")

	order, err := h.orderService.GetOrder(ctx, principal.UserID, principal.IsAdmin, orderID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	api.SuccessJSON(w, dto.ConvertOrderModelToDTO(order), nil)
}

// @Summary confirm order payment
// @Tags order
// @Accept json
// @Produce json
// @Param id path string true "order id"
// @Param payment body dto.PayOrderDTO true "gateway transaction id"
// @Success 200 {object} api.Response{data=dto.OrderDTO} "success"
// @Failure 409 {object} api.ResponseError{data=string} "ConflictCode"
// @Failure 422 {object} api.ResponseError{data=string} "UnprocessableCode"
// @Failure 502 {object} api.ResponseError{data=string} "BadGatewayCode"
// @Security ApiKeyAuth
// @Router /orders/{id}/pay [put]
func (h *OrderHandler) PayOrder(w http.ResponseWriter, r *http.Request) {
	var payDTO dto.PayOrderDTO
	if err := json.NewDecoder(r.Body).Decode(&payDTO); err != nil {
		api.ErrorJSON(w, int(er.BadRequestCode), err, er.ErrStrMap[er.BadRequestCode])
		return
	}

	ctx := r.Context()
	principal := util.GetPrincipalFromContext(ctx)
	orderID := chi.URLParam(r, "id")

	order, err := h.orderService.ConfirmPayment(ctx, principal.UserID, orderID, payDTO.TransactionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	api.SuccessJSON(w, dto.ConvertOrderModelToDTO(order), nil)
}

// @Summary cancel order
// @Tags order
// @Accept json
// @Produce json
// @Param id path string true "order id"
// @Param cancellation body dto.CancelOrderDTO false "reason"
// @Success 200 {object} api.Response{data=dto.OrderDTO} "success"
// @Failure 403 {object} api.ResponseError{data=string} "UnauthorizedCode"
// @Failure 409 {object} api.ResponseError{data=string} "ConflictCode"
// @Security ApiKeyAuth
// @Router /orders/{id}/cancel [put]
func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	var cancelDTO dto.CancelOrderDTO
	if r.Body != nil {
		// reason可省略, decode失敗以預設reason處理
		json.NewDecoder(r.Body).Decode(&cancelDTO)
	}

	ctx := r.Context()
	principal := util.GetPrincipalFromContext(ctx)
	orderID := chi.URLParam(r, "id")

	order, err := h.orderService.CancelOrder(ctx, principal.UserID, principal.IsAdmin, orderID, cancelDTO.Reason)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	api.SuccessJSON(w, dto.ConvertOrderModelToDTO(order), nil)
}

// @Summary update order status (admin)
// @Tags order
// @Accept json
// @Produce json
// @Param id path string true "order id"
// @Param status body dto.UpdateOrderStatusDTO true "target status"
// @Success 200 {object} api.Response{data=dto.OrderDTO} "success"
// @Failure 403 {object} api.ResponseError{data=string} "UnauthorizedCode"
// @Failure 409 {object} api.ResponseError{data=string} "ConflictCode"
// @Security ApiKeyAuth
// @Router /orders/{id}/status [put]
func (h *OrderHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var statusDTO dto.UpdateOrderStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&statusDTO); err != nil {
		api.ErrorJSON(w, int(er.BadRequestCode), err, er.ErrStrMap[er.BadRequestCode])
		return
	}

	if !model.IsValidOrderStatus(statusDTO.Status) {
		api.ErrorJSON(w, int(er.InvalidArgumentCode), nil, er.ErrStrMap[er.InvalidArgumentCode])
		return
	}

	ctx := r.Context()
	orderID := chi.URLParam(r, "id")

	order, err := h.orderService.TransitionStatus(ctx, orderID, model.OrderStatus(statusDTO.Status), service.TransitionParams{
		Reason:     statusDTO.Reason,
		Courier:    statusDTO.Courier,
		TrackingNo: statusDTO.TrackingNo,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	api.SuccessJSON(w, dto.ConvertOrderModelToDTO(order), nil)
}
