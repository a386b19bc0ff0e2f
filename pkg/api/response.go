package api

import (
	"encoding/json"
	"net/http"
)

type Response struct {
	Data any `json:"data"`
	Meta any `json:"meta,omitempty"`
}

type ResponseError struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Pagination 分頁meta
type Pagination struct {
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total"`
}

func SuccessJSON(w http.ResponseWriter, data any, meta any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(Response{
		Data: data,
		Meta: meta,
	})
}

// ErrorJSON code直接作為http status寫入
// 自訂碼(如460)照樣寫入, client端依message判讀
func ErrorJSON(w http.ResponseWriter, code int, err error, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	resp := ResponseError{
		Message: msg,
	}
	if err != nil {
		resp.Data = err.Error()
	}
	json.NewEncoder(w).Encode(resp)
}
