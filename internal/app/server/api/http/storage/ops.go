package storage

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) saveOp() huma.Operation {
	return huma.Operation{
		OperationID: "ha-storage-save",
		Method:      http.MethodPost,
		Path:        "/ha-storage",
		Summary:     "Сохранить теневую копию состояния панели",
		Tags:        []string{"storage"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) loadOp() huma.Operation {
	return huma.Operation{
		OperationID: "ha-storage-load",
		Method:      http.MethodGet,
		Path:        "/ha-storage",
		Summary:     "Получить теневую копию состояния панели",
		Tags:        []string{"storage"},
		Middlewares: h.middleware,
	}
}
