package health

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) healthCheckOp() huma.Operation {
	return huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Проверка живости сервиса",
		Description: "Возвращает состояние сервиса, для супервизора надстройки",
		Tags:        []string{"health"},
		Middlewares: h.middleware,
	}
}
