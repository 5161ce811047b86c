package hash

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) sha512Op() huma.Operation {
	return huma.Operation{
		OperationID: "calculate-sha512",
		Method:      http.MethodPost,
		Path:        "/calculate-sha512",
		Summary:     "SHA-512 для подписи старого формата",
		Tags:        []string{"hash"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) hmacSHA512Op() huma.Operation {
	return huma.Operation{
		OperationID: "calculate-hmac",
		Method:      http.MethodPost,
		Path:        "/calculate-hmac",
		Summary:     "HMAC-SHA512 по ключу в base64",
		Tags:        []string{"hash"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) hmacSHA256Op() huma.Operation {
	return huma.Operation{
		OperationID: "calculate-hmac-sha256",
		Method:      http.MethodPost,
		Path:        "/calculate-hmac-sha256",
		Summary:     "Подпись действия в двоичном формате сервера",
		Tags:        []string{"hash"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) generateOp() huma.Operation {
	return huma.Operation{
		OperationID: "generate-hashes",
		Method:      http.MethodPost,
		Path:        "/generate-hashes",
		Summary:     "Пара bcrypt-хэшей пароля семьи",
		Tags:        []string{"hash"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) regenerateOp() huma.Operation {
	return huma.Operation{
		OperationID: "regenerate-hash",
		Method:      http.MethodPost,
		Path:        "/regenerate-hash",
		Summary:     "Восстановление secondHash по соли",
		Tags:        []string{"hash"},
		Middlewares: h.middleware,
	}
}
