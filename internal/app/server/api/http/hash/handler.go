package hash

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"timekeeper/internal/app/server/crypto"
)

type Handler struct {
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.sha512Op(), h.sha512)
	huma.Register(api, h.hmacSHA512Op(), h.hmacSHA512)
	huma.Register(api, h.hmacSHA256Op(), h.hmacSHA256)
	huma.Register(api, h.generateOp(), h.generate)
	huma.Register(api, h.regenerateOp(), h.regenerate)
}

func (h *Handler) sha512(_ context.Context, input *sha512Input) (*sha512Output, error) {
	return &sha512Output{
		Body: SHA512Response{Hash: crypto.SHA512Hex(input.Body.Message)},
	}, nil
}

func (h *Handler) hmacSHA512(_ context.Context, input *hmacSHA512Input) (*hmacSHA512Output, error) {
	mac, err := crypto.HMACSHA512(input.Body.Key, input.Body.Message)
	if err != nil {
		h.log.Warn("ошибка вычисления HMAC-SHA512", slog.String("error", err.Error()))
		return &hmacSHA512Output{Body: HMACSHA512Response{Error: err.Error()}}, nil
	}

	return &hmacSHA512Output{Body: HMACSHA512Response{HMAC: mac}}, nil
}

func (h *Handler) hmacSHA256(_ context.Context, input *hmacSHA256Input) (*hmacSHA256Output, error) {
	integrity := crypto.HMACSHA256Binary(
		input.Body.SecondHash,
		input.Body.SequenceNumber,
		input.Body.DeviceID,
		input.Body.EncodedAction,
	)

	return &hmacSHA256Output{Body: HMACSHA256Response{Integrity: integrity}}, nil
}

func (h *Handler) generate(_ context.Context, input *generateInput) (*generateOutput, error) {
	hashes, err := crypto.GenerateFamilyHashes(input.Body.Password)
	if err != nil {
		h.log.Error("ошибка генерации хэшей", slog.String("error", err.Error()))
		return &generateOutput{Body: GenerateResponse{Error: err.Error()}}, nil
	}

	return &generateOutput{
		Body: GenerateResponse{
			Hash:       hashes.Hash,
			SecondHash: hashes.SecondHash,
			SecondSalt: hashes.SecondSalt,
		},
	}, nil
}

func (h *Handler) regenerate(_ context.Context, input *regenerateInput) (*regenerateOutput, error) {
	secondHash, err := crypto.RegenerateSecondHash(input.Body.Password, input.Body.SecondSalt)
	if err != nil {
		h.log.Warn("ошибка восстановления secondHash", slog.String("error", err.Error()))
		return &regenerateOutput{Body: RegenerateResponse{Error: err.Error()}}, nil
	}

	return &regenerateOutput{Body: RegenerateResponse{SecondHash: secondHash}}, nil
}
