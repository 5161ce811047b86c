package signing

import (
	"context"
	"errors"
	"strconv"

	"golang.org/x/exp/slog"
)

// Sentinel заведомо плохая подпись. Действие с ней все равно упаковывается
// и отправляется, сервер его отклонит - это мягкий отказ, не падение.
const Sentinel = "device"

// modernAPILevel минимальный уровень протокола с HMAC-подписью.
const modernAPILevel = 6

var (
	// ErrNoSecret отсутствует секрет, производный от пароля родителя.
	ErrNoSecret = errors.New("секрет подписи не задан")
)

// Collaborator внешний исполнитель криптографических примитивов.
// Само ядро дайджесты не считает: бинарная совместимость форматов
// принадлежит коллаборатору.
type Collaborator interface {
	// SHA512Hex возвращает hex-дайджест SHA-512 от текстового сообщения.
	SHA512Hex(ctx context.Context, message string) (string, error)

	// HMACSHA256 возвращает строку вида "password:"+base64(HMAC-SHA256)
	// над бинарной упаковкой аргументов.
	HMACSHA256(ctx context.Context, secondHash string, sequenceNumber int64, deviceID, encodedAction string) (string, error)
}

// Request входные данные подписи одного действия
type Request struct {
	SequenceNumber int64
	DeviceID       string
	EncodedAction  string
}

// Result результат подписи. Signed=false означает, что в Integrity лежит
// сентинел и сервер отклонит действие; Reason объясняет причину.
type Result struct {
	Integrity string
	Signed    bool
	Reason    error
}

// Unsigned собирает мягкий отказ с сентинелом.
func Unsigned(reason error) Result {
	return Result{Integrity: Sentinel, Signed: false, Reason: reason}
}

// Signer выбирает вариант подписи по согласованному уровню протокола.
type Signer struct {
	collab Collaborator
	log    *slog.Logger
}

// NewSigner создает подписывающий компонент.
func NewSigner(collab Collaborator, log *slog.Logger) *Signer {
	return &Signer{
		collab: collab,
		log:    log.With(slog.String("component", "signer")),
	}
}

// Sign подписывает одно действие. apiLevel=nil означает неизвестный уровень
// и трактуется как современный. Любой сбой коллаборатора деградирует
// в сентинел, никогда не поднимается наверх.
func (s *Signer) Sign(ctx context.Context, apiLevel *int, secondHash string, req Request) Result {
	if secondHash == "" {
		return Unsigned(ErrNoSecret)
	}

	if apiLevel != nil && *apiLevel < modernAPILevel {
		return s.signLegacy(ctx, secondHash, req)
	}
	return s.signModern(ctx, secondHash, req)
}

// Устаревший вариант: конкатенация без разделителей, SHA-512 hex как есть.
func (s *Signer) signLegacy(ctx context.Context, secondHash string, req Request) Result {
	message := strconv.FormatInt(req.SequenceNumber, 10) + req.DeviceID + secondHash + req.EncodedAction

	digest, err := s.collab.SHA512Hex(ctx, message)
	if err != nil {
		s.log.Warn("подпись не удалась, действие уйдет с сентинелом",
			slog.Int64("sequence", req.SequenceNumber),
			slog.String("error", err.Error()))
		return Unsigned(err)
	}
	return Result{Integrity: digest, Signed: true}
}

func (s *Signer) signModern(ctx context.Context, secondHash string, req Request) Result {
	integrity, err := s.collab.HMACSHA256(ctx, secondHash, req.SequenceNumber, req.DeviceID, req.EncodedAction)
	if err != nil {
		s.log.Warn("подпись не удалась, действие уйдет с сентинелом",
			slog.Int64("sequence", req.SequenceNumber),
			slog.String("error", err.Error()))
		return Unsigned(err)
	}
	return Result{Integrity: integrity, Signed: true}
}
