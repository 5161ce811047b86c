package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"golang.org/x/exp/slog"

	"timekeeper/internal/app/client/config"
	"timekeeper/internal/domain/family"
)

type httpClient struct {
	client    *http.Client
	config    *config.Config
	log       *slog.Logger
	baseURL   string
	signerURL string
	userAgent string
	debug     bool
}

func NewHTTPClient(cfg *config.Config, log *slog.Logger) *httpClient {
	client := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			DisableCompression:  false,
			DisableKeepAlives:   false,
			MaxIdleConnsPerHost: 10,
		},
	}

	return &httpClient{
		client:    client,
		config:    cfg,
		log:       log,
		baseURL:   cfg.ServerURL,
		signerURL: cfg.SignerURL,
		userAgent: "TimeKeeper-Client/1.0",
		debug:     cfg.Debug,
	}
}

// SetDebug включает логирование тел запросов и ответов.
func (h *httpClient) SetDebug(debug bool) {
	h.debug = debug
}

// SetServer переключает адрес семейного сервера.
func (h *httpClient) SetServer(url string) {
	h.baseURL = url
}

// PullStatus запрашивает полный снимок конфигурации.
func (h *httpClient) PullStatus(ctx context.Context, req family.PullRequest) (*family.PullResponse, error) {
	resp, err := h.postJSON(ctx, h.baseURL, "/sync/pull-status", req)
	if err != nil {
		return nil, err
	}

	var pullResp family.PullResponse
	if err := h.parseSyncResponse(resp, &pullResp); err != nil {
		return nil, err
	}
	return &pullResp, nil
}

// PushActions отправляет один пакет подписанных действий.
func (h *httpClient) PushActions(ctx context.Context, req family.PushRequest) (*family.PushResponse, error) {
	resp, err := h.postJSON(ctx, h.baseURL, "/sync/push-actions", req)
	if err != nil {
		return nil, err
	}

	var pushResp family.PushResponse
	if err := h.parseSyncResponse(resp, &pushResp); err != nil {
		return nil, err
	}
	return &pushResp, nil
}

// SHA512Hex устаревший вариант подписи: текстовое сообщение, hex-дайджест.
func (h *httpClient) SHA512Hex(ctx context.Context, message string) (string, error) {
	resp, err := h.postJSON(ctx, h.signerURL, "/calculate-sha512", map[string]string{
		"message": message,
	})
	if err != nil {
		return "", err
	}

	var out struct {
		Hash string `json:"hash"`
	}
	if err := h.parseSyncResponse(resp, &out); err != nil {
		return "", err
	}
	return out.Hash, nil
}

// HMACSHA256 современный вариант подписи: бинарная упаковка на стороне
// коллаборатора, ответ вида "password:"+base64.
func (h *httpClient) HMACSHA256(ctx context.Context, secondHash string, sequenceNumber int64, deviceID, encodedAction string) (string, error) {
	resp, err := h.postJSON(ctx, h.signerURL, "/calculate-hmac-sha256", map[string]interface{}{
		"secondHash":     secondHash,
		"sequenceNumber": sequenceNumber,
		"deviceId":       deviceID,
		"encodedAction":  encodedAction,
	})
	if err != nil {
		return "", err
	}

	var out struct {
		Integrity string `json:"integrity"`
	}
	if err := h.parseSyncResponse(resp, &out); err != nil {
		return "", err
	}
	return out.Integrity, nil
}

// GenerateHashes просит коллаборатора получить пару хэшей из пароля.
func (h *httpClient) GenerateHashes(ctx context.Context, password string) (hash, secondHash, secondSalt string, err error) {
	resp, err := h.postJSON(ctx, h.signerURL, "/generate-hashes", map[string]string{
		"password": password,
	})
	if err != nil {
		return "", "", "", err
	}

	var out struct {
		Hash       string `json:"hash"`
		SecondHash string `json:"secondHash"`
		SecondSalt string `json:"secondSalt"`
	}
	if err := h.parseSyncResponse(resp, &out); err != nil {
		return "", "", "", err
	}
	return out.Hash, out.SecondHash, out.SecondSalt, nil
}

// RegenerateHash восстанавливает secondHash по паролю и известной соли.
func (h *httpClient) RegenerateHash(ctx context.Context, password, secondSalt string) (string, error) {
	resp, err := h.postJSON(ctx, h.signerURL, "/regenerate-hash", map[string]string{
		"password":   password,
		"secondSalt": secondSalt,
	})
	if err != nil {
		return "", err
	}

	var out struct {
		SecondHash string `json:"secondHash"`
	}
	if err := h.parseSyncResponse(resp, &out); err != nil {
		return "", err
	}
	return out.SecondHash, nil
}

func (h *httpClient) postJSON(ctx context.Context, base, path string, body interface{}) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации запроса: %w", err)
	}

	if h.debug {
		h.log.Debug("HTTP запрос", slog.String("path", path), slog.String("body", string(data)))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return resp, nil
}

// parseSyncResponse классифицирует ответ: 401 и прочие не-2xx различаются,
// успешный статус с не-JSON телом - отдельная ошибка с сырым текстом
// для диагностики, состояние вызывающего при этом не меняется.
func (h *httpClient) parseSyncResponse(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}

	if h.debug {
		h.log.Debug("HTTP ответ",
			slog.Int("status", resp.StatusCode),
			slog.String("body", truncate(string(body), 2048)))
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: статус %d", ErrUnauthorized, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: статус %d", ErrServerRejected, resp.StatusCode)
	}

	contentType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if contentType != "application/json" {
		h.log.Warn("не-JSON ответ при успешном статусе",
			slog.String("contentType", contentType),
			slog.String("body", truncate(string(body), 512)))
		return fmt.Errorf("%w: %s", ErrMalformedResponse, truncate(string(body), 200))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
