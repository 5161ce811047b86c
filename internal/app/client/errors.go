package client

import "errors"

var (
	// ErrInvalidToken токен пуст или содержит маркер фрагмента - такое
	// значение попадает в хранилище из обрезанных ссылок и не должно
	// уходить в сеть.
	ErrInvalidToken = errors.New("токен устройства отсутствует или некорректен")

	// ErrMissingSigningSecret нет секрета, производного от пароля родителя.
	ErrMissingSigningSecret = errors.New("секрет подписи не настроен")

	// ErrTransport сетевой сбой: состояние не тронуто, повтор только
	// следующим запуском синхронизации.
	ErrTransport = errors.New("сетевая ошибка")

	// ErrUnauthorized сервер ответил 401.
	ErrUnauthorized = errors.New("сервер отклонил аутентификацию")

	// ErrServerRejected сервер ответил не-2xx статусом, отличным от 401.
	ErrServerRejected = errors.New("сервер отклонил запрос")

	// ErrMalformedResponse успешный статус, но тело не JSON.
	ErrMalformedResponse = errors.New("сервер вернул не-JSON ответ")
)
