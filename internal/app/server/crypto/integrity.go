package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// FamilyHashes содержит пару bcrypt-хэшей пароля семьи: основной хэш для
// аутентификации и secondHash для подписи действий вместе с его солью.
type FamilyHashes struct {
	Hash       string `json:"hash"`
	SecondHash string `json:"secondHash"`
	SecondSalt string `json:"secondSalt"`
}

// GenerateFamilyHashes строит оба хэша с независимыми солями, стоимость 12.
func GenerateFamilyHashes(password string) (*FamilyHashes, error) {
	salt1, err := GenerateSalt(DefaultCost)
	if err != nil {
		return nil, err
	}
	salt2, err := GenerateSalt(DefaultCost)
	if err != nil {
		return nil, err
	}

	hash, err := HashWithSalt(password, salt1)
	if err != nil {
		return nil, fmt.Errorf("ошибка хэширования пароля: %w", err)
	}
	secondHash, err := HashWithSalt(password, salt2)
	if err != nil {
		return nil, fmt.Errorf("ошибка хэширования пароля: %w", err)
	}

	return &FamilyHashes{
		Hash:       hash,
		SecondHash: secondHash,
		SecondSalt: salt2,
	}, nil
}

// RegenerateSecondHash восстанавливает secondHash по соли, которую
// вернул сервер: сервер хранит только соль, не сам хэш.
func RegenerateSecondHash(password, secondSalt string) (string, error) {
	return HashWithSalt(password, secondSalt)
}

// SHA512Hex возвращает hex-дайджест SHA-512 сообщения.
func SHA512Hex(message string) string {
	sum := sha512.Sum512([]byte(message))
	return hex.EncodeToString(sum[:])
}

// HMACSHA512 подписывает сообщение ключом в base64 и возвращает base64-подпись.
func HMACSHA512(keyBase64, message string) (string, error) {
	key, err := base64.StdEncoding.DecodeString(keyBase64)
	if err != nil {
		return "", fmt.Errorf("ошибка декодирования ключа: %w", err)
	}

	mac := hmac.New(sha512.New, key)
	mac.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}

// HMACSHA256Binary подписывает действие в двоичном формате, который
// ожидает сервер семьи:
//
//	sequenceNumber  8 байт, big-endian
//	len(deviceId)   4 байта, big-endian
//	deviceId        байты UTF-8
//	len(action)     4 байта, big-endian
//	action          байты UTF-8
//
// Ключ — строка secondHash как есть. Результат: "password:" + base64(HMAC).
func HMACSHA256Binary(secondHash string, sequenceNumber int64, deviceID, encodedAction string) string {
	deviceBytes := []byte(deviceID)
	actionBytes := []byte(encodedAction)

	message := make([]byte, 0, 8+4+len(deviceBytes)+4+len(actionBytes))
	message = binary.BigEndian.AppendUint64(message, uint64(sequenceNumber))
	message = binary.BigEndian.AppendUint32(message, uint32(len(deviceBytes)))
	message = append(message, deviceBytes...)
	message = binary.BigEndian.AppendUint32(message, uint32(len(actionBytes)))
	message = append(message, actionBytes...)

	mac := hmac.New(sha256.New, []byte(secondHash))
	mac.Write(message)
	return "password:" + base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
