package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/blowfish"
)

// Реализация bcrypt поверх blowfish: в отличие от x/crypto/bcrypt здесь
// можно захэшировать пароль с УЖЕ известной солью, что требуется для
// восстановления secondHash по соли, которую возвращает сервер семьи.

const (
	DefaultCost = 12

	minCost       = 4
	maxCost       = 31
	saltBytes     = 16
	checksumBytes = 23
	maxKeyLen     = 72

	// "OrpheanBeholderScryDoubt", три блока blowfish.
	magicLen = 24
)

var bcryptMagic = []byte("OrpheanBeholderScryDoubt")

var bcryptEncoding = base64.
	NewEncoding("./ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789").
	WithPadding(base64.NoPadding)

// GenerateSalt возвращает соль в текстовой форме "$2a$NN$<22 символа>".
func GenerateSalt(cost int) (string, error) {
	if cost < minCost || cost > maxCost {
		return "", fmt.Errorf("недопустимая стоимость bcrypt: %d", cost)
	}

	raw := make([]byte, saltBytes)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return "", fmt.Errorf("ошибка генерации соли: %w", err)
	}

	return fmt.Sprintf("$2a$%02d$%s", cost, bcryptEncoding.EncodeToString(raw)), nil
}

// HashWithSalt хэширует пароль существующей солью и возвращает полную
// строку хэша с тем же префиксом версии, что и у соли.
func HashWithSalt(password, salt string) (string, error) {
	prefix, cost, rawSalt, err := parseSalt(salt)
	if err != nil {
		return "", err
	}

	key := []byte(password)
	if len(key) > maxKeyLen {
		key = key[:maxKeyLen]
	}
	// Ключ всегда завершается нулевым байтом.
	key = append(key[:len(key):len(key)], 0)

	cipher, err := expensiveSetup(key, rawSalt, cost)
	if err != nil {
		return "", err
	}

	checksum := make([]byte, magicLen)
	copy(checksum, bcryptMagic)
	for block := 0; block < magicLen; block += 8 {
		for i := 0; i < 64; i++ {
			cipher.Encrypt(checksum[block:block+8], checksum[block:block+8])
		}
	}

	return fmt.Sprintf("%s%02d$%s%s",
		prefix, cost,
		bcryptEncoding.EncodeToString(rawSalt),
		bcryptEncoding.EncodeToString(checksum[:checksumBytes]),
	), nil
}

func expensiveSetup(key, salt []byte, cost int) (*blowfish.Cipher, error) {
	cipher, err := blowfish.NewSaltedCipher(key, salt)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации blowfish: %w", err)
	}

	rounds := uint64(1) << uint(cost)
	for i := uint64(0); i < rounds; i++ {
		blowfish.ExpandKey(key, cipher)
		blowfish.ExpandKey(salt, cipher)
	}

	return cipher, nil
}

func parseSalt(salt string) (prefix string, cost int, raw []byte, err error) {
	if len(salt) < 29 || salt[0] != '$' {
		return "", 0, nil, fmt.Errorf("некорректная соль bcrypt: %q", salt)
	}

	switch {
	case strings.HasPrefix(salt, "$2a$"), strings.HasPrefix(salt, "$2b$"), strings.HasPrefix(salt, "$2y$"):
		prefix = salt[:4]
	default:
		return "", 0, nil, fmt.Errorf("неизвестная версия bcrypt: %q", salt[:4])
	}

	cost, err = strconv.Atoi(salt[4:6])
	if err != nil || cost < minCost || cost > maxCost {
		return "", 0, nil, fmt.Errorf("некорректная стоимость bcrypt: %q", salt[4:6])
	}

	raw, err = bcryptEncoding.DecodeString(salt[7:29])
	if err != nil {
		return "", 0, nil, fmt.Errorf("ошибка декодирования соли: %w", err)
	}
	if len(raw) > saltBytes {
		raw = raw[:saltBytes]
	}

	return prefix, cost, raw, nil
}
