package hash

import (
	"context"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func newHandler() *Handler {
	return NewHandler(slog.Default(), huma.Middlewares{})
}

func TestHandler_sha512(t *testing.T) {
	output, err := newHandler().sha512(context.Background(), &sha512Input{
		Body: SHA512Request{Message: "abc"},
	})

	require.NoError(t, err)
	assert.Equal(t,
		"ddaf35a193617abacc417349ae20413112e6fa4e89a97ea20a9eeee64b55d39a"+
			"2192992a274fc1a836ba3c23a3feebbd454d4423643ce80e2a9ac94fa54ca49f",
		output.Body.Hash)
}

func TestHandler_hmacSHA512BadKey(t *testing.T) {
	output, err := newHandler().hmacSHA512(context.Background(), &hmacSHA512Input{
		Body: HMACSHA512Request{Key: "%%%", Message: "m"},
	})

	require.NoError(t, err)
	assert.Empty(t, output.Body.HMAC)
	assert.NotEmpty(t, output.Body.Error)
}

func TestHandler_hmacSHA256(t *testing.T) {
	output, err := newHandler().hmacSHA256(context.Background(), &hmacSHA256Input{
		Body: HMACSHA256Request{
			SecondHash:     "$2a$12$abcdefghijklmnopqrstuv",
			SequenceNumber: 3,
			DeviceID:       "dev1",
			EncodedAction:  `{"type":"DELETE_TIMELIMIT_RULE","ruleId":"r1"}`,
		},
	})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(output.Body.Integrity, "password:"))
}

func TestHandler_generateAndRegenerate(t *testing.T) {
	h := newHandler()

	gen, err := h.generate(context.Background(), &generateInput{
		Body: GenerateRequest{Password: "geheim123"},
	})
	require.NoError(t, err)
	require.Empty(t, gen.Body.Error)

	regen, err := h.regenerate(context.Background(), &regenerateInput{
		Body: RegenerateRequest{Password: "geheim123", SecondSalt: gen.Body.SecondSalt},
	})
	require.NoError(t, err)
	assert.Equal(t, gen.Body.SecondHash, regen.Body.SecondHash)
}

func TestHandler_regenerateBadSalt(t *testing.T) {
	output, err := newHandler().regenerate(context.Background(), &regenerateInput{
		Body: RegenerateRequest{Password: "p", SecondSalt: "garbage"},
	})

	require.NoError(t, err)
	assert.Empty(t, output.Body.SecondHash)
	assert.NotEmpty(t, output.Body.Error)
}
