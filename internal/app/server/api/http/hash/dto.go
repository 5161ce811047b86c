package hash

type sha512Input struct {
	Body SHA512Request
}

type SHA512Request struct {
	Message string `json:"message" doc:"Сообщение для SHA-512"`
}

type sha512Output struct {
	Body SHA512Response
}

type SHA512Response struct {
	Hash  string `json:"hash,omitempty"`
	Error string `json:"error,omitempty"`
}

type hmacSHA512Input struct {
	Body HMACSHA512Request
}

type HMACSHA512Request struct {
	Key     string `json:"key" doc:"Ключ в base64"`
	Message string `json:"message"`
}

type hmacSHA512Output struct {
	Body HMACSHA512Response
}

type HMACSHA512Response struct {
	HMAC  string `json:"hmac,omitempty"`
	Error string `json:"error,omitempty"`
}

type hmacSHA256Input struct {
	Body HMACSHA256Request
}

type HMACSHA256Request struct {
	SecondHash     string `json:"secondHash" doc:"Bcrypt-хэш, ключ подписи"`
	SequenceNumber int64  `json:"sequenceNumber"`
	DeviceID       string `json:"deviceId"`
	EncodedAction  string `json:"encodedAction"`
}

type hmacSHA256Output struct {
	Body HMACSHA256Response
}

type HMACSHA256Response struct {
	Integrity string `json:"integrity,omitempty"`
	Error     string `json:"error,omitempty"`
}

type generateInput struct {
	Body GenerateRequest
}

type GenerateRequest struct {
	Password string `json:"password"`
}

type generateOutput struct {
	Body GenerateResponse
}

type GenerateResponse struct {
	Hash       string `json:"hash,omitempty"`
	SecondHash string `json:"secondHash,omitempty"`
	SecondSalt string `json:"secondSalt,omitempty"`
	Error      string `json:"error,omitempty"`
}

type regenerateInput struct {
	Body RegenerateRequest
}

type RegenerateRequest struct {
	Password   string `json:"password"`
	SecondSalt string `json:"secondSalt"`
}

type regenerateOutput struct {
	Body RegenerateResponse
}

type RegenerateResponse struct {
	SecondHash string `json:"secondHash,omitempty"`
	Error      string `json:"error,omitempty"`
}
