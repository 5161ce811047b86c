package storage

type saveInput struct {
	Body map[string]interface{}
}

type saveOutput struct {
	Body SaveResponse
}

type SaveResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type loadInput struct{}

type loadOutput struct {
	Body map[string]interface{}
}
