package health

type Input struct{}

type Output struct {
	Body Response
}

// Response состояние сервиса для проверки живости.
type Response struct {
	Status string `json:"status" example:"OK" doc:"Состояние сервиса"`
}
