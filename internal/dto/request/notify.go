package request

type TestNotifyRequest struct {
	Text string `json:"text" validate:"omitempty,max=4000"`
}
