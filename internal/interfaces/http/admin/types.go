package admin

type purgeTargetResponse struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

type purgeResponse struct {
	Removed int    `json:"removed"`
	Message string `json:"message"`
}

type purgeErrorResponse struct {
	Error   string `json:"error"`
	Removed int    `json:"removed"`
}
