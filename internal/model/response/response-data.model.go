package response

type ErrorData struct {
	Error string `json:"error"`
}

type MessageData struct {
	Message string `json:"message"`
}

type TokenData struct {
	Token string `json:"token"`
}
