package constant

import (
	"github.com/duccv/employee-api/internal/model/response"
)

const (
	MsgNoToken            = "No token, authorization denied"
	MsgInvalidToken       = "Invalid token"
	MsgUserNotFound       = "User not found"
	MsgInvalidCredentials = "Invalid credentials"
	MsgEmployeeNotFound   = "Employee not found"
	MsgInternalError      = "Internal server error"
	MsgRequestTimeout     = "Request timeout"

	MsgUserRegistered  = "User registered successfully"
	MsgEmployeeDeleted = "Employee deleted successfully"
	MsgWelcome         = "Welcome to the API!"
)

var NO_TOKEN = response.ErrorData{Error: MsgNoToken}

var INVALID_TOKEN = response.ErrorData{Error: MsgInvalidToken}

var INTERNAL_SERVER_ERROR = response.ErrorData{Error: MsgInternalError}

var REQUEST_TIMEOUT = response.ErrorData{Error: MsgRequestTimeout}
