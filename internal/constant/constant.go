package constant

// Constant package provides constants used throughout the application.

type ctxKey string

const (
	CorrelationIDKey ctxKey = "CorrelationID"
	ClaimsKey        ctxKey = "Claims"
)

// Keys used with gin.Context.Set/Get.
const (
	GinClaimsKey    = "jwtClaims"
	GinUserIDKey    = "userId"
	GinRequestIDKey = "requestId"
)

const CorrelationIDHeader = "X-Correlation-ID"
