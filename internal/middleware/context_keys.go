package middleware

import "context"

// operatorKey stores the authenticated operator (JWT subject) in the request context.
const operatorKey = contextKey("operator")

// GetOperatorFromContext returns the authenticated operator, if any.
func GetOperatorFromContext(ctx context.Context) (string, bool) {
	operator, ok := ctx.Value(operatorKey).(string)
	return operator, ok && operator != ""
}
