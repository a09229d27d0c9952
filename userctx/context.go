// Package userctx carries the signed-in operator through request contexts.
package userctx

import "context"

// Context key type
type contextKey string

const operatorKey contextKey = "operator"

// Anonymous is reported when no operator is signed in
const Anonymous = "anonymous"

// Operator is the person using the application, not a managed user record
type Operator struct {
	Subject string
	Name    string
}

// WithOperator adds the signed-in operator to ctx
func WithOperator(ctx context.Context, op Operator) context.Context {
	return context.WithValue(ctx, operatorKey, op)
}

// GetOperator retrieves the operator from ctx
func GetOperator(ctx context.Context) (Operator, bool) {
	op, ok := ctx.Value(operatorKey).(Operator)
	return op, ok
}

// OperatorName returns the operator display name or Anonymous
func OperatorName(ctx context.Context) string {
	if op, ok := GetOperator(ctx); ok && op.Name != "" {
		return op.Name
	}
	return Anonymous
}
