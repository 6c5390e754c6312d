// internal/logging/context.go
package logging

import (
	"context"

	"github.com/juancollazo-ch/order-confirmation-service/internal/contextkeys"
	"go.uber.org/zap"
)

// GetLoggingFieldsFromContext extrae los campos de logging (trace_id, order_id)
// del contexto y los devuelve como un slice de zap.Field.
func GetLoggingFieldsFromContext(ctx context.Context) []zap.Field {
	fields := []zap.Field{}
	if tid, ok := ctx.Value(contextkeys.TraceIDKey).(string); ok && tid != "" {
		fields = append(fields, zap.String("trace_id", tid))
	}
	if oid, ok := ctx.Value(contextkeys.OrderIDKey).(string); ok && oid != "" {
		fields = append(fields, zap.String("order_id", oid))
	}
	return fields
}

// WithTraceID guarda el trace id en el contexto si no está vacío.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	if traceID == "" {
		return ctx
	}
	return context.WithValue(ctx, contextkeys.TraceIDKey, traceID)
}

// WithOrderID guarda el order id en el contexto si no está vacío.
func WithOrderID(ctx context.Context, orderID string) context.Context {
	if orderID == "" {
		return ctx
	}
	return context.WithValue(ctx, contextkeys.OrderIDKey, orderID)
}

// TraceID devuelve el trace id guardado, o "".
func TraceID(ctx context.Context) string {
	tid, _ := ctx.Value(contextkeys.TraceIDKey).(string)
	return tid
}

// FromContext devuelve el logger global con los campos del contexto.
func FromContext(ctx context.Context) *zap.Logger {
	return zap.L().With(GetLoggingFieldsFromContext(ctx)...)
}
