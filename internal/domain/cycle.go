package domain

import "context"

type cycleKey struct{}

// WithCycleID adjunta el identificador del ciclo de monitorización al contexto.
func WithCycleID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, cycleKey{}, id)
}

// CycleIDFrom devuelve el identificador del ciclo, o "" si no hay ninguno.
func CycleIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(cycleKey{}).(string)
	return id
}
