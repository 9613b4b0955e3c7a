package ports

import "context"

// ResponseCache guarda respuestas crudas del proveedor con un TTL único.
// Una entrada expirada se comporta como miss.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Put(ctx context.Context, key string, payload []byte)

	// PurgeExpired elimina entradas expiradas y devuelve cuántas borró.
	PurgeExpired(ctx context.Context) int

	// Len devuelve el número de entradas almacenadas.
	Len(ctx context.Context) int
}
