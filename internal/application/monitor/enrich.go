package monitor

// enrich.go — worker pool para adjuntar estadísticas y cuotas a cada fixture.
//
// Cada fixture son dos requests al proveedor. Con workers > 1 se solapan las
// esperas de red; el orden de salida siempre es el de entrada.

import (
	"context"
	"log/slog"
	"sync"

	"github.com/alejandrodnm/livevalue/internal/domain"
	"github.com/alejandrodnm/livevalue/internal/ports"
)

// enrichConcurrent devuelve los fixtures con Statistics y Odds rellenos.
// Los fixtures que ya traen estadísticas las conservan.
func enrichConcurrent(
	ctx context.Context,
	provider ports.FixtureProvider,
	fixtures []domain.Fixture,
	workers int,
) []domain.Fixture {
	out := make([]domain.Fixture, len(fixtures))
	if workers <= 1 || len(fixtures) <= 1 {
		for i, f := range fixtures {
			out[i] = enrich(ctx, provider, f)
		}
		return out
	}
	if workers > len(fixtures) {
		workers = len(fixtures)
	}

	workCh := make(chan int, len(fixtures))

	// Cada worker escribe solo en su índice; no hace falta canal de resultados.
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range workCh {
				out[idx] = enrich(ctx, provider, fixtures[idx])
			}
		}()
	}

	for i := range fixtures {
		workCh <- i
	}
	close(workCh)
	wg.Wait()

	slog.Debug("concurrent enrichment complete",
		"fixtures", len(fixtures),
		"workers", workers,
	)
	return out
}

func enrich(ctx context.Context, provider ports.FixtureProvider, f domain.Fixture) domain.Fixture {
	if len(f.Statistics) == 0 {
		f.Statistics = provider.FixtureStatistics(ctx, f.ID)
	}
	f.Odds = provider.FixtureOdds(ctx, f.ID)
	return f
}
