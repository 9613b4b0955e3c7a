package apifootball

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const (
	DefaultBaseURL = "https://v3.football.api-sports.io"
	defaultHost    = "v3.football.api-sports.io"

	// Plan gratuito de API-Football.
	DefaultRequestsPerMinute = 10
	DefaultRequestsPerDay    = 100
)

// Endpoints son los paths del proveedor. Los query params los arma el cliente.
type Endpoints struct {
	LiveFixtures      string // GET ?live=all
	FixtureStatistics string // GET ?fixture={id}
	FixtureOdds       string // GET ?fixture={id}
}

// ProviderConfig identifica un proveedor upstream. Inmutable tras construirse.
type ProviderConfig struct {
	Name              string
	BaseURL           string
	Headers           map[string]string
	Endpoints         Endpoints
	RequestsPerMinute int
	RequestsPerDay    int // solo informativo; la medición real la hace la cuenta del proveedor
}

// DefaultAPIFootball devuelve la configuración de API-Football v3 con la api key dada.
func DefaultAPIFootball(apiKey string) ProviderConfig {
	return ProviderConfig{
		Name:    "api-football",
		BaseURL: DefaultBaseURL,
		Headers: map[string]string{
			"x-apisports-key":  apiKey,
			"x-apisports-host": defaultHost,
		},
		Endpoints: Endpoints{
			LiveFixtures:      "/fixtures",
			FixtureStatistics: "/fixtures/statistics",
			FixtureOdds:       "/odds",
		},
		RequestsPerMinute: DefaultRequestsPerMinute,
		RequestsPerDay:    DefaultRequestsPerDay,
	}
}

// Validate rechaza configuraciones incompletas.
func (p ProviderConfig) Validate() error {
	var errs []error
	if p.Name == "" {
		errs = append(errs, errors.New("name is empty"))
	}
	if u, err := url.Parse(p.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("invalid base url %q", p.BaseURL))
	}
	for name, path := range map[string]string{
		"live_fixtures":      p.Endpoints.LiveFixtures,
		"fixture_statistics": p.Endpoints.FixtureStatistics,
		"fixture_odds":       p.Endpoints.FixtureOdds,
	} {
		if !strings.HasPrefix(path, "/") {
			errs = append(errs, fmt.Errorf("endpoint %s must start with '/', got %q", name, path))
		}
	}
	if p.RequestsPerMinute <= 0 {
		errs = append(errs, fmt.Errorf("requests_per_minute must be > 0, got %d", p.RequestsPerMinute))
	}
	if p.RequestsPerDay < 0 {
		errs = append(errs, fmt.Errorf("requests_per_day must be >= 0, got %d", p.RequestsPerDay))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("apifootball.ProviderConfig: %w", err)
	}
	return nil
}

func (p ProviderConfig) clone() ProviderConfig {
	c := p
	c.Headers = make(map[string]string, len(p.Headers))
	for k, v := range p.Headers {
		c.Headers[k] = v
	}
	return c
}
