package marketplace

import "context"

const (
	routeHealth = "/health/"
	routePing   = "/ping/"

	StatusHealthy = "healthy"
)

type Health struct {
	App      string `json:"app"`
	Status   string `json:"status"`
	Database string `json:"database"`
}

func (h Health) IsHealthy() bool {
	return h.Status == StatusHealthy
}

type Ping struct {
	Status string `json:"status"`
}

func (s *Service) Health(ctx context.Context) (*Health, error) {
	var health Health
	if err := s.client.Get(ctx, routeHealth, nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

func (s *Service) Ping(ctx context.Context) (*Ping, error) {
	var ping Ping
	if err := s.client.Get(ctx, routePing, nil, &ping); err != nil {
		return nil, err
	}
	return &ping, nil
}
