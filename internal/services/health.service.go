package services

import (
	"context"
	"fmt"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthService pings each named dependency in turn.
type HealthService struct {
	names   []string
	pingers []Pinger
}

func NewHealthService() *HealthService {
	return &HealthService{}
}

func (s *HealthService) Register(name string, p Pinger) *HealthService {
	s.names = append(s.names, name)
	s.pingers = append(s.pingers, p)
	return s
}

func (s *HealthService) Check(ctx context.Context) error {
	for i, p := range s.pingers {
		if err := p.Ping(ctx); err != nil {
			return fmt.Errorf("%s: %w", s.names[i], err)
		}
	}
	return nil
}
