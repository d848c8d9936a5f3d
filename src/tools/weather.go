package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	agent "github.com/Protocol-Lattice/chat-agent"
	"github.com/Protocol-Lattice/chat-agent/src/weather"
)

// WeatherLookup fetches readings for several cities at once.
type WeatherLookup interface {
	LookupAll(ctx context.Context, cities []string) ([]weather.Reading, error)
}

// WeatherTool reports the current weather for one or more cities.
type WeatherTool struct {
	Lookup WeatherLookup
}

func (w *WeatherTool) Spec() agent.ToolSpec {
	return agent.ToolSpec{
		Name:        agent.ToolGetWeather,
		Description: "Get current weather for one or more cities. Use 'cities' parameter as string for single city or array of strings for multiple cities.",
	}
}

func (w *WeatherTool) Invoke(ctx context.Context, params agent.Params) (any, error) {
	cities, err := params.Strings("cities")
	if err != nil {
		return nil, err
	}
	cities = compact(cities)
	if len(cities) == 0 {
		return nil, errors.New("at least one city is required")
	}
	if w.Lookup == nil {
		return nil, fmt.Errorf("Failed to fetch weather data: %w", weather.ErrNotConfigured)
	}
	readings, err := w.Lookup.LookupAll(ctx, cities)
	if err != nil {
		return nil, fmt.Errorf("Failed to fetch weather data: %w", err)
	}
	return readings, nil
}

func compact(values []string) []string {
	out := values[:0:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
