package repository

import (
	"slices"

	"github.com/iliyamo/smart-campus-hub/internal/model"
)

// Routes and buildings never change after load, so reads only copy the
// nested slices.

func (r *Registry) ListRoutes() []model.TransportRoute {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.TransportRoute, len(r.routes))
	for i, rt := range r.routes {
		rt.Stops = slices.Clone(rt.Stops)
		out[i] = rt
	}
	return out
}

func (r *Registry) GetRoute(id string) (model.TransportRoute, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rt := range r.routes {
		if rt.ID == id {
			rt.Stops = slices.Clone(rt.Stops)
			return rt, nil
		}
	}
	return model.TransportRoute{}, notFound("route")
}

func (r *Registry) ListBuildings(f model.BuildingFilter) []model.Building {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.Building, 0, len(r.buildings))
	for _, b := range r.buildings {
		if f.Type != "" && b.Type != f.Type {
			continue
		}
		b.Facilities = slices.Clone(b.Facilities)
		out = append(out, b)
	}
	return out
}
