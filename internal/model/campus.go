package model

// TransportRoute is a campus bus route. Routes are static seed data.
type TransportRoute struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Stops     []string `json:"stops"` // in travel order
	Frequency string   `json:"frequency"`
	FirstBus  string   `json:"firstBus"`
	LastBus   string   `json:"lastBus"`

	// CurrentStatus is on-time, delayed or cancelled; NextArrival is in
	// minutes.
	CurrentStatus string `json:"currentStatus"`
	NextArrival   int    `json:"nextArrival"`

	VehicleType string `json:"vehicleType"`
	Capacity    int    `json:"capacity"`

	CurrentPassengers int `json:"currentPassengers"` // not checked against Capacity
}

// Building is a point on the campus map.
type Building struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Lat         float64  `json:"lat"`
	Lng         float64  `json:"lng"`
	Description string   `json:"description"`
	Floors      int      `json:"floors"`
	Facilities  []string `json:"facilities"`
}

// BuildingFilter narrows the map listing by building type.
type BuildingFilter struct {
	Type string
}
