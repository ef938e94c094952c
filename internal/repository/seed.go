package repository

import (
	"slices"
	"time"

	"github.com/iliyamo/smart-campus-hub/internal/model"
)

// Seed is the initial content of a registry. Tests build small seeds of
// their own; the server starts from DefaultSeed.
type Seed struct {
	Menu      []model.MenuItem
	Kitchen   model.KitchenStatus
	Issues    []model.Issue
	Items     []model.LostFoundItem
	Events    []model.Event
	Routes    []model.TransportRoute
	Buildings []model.Building
}

func (r *Registry) load(s Seed) {
	r.menu = slices.Clone(s.Menu)
	r.kitchen = s.Kitchen
	r.kitchen.CurrentLoad = model.LoadFor(r.kitchen.ActiveOrders)
	for i := range s.Issues {
		is := s.Issues[i].Clone()
		r.issues = append(r.issues, &is)
	}
	for i := range s.Items {
		it := s.Items[i]
		r.items = append(r.items, &it)
	}
	for i := range s.Events {
		ev := s.Events[i].Clone()
		r.events = append(r.events, &ev)
	}
	for _, rt := range s.Routes {
		rt.Stops = slices.Clone(rt.Stops)
		r.routes = append(r.routes, rt)
	}
	for _, b := range s.Buildings {
		b.Facilities = slices.Clone(b.Facilities)
		r.buildings = append(r.buildings, b)
	}
}

func ptr[T any](v T) *T { return &v }

// DefaultSeed returns the demo data the campus hub starts with. Relative
// timestamps are computed from now.
func DefaultSeed(now time.Time) Seed {
	const canteen = "Main Canteen"
	ago := func(d time.Duration) time.Time { return now.Add(-d).UTC() }
	return Seed{
		Menu: []model.MenuItem{
			{ID: "1", Name: "Masala Dosa", Category: "South Indian", Canteen: canteen, Price: 60, PrepTime: 10, Available: true, Rating: 4.5, Calories: 320, Image: "dosa"},
			{ID: "2", Name: "Chicken Biryani", Category: "Main Course", Canteen: canteen, Price: 120, PrepTime: 20, Available: true, Rating: 4.8, Calories: 650, Image: "biryani"},
			{ID: "3", Name: "Veg Burger", Category: "Fast Food", Canteen: canteen, Price: 80, PrepTime: 8, Available: true, Rating: 4.2, Calories: 450, Image: "burger"},
			{ID: "4", Name: "Paneer Tikka", Category: "Starters", Canteen: canteen, Price: 100, PrepTime: 15, Available: true, Rating: 4.6, Calories: 380, Image: "tikka"},
			{ID: "5", Name: "Cold Coffee", Category: "Beverages", Canteen: canteen, Price: 50, PrepTime: 5, Available: true, Rating: 4.3, Calories: 180, Image: "coffee"},
			{ID: "6", Name: "Samosa (2pcs)", Category: "Snacks", Canteen: canteen, Price: 30, PrepTime: 3, Available: true, Rating: 4.1, Calories: 220, Image: "samosa"},
			{ID: "7", Name: "Rajma Chawal", Category: "Main Course", Canteen: canteen, Price: 90, PrepTime: 12, Available: false, Rating: 4.4, Calories: 520, Image: "rajma"},
			{ID: "8", Name: "Veg Thali", Category: "Thali", Canteen: canteen, Price: 110, PrepTime: 15, Available: true, Rating: 4.7, Calories: 800, Image: "thali"},
		},
		Kitchen: model.KitchenStatus{
			IsOpen:       true,
			CurrentLoad:  model.LoadMedium,
			AvgWaitTime:  12,
			ActiveOrders: 5,
			Staff:        4,
			Announcement: "Special: 20% off on all thalis today!",
		},
		Issues: []model.Issue{
			{ID: "1", Type: "Electricity", Title: "Flickering lights in Lab 204", Location: "Engineering Block B", Status: model.IssueInProgress, Priority: model.PriorityHigh, ReportedBy: "Ravi Kumar", CreatedAt: ago(24 * time.Hour), Lat: ptr(28.6139), Lng: ptr(77.2090), Updates: []string{"Electrician dispatched", "Parts ordered"}},
			{ID: "2", Type: "Plumbing", Title: "Water leakage near Canteen", Location: "Main Block Ground Floor", Status: model.IssuePending, Priority: model.PriorityMedium, ReportedBy: "Priya Singh", CreatedAt: ago(12 * time.Hour), Lat: ptr(28.6135), Lng: ptr(77.2095), Updates: []string{}},
			{ID: "3", Type: "Cleanliness", Title: "Garbage overflow at Gate 3", Location: "Main Gate", Status: model.IssueResolved, Priority: model.PriorityLow, ReportedBy: "Amit Sharma", CreatedAt: ago(48 * time.Hour), Lat: ptr(28.6142), Lng: ptr(77.2085), Updates: []string{"Cleaned by housekeeping team"}},
		},
		Items: []model.LostFoundItem{
			{ID: "1", Type: model.Lost, Title: "Blue Backpack", Description: "Nike blue backpack with laptop inside", Location: "Library", ReportedBy: "Sneha Patel", Contact: "sneha@campus.edu", CreatedAt: ago(2 * time.Hour), Status: model.LostFoundActive, Category: "Bags"},
			{ID: "2", Type: model.Found, Title: "Water Bottle", Description: "Steel water bottle found near gym", Location: "Gymnasium", ReportedBy: "Karan Mehta", Contact: "karan@campus.edu", CreatedAt: ago(time.Hour), Status: model.LostFoundActive, Category: "Personal Items"},
			{ID: "3", Type: model.Lost, Title: "ID Card", Description: "Student ID card - Rohit Verma", Location: "Cafeteria", ReportedBy: "Rohit Verma", Contact: "rohit@campus.edu", CreatedAt: ago(24 * time.Hour), Status: model.LostFoundClaimed, Category: "Documents"},
		},
		Events: []model.Event{
			{ID: "1", Title: "Tech Symposium 2026", Department: "Computer Science", Type: "workshop", Date: "2026-03-05", Time: "10:00 AM", Venue: "Auditorium", Description: "Annual technical symposium with industry experts", Registrations: 234, MaxCapacity: 300, Tags: []string{"AI", "ML", "Robotics"}, Organizer: "CS Department"},
			{ID: "2", Title: "Cultural Fest - Utsav", Department: "Cultural Committee", Type: "fest", Date: "2026-03-10", Time: "5:00 PM", Venue: "Open Amphitheater", Description: "University's biggest cultural extravaganza", Registrations: 567, MaxCapacity: 1000, Tags: []string{"Dance", "Music", "Art"}, Organizer: "Student Council"},
			{ID: "3", Title: "Hackathon Sprint", Department: "IT Department", Type: "competition", Date: "2026-03-15", Time: "9:00 AM", Venue: "Innovation Lab", Description: "24-hour coding challenge", Registrations: 89, MaxCapacity: 100, Tags: []string{"Coding", "Innovation"}, Organizer: "IT Club"},
			{ID: "4", Title: "Career Fair 2026", Department: "Placement Cell", Type: "career", Date: "2026-03-20", Time: "11:00 AM", Venue: "Convention Center", Description: "Meet top recruiters from 50+ companies", Registrations: 445, MaxCapacity: 500, Tags: []string{"Jobs", "Internship", "Networking"}, Organizer: "Placement Cell"},
			{ID: "5", Title: "Photography Workshop", Department: "Arts", Type: "workshop", Date: "2026-03-08", Time: "2:00 PM", Venue: "Media Room 101", Description: "Learn professional photography techniques", Registrations: 45, MaxCapacity: 60, Tags: []string{"Photography", "Art", "Creative"}, Organizer: "Photo Club"},
		},
		Routes: []model.TransportRoute{
			{ID: "1", Name: "Route A - City Center", Stops: []string{"Campus Gate", "Market Square", "Railway Station", "Bus Terminus"}, Frequency: "30 mins", FirstBus: "6:00 AM", LastBus: "10:00 PM", CurrentStatus: "on-time", NextArrival: 8, VehicleType: "Electric Bus", Capacity: 50, CurrentPassengers: 32},
			{ID: "2", Name: "Route B - North Campus Loop", Stops: []string{"Boys' Hostel", "Girls' Hostel", "Sports Complex", "Library", "Main Gate"}, Frequency: "15 mins", FirstBus: "7:00 AM", LastBus: "11:00 PM", CurrentStatus: "delayed", NextArrival: 18, VehicleType: "Mini Bus", Capacity: 30, CurrentPassengers: 12},
			{ID: "3", Name: "Route C - Airport Express", Stops: []string{"Campus Gate", "Hotel Zone", "International Airport"}, Frequency: "2 hours", FirstBus: "4:00 AM", LastBus: "11:00 PM", CurrentStatus: "on-time", NextArrival: 45, VehicleType: "AC Coach", Capacity: 40, CurrentPassengers: 15},
		},
		Buildings: []model.Building{
			{ID: "1", Name: "Main Academic Block", Type: "academic", Lat: 28.6139, Lng: 77.2090, Description: "Primary teaching block with 60 classrooms", Floors: 5, Facilities: []string{"Classrooms", "Faculty Offices", "Smart Boards"}},
			{ID: "2", Name: "Library & Resource Center", Type: "library", Lat: 28.6145, Lng: 77.2085, Description: "State-of-the-art library with 50,000+ books", Floors: 3, Facilities: []string{"Reading Halls", "Digital Library", "Study Rooms"}},
			{ID: "3", Name: "Engineering Block A", Type: "department", Lat: 28.6132, Lng: 77.2098, Description: "Home to CS, IT, and ECE departments", Floors: 6, Facilities: []string{"Labs", "Workshops", "Research Centers"}},
			{ID: "4", Name: "Boys' Hostel", Type: "hostel", Lat: 28.6150, Lng: 77.2075, Description: "Accommodation for 800 male students", Floors: 8, Facilities: []string{"Rooms", "Common Room", "Gym", "Mess"}},
			{ID: "5", Name: "Girls' Hostel", Type: "hostel", Lat: 28.6128, Lng: 77.2110, Description: "Accommodation for 600 female students", Floors: 6, Facilities: []string{"Rooms", "Common Room", "Beauty Salon", "Mess"}},
			{ID: "6", Name: "Sports Complex", Type: "sports", Lat: 28.6120, Lng: 77.2080, Description: "Multi-sport facility", Floors: 2, Facilities: []string{"Cricket Ground", "Football Field", "Basketball Court", "Swimming Pool"}},
			{ID: "7", Name: "Student Activity Center", Type: "activity", Lat: 28.6142, Lng: 77.2102, Description: "Hub for student clubs and events", Floors: 3, Facilities: []string{"Auditorium", "Music Room", "Art Studio", "Club Rooms"}},
			{ID: "8", Name: "Main Canteen", Type: "food", Lat: 28.6136, Lng: 77.2093, Description: "Central dining facility serving 2000+ students", Floors: 1, Facilities: []string{"Food Court", "Juice Bar", "Mess Hall"}},
			{ID: "9", Name: "Medical Center", Type: "health", Lat: 28.6148, Lng: 77.2100, Description: "24/7 campus health facility", Floors: 2, Facilities: []string{"OPD", "Emergency", "Pharmacy", "Counseling"}},
			{ID: "10", Name: "Administration Block", Type: "admin", Lat: 28.6141, Lng: 77.2082, Description: "Central administrative offices", Floors: 4, Facilities: []string{"Registrar", "Accounts", "Examination Cell"}},
		},
	}
}
