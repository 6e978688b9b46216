package parking

// ParkingSpot is one physical spot in the facility. Available is the only
// thing that decides whether the spot may be handed out.
type ParkingSpot struct {
	Number    int
	Category  Category
	Available bool
}

func NewParkingSpot(number int, category Category) *ParkingSpot {
	return &ParkingSpot{
		Number:    number,
		Category:  category,
		Available: true,
	}
}

func (s *ParkingSpot) Occupy() {
	s.Available = false
}

func (s *ParkingSpot) Release() {
	s.Available = true
}
