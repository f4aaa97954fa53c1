package types

import "github.com/google/uuid"

// CityCenterType marks the synthetic attraction used as the starting point
// of a cross-city trip. It is created on demand and never persisted.
const CityCenterType = "城市中心"

// Attraction is a read-only candidate stop supplied by the catalog.
// Rating, Price and coordinates are nullable: an attraction without
// coordinates still takes part in selection but contributes nothing to
// distance scoring.
type Attraction struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	City        string    `json:"city"`
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
	Duration    string    `json:"duration,omitempty"`
	Rating      *float64  `json:"rating,omitempty"`
	Price       *float64  `json:"price,omitempty"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
}

// HasCoordinates reports whether the attraction can participate in
// distance-based scoring and travel estimation.
func (a *Attraction) HasCoordinates() bool {
	return a != nil && a.Latitude != nil && a.Longitude != nil
}

// IsCityCenter reports whether this is the synthetic city-center placeholder
// (sentinel uuid.Nil id).
func (a *Attraction) IsCityCenter() bool {
	return a != nil && a.ID == uuid.Nil
}

// RatingValue returns the rating or 0 when unrated.
func (a *Attraction) RatingValue() float64 {
	if a == nil || a.Rating == nil {
		return 0
	}
	return *a.Rating
}

// WeatherDayForecast is one day of a forecast sequence. Weather and
// Temperature are free text as delivered upstream; numeric fields are
// best-effort extractions.
type WeatherDayForecast struct {
	Date        string  `json:"date"`
	Weather     string  `json:"weather"`
	Temperature string  `json:"temperature"`
	TempMin     float64 `json:"temp_min,omitempty"`
	TempMax     float64 `json:"temp_max,omitempty"`
	TempAvg     float64 `json:"temp_avg,omitempty"`
	WindLevel   int     `json:"wind_level,omitempty"`
}

// TravelInfo describes the leg between two consecutive stops in a day.
type TravelInfo struct {
	Transportation string `json:"transportation"`
	TravelTime     string `json:"travel_time"`
	Distance       string `json:"distance"`
}

// StopEntry is one scheduled attraction within a day plan. TravelInfo is nil
// for the first stop of a day.
type StopEntry struct {
	Attraction *Attraction `json:"attraction"`
	VisitTime  string      `json:"visit_time"`
	TravelInfo *TravelInfo `json:"travel_info,omitempty"`
}

// RiskAssessment annotates one scheduled attraction with a weather risk
// level and avoidance advice.
type RiskAssessment struct {
	AttractionID   uuid.UUID `json:"attraction_id"`
	AttractionName string    `json:"attraction_name"`
	RiskLevel      string    `json:"risk_level"`
	Advice         []string  `json:"advice"`
	WeatherFactors []string  `json:"weather_factors,omitempty"`
}

// DayPlan is one day of a built itinerary. Day numbers are 1-based and
// contiguous. Adjusted is true when weather-driven substitution changed the
// day versus the unadjusted plan.
type DayPlan struct {
	Day             int                 `json:"day"`
	Weather         *WeatherDayForecast `json:"weather,omitempty"`
	Adjusted        bool                `json:"adjusted"`
	Stops           []StopEntry         `json:"attractions"`
	RiskAssessments []RiskAssessment    `json:"risk_assessment,omitempty"`
}

// Attractions returns the bare attraction list of the day, in order.
func (d *DayPlan) Attractions() []*Attraction {
	attrs := make([]*Attraction, 0, len(d.Stops))
	for _, s := range d.Stops {
		attrs = append(attrs, s.Attraction)
	}
	return attrs
}

// BudgetBreakdown itemizes an estimated trip budget.
type BudgetBreakdown struct {
	Lodging            float64 `json:"lodging"`
	Dining             float64 `json:"dining"`
	Tickets            float64 `json:"tickets"`
	Transport          float64 `json:"transport"`
	IntercityTransport float64 `json:"intercity_transport"`
	LocalTransport     float64 `json:"local_transport"`
	Other              float64 `json:"other"`
}

// Budget is the derived cost estimate for a trip plan.
type Budget struct {
	TotalCost   float64         `json:"total_cost"`
	Breakdown   BudgetBreakdown `json:"breakdown"`
	Suggestions []string        `json:"suggestions,omitempty"`
}

// TripPreferences carries the user-side knobs of an optimization request.
type TripPreferences struct {
	MinRating       float64  `json:"min_rating"`
	AttractionTypes []string `json:"attraction_types,omitempty"`
	HotelType       string   `json:"hotel_type,omitempty"`
	DiningType      string   `json:"dining_type,omitempty"`
	MealsPerDay     int      `json:"meals_per_day,omitempty"`
}

// SelectedAttraction identifies a user-picked attraction by name and city;
// resolution back to catalog records happens inside the optimizer.
type SelectedAttraction struct {
	Name string `json:"name"`
	City string `json:"city"`
}

// TripPlanRequest is the input of one optimization run.
type TripPlanRequest struct {
	StartCity           string               `json:"start_city"`
	TargetCity          string               `json:"target_city,omitempty"`
	Days                int                  `json:"days"`
	Preferences         TripPreferences      `json:"preferences"`
	SelectedAttractions []SelectedAttraction `json:"selected_attractions,omitempty"`
}

// TripPlan is the full result handed back to the caller.
type TripPlan struct {
	Itinerary  []DayPlan `json:"itinerary"`
	Budget     Budget    `json:"budget"`
	StartCity  string    `json:"start_city"`
	TargetCity string    `json:"target_city"`
}
