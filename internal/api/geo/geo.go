// Package geo provides great-circle distance math, the Liaoning city
// centroid table and the travel-mode estimator used between consecutive
// itinerary stops.
package geo

import (
	"fmt"
	"math"
	"strings"

	"github.com/liaoning-tourism/go-trip-optimizer/internal/types"
)

// earthRadiusKm is the spherical Earth radius used by the Haversine formula.
const earthRadiusKm = 6371.0

// cityCoords holds the centroid (lat, lon) of the major Liaoning cities,
// keyed without the "市" suffix.
var cityCoords = map[string][2]float64{
	"沈阳":  {41.8057, 123.4315},
	"大连":  {38.9140, 121.6147},
	"鞍山":  {41.1182, 122.8907},
	"抚顺":  {41.8645, 123.9506},
	"本溪":  {41.3116, 123.7761},
	"丹东":  {40.1374, 124.3426},
	"锦州":  {41.1173, 121.1440},
	"营口":  {40.6668, 122.1533},
	"阜新":  {42.0053, 121.6148},
	"辽阳":  {41.2641, 123.1753},
	"盘锦":  {41.1243, 122.0730},
	"铁岭":  {42.2901, 123.8398},
	"朝阳":  {41.5732, 120.4790},
	"葫芦岛": {40.7315, 120.7610},
}

// NormalizeCity strips the administrative "市" suffix so city names compare
// equal regardless of how the caller spells them.
func NormalizeCity(city string) string {
	return strings.ReplaceAll(city, "市", "")
}

// Distance returns the Haversine great-circle distance in kilometers between
// two coordinate pairs.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lon1Rad := lon1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	lon2Rad := lon2 * math.Pi / 180

	dLat := lat2Rad - lat1Rad
	dLon := lon2Rad - lon1Rad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// DistanceBetween returns the distance between two attractions, or +Inf when
// either side is geographically unplaceable.
func DistanceBetween(a, b *types.Attraction) float64 {
	if !a.HasCoordinates() || !b.HasCoordinates() {
		return math.Inf(1)
	}
	return Distance(*a.Latitude, *a.Longitude, *b.Latitude, *b.Longitude)
}

// CityCenter returns the centroid of a known city.
func CityCenter(city string) (lat, lon float64, ok bool) {
	coords, ok := cityCoords[NormalizeCity(city)]
	if !ok {
		return 0, 0, false
	}
	return coords[0], coords[1], true
}

// CityDistance returns the centroid-to-centroid distance between two cities
// in kilometers, or 0 when either city is unknown.
func CityDistance(city1, city2 string) float64 {
	c1, ok1 := cityCoords[NormalizeCity(city1)]
	c2, ok2 := cityCoords[NormalizeCity(city2)]
	if !ok1 || !ok2 {
		return 0
	}
	return Distance(c1[0], c1[1], c2[0], c2[1])
}

// Travel-mode distance thresholds in kilometers.
const (
	walkingMaxKm = 2.0
	transitMaxKm = 10.0
)

// TravelInfoBetween estimates the leg between two consecutive stops:
// walking under 2 km (4 km/h), bus or bike-share under 10 km (12 km/h plus
// a 10 minute wait), taxi or metro beyond that (30 km/h plus a 15 minute
// wait). Stops without coordinates degrade to a zero walking record.
func TravelInfoBetween(prev, curr *types.Attraction) types.TravelInfo {
	if !prev.HasCoordinates() || !curr.HasCoordinates() {
		return types.TravelInfo{
			Transportation: "步行",
			TravelTime:     "0分钟",
			Distance:       "0公里",
		}
	}

	distance := Distance(*prev.Latitude, *prev.Longitude, *curr.Latitude, *curr.Longitude)

	var travelTime int
	var transportation string
	switch {
	case distance < walkingMaxKm:
		travelTime = int(math.Round(distance * 15))
		transportation = "步行"
	case distance < transitMaxKm:
		travelTime = int(math.Round(distance*5 + 10))
		transportation = "公交/共享单车"
	default:
		travelTime = int(math.Round(distance*2 + 15))
		transportation = "打车/地铁"
	}

	return types.TravelInfo{
		Transportation: transportation,
		TravelTime:     fmt.Sprintf("%d分钟", travelTime),
		Distance:       fmt.Sprintf("%.1f公里", distance),
	}
}
