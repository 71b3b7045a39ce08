package enums

import "fmt"

// PickupCity is the enumerated set of cities a listing may be collected from.
type PickupCity string

const (
	PickupCityHelsinki  PickupCity = "helsinki"
	PickupCityEspoo     PickupCity = "espoo"
	PickupCityVantaa    PickupCity = "vantaa"
	PickupCityTampere   PickupCity = "tampere"
	PickupCityTurku     PickupCity = "turku"
	PickupCityOulu      PickupCity = "oulu"
	PickupCityJyvaskyla PickupCity = "jyvaskyla"
	PickupCityLahti     PickupCity = "lahti"
)

var validPickupCities = []PickupCity{
	PickupCityHelsinki,
	PickupCityEspoo,
	PickupCityVantaa,
	PickupCityTampere,
	PickupCityTurku,
	PickupCityOulu,
	PickupCityJyvaskyla,
	PickupCityLahti,
}

// String implements fmt.Stringer.
func (c PickupCity) String() string {
	return string(c)
}

// IsValid reports whether the value is a known PickupCity.
func (c PickupCity) IsValid() bool {
	for _, candidate := range validPickupCities {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParsePickupCity converts raw input into a PickupCity.
func ParsePickupCity(value string) (PickupCity, error) {
	for _, candidate := range validPickupCities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pickup city %q", value)
}
