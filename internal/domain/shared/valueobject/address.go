package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Address is a value object representing a shipping address
// It is immutable - all operations return new Address instances
type Address struct {
	street     string
	city       string
	state      string
	postalCode string
	country    string
	phone      string
}

// AddressOption is a functional option for configuring Address
type AddressOption func(*Address)

// WithPhone sets the contact phone for the address
func WithPhone(phone string) AddressOption {
	return func(a *Address) {
		a.phone = strings.TrimSpace(phone)
	}
}

// NewAddress creates a new Address
// Street, city, postal code and country are required; state and phone are optional
func NewAddress(street, city, state, postalCode, country string, opts ...AddressOption) (Address, error) {
	street = strings.TrimSpace(street)
	city = strings.TrimSpace(city)
	state = strings.TrimSpace(state)
	postalCode = strings.TrimSpace(postalCode)
	country = strings.TrimSpace(country)

	if street == "" {
		return Address{}, fmt.Errorf("street is required")
	}
	if len(street) > 200 {
		return Address{}, fmt.Errorf("street cannot exceed 200 characters")
	}
	if city == "" {
		return Address{}, fmt.Errorf("city is required")
	}
	if len(city) > 100 {
		return Address{}, fmt.Errorf("city cannot exceed 100 characters")
	}
	if postalCode == "" {
		return Address{}, fmt.Errorf("postal code is required")
	}
	if len(postalCode) > 20 {
		return Address{}, fmt.Errorf("postal code cannot exceed 20 characters")
	}
	if country == "" {
		return Address{}, fmt.Errorf("country is required")
	}
	if len(country) > 100 {
		return Address{}, fmt.Errorf("country cannot exceed 100 characters")
	}

	addr := Address{
		street:     street,
		city:       city,
		state:      state,
		postalCode: postalCode,
		country:    country,
	}

	for _, opt := range opts {
		opt(&addr)
	}

	return addr, nil
}

// Street returns the street line
func (a Address) Street() string { return a.street }

// City returns the city
func (a Address) City() string { return a.city }

// State returns the state or province
func (a Address) State() string { return a.state }

// PostalCode returns the postal code
func (a Address) PostalCode() string { return a.postalCode }

// Country returns the country
func (a Address) Country() string { return a.country }

// Phone returns the contact phone
func (a Address) Phone() string { return a.phone }

// IsZero returns true if the address is empty
func (a Address) IsZero() bool {
	return a.street == "" && a.city == "" && a.postalCode == "" && a.country == ""
}

// String returns a single-line representation
func (a Address) String() string {
	parts := []string{a.street, a.city}
	if a.state != "" {
		parts = append(parts, a.state)
	}
	parts = append(parts, a.postalCode, a.country)
	return strings.Join(parts, ", ")
}

// addressJSON is the serialized form used for storage and transport
type addressJSON struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(addressJSON{
		Street:     a.street,
		City:       a.city,
		State:      a.state,
		PostalCode: a.postalCode,
		Country:    a.country,
		Phone:      a.phone,
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (a *Address) UnmarshalJSON(data []byte) error {
	var aj addressJSON
	if err := json.Unmarshal(data, &aj); err != nil {
		return err
	}
	a.street = aj.Street
	a.city = aj.City
	a.state = aj.State
	a.postalCode = aj.PostalCode
	a.country = aj.Country
	a.phone = aj.Phone
	return nil
}

// Value implements driver.Valuer for database storage as JSON
func (a Address) Value() (driver.Value, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for reading JSON from the database
func (a *Address) Scan(value interface{}) error {
	if value == nil {
		*a = Address{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return fmt.Errorf("unsupported type for Address: %T", value)
	}
}
