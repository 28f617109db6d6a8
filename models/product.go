package models

import "time"

// Product is an entry in the fixed grocery catalog. The catalog is seeded
// at migration time and is not user-editable.
type Product struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Price     float64   `json:"price" gorm:"not null"`
	Category  string    `json:"category"`
	Unit      string    `json:"unit"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Categories available in the store, "All" excluded (that is a UI filter,
// not a stored value).
var ProductCategories = []string{
	"Beverages",
	"Chips & Crackers",
	"Biscuits",
	"Ice Cream",
	"Instant Noodles",
}

// DeliveryZones are the serviceable zones in Dhaka. Both a customer's
// order destination and an agent's operating zone must be one of these.
var DeliveryZones = []string{
	"Dhanmondi", "Gulshan", "Banani", "Uttara", "Mirpur",
	"Mohammadpur", "Old Dhaka", "New Market", "Elephant Road", "Panthapath",
	"Farmgate", "Tejgaon", "Motijheel", "Ramna", "Azimpur",
	"Lalmatia", "Shyamoli", "Adabor", "Mohakhali", "Baridhara",
	"Bashundhara", "Wari", "Sutrapur", "Lalbagh", "Hazaribagh",
	"Kamrangirchar", "Keraniganj", "Savar", "Gazipur", "Narayanganj",
}

// IsValidZone reports whether location is a serviceable delivery zone.
func IsValidZone(location string) bool {
	for _, z := range DeliveryZones {
		if z == location {
			return true
		}
	}
	return false
}
