package db

// UserRecord represents a raw user row as read from a record source. Numeric
// fields are kept as text and parsed during hydration so that malformed values
// can be reported against the record that carried them.
type UserRecord struct {
	Username  string `csv:"username" validate:"required"`
	ItemID    string `csv:"itemid"`
	Name      string `csv:"instance_name"`
	Lat       string `csv:"lat"`
	Lon       string `csv:"lon"`
	UserType  string `csv:"user_type" validate:"required"`
	DimFactor string `csv:"dim_factor" validate:"required,numeric"`
}

// ContainerRecord represents a raw container row as read from a record source
type ContainerRecord struct {
	ItemID        string `csv:"itemid" validate:"required"`
	Name          string `csv:"instance_name"`
	Lat           string `csv:"lat"`
	Lon           string `csv:"lon"`
	Parent        string `csv:"parent"`
	WasteFraction string `csv:"waste_fraction" validate:"required"`
	ConType       string `csv:"con_type"`
	Capacity      string `csv:"capacity" validate:"omitempty,numeric"`
}

// Primary key columns of the record tables
const (
	UserKeyColumn      = "username"
	ContainerKeyColumn = "itemid"
)
