package ctdf

// Station is a query origin together with the timetable column holding its
// departure times
type Station struct {
	Name   string `json:"name" yaml:"name" groups:"basic"`
	Column Column `json:"column" yaml:"column" groups:"detailed"`
}
