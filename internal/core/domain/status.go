// internal/core/domain/status.go
package domain

// Status represents the shelf lifecycle state of a product
type Status int16

// Status constants, stored as small ints in the product table
const (
	StatusOffShelf Status = 1
	StatusOnShelf  Status = 2
	StatusSoldOut  Status = 3
)

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	return s >= StatusOffShelf && s <= StatusSoldOut
}

// statusLabels holds the display metadata for each status, kept apart from
// the transition logic so the admin UI vocabulary can change without
// touching the state machine.
var statusLabels = map[Status]struct {
	label string
	color string
}{
	StatusOffShelf: {"下架", "default"},
	StatusOnShelf:  {"上架", "success"},
	StatusSoldOut:  {"售罄", "warning"},
}

// Label returns the human-readable label for the status
func (s Status) Label() string {
	return statusLabels[s].label
}

// Color returns the UI badge color for the status
func (s Status) Color() string {
	return statusLabels[s].color
}

// StatusOption is a single entry of the status picker exposed to clients
type StatusOption struct {
	Value Status `json:"value"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// StatusOptions returns all selectable statuses in declaration order
func StatusOptions() []StatusOption {
	statuses := []Status{StatusOffShelf, StatusOnShelf, StatusSoldOut}
	options := make([]StatusOption, 0, len(statuses))
	for _, s := range statuses {
		options = append(options, StatusOption{Value: s, Label: s.Label(), Color: s.Color()})
	}
	return options
}
