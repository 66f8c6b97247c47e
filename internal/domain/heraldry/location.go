package heraldry

// Location is a node of the location forest. Locations hang off their parent
// via HAS_CHILD; ParentID is empty for roots.
type Location struct {
	ID       string `json:"uuid"`
	Name     string `json:"name"`
	ParentID string `json:"parent"`
}
