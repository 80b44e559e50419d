package domain

// Category is a named classification bucket for tickets. Names are unique;
// submitters may create categories ad hoc at ticket creation.
type Category struct {
	ID   int64
	Name string
}
