package domain

// Language is one entry of the translation provider's language catalog.
// Name is localized to the display locale requested by the caller.
type Language struct {
	Code string `json:"language"`
	Name string `json:"name"`
}
