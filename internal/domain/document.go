package domain

// Document is one unit of ownership evidence returned by the locker API.
// Only the hash is load-bearing; the remaining fields are metadata the
// locker attaches and the mint policy may inspect.
type Document struct {
	Hash    string `json:"hash"`
	Name    string `json:"name,omitempty"`
	DocType string `json:"doctype,omitempty"`
	Issuer  string `json:"issuer,omitempty"`
}
