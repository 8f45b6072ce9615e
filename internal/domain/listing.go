package domain

// Listing is one tradable quotation of a security returned by a free-text
// lookup, keyed externally by its ticker symbol.
type Listing struct {
	Name      string
	Exchange  string
	AssetType string
	Currency  string
}
