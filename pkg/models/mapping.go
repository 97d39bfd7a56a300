package models

// MappingType classifies what kind of personal data a pseudonym replaces.
type MappingType string

const (
	MappingName    MappingType = "name"
	MappingIBAN    MappingType = "iban"
	MappingAccount MappingType = "account"
	MappingEmail   MappingType = "email"
	MappingPhone   MappingType = "phone"
	MappingAddress MappingType = "address"
)

// AnonymizationMapping links an original value to its stable pseudonym for
// the lifetime of one batch. Mappings live in memory only and are discarded
// when the store is reset.
type AnonymizationMapping struct {
	Original   string      `json:"original"`
	Anonymized string      `json:"anonymized"`
	Type       MappingType `json:"type"`
}
