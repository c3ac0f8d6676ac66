package models

import (
	"strings"
)

// Keys of the stored address microformat. "postal" is the wire key for
// PostalCode; records already on disk use it, so it cannot be renamed.
const (
	addressKeyStreet    = "address"
	addressKeyPostal    = "postal"
	addressKeyCity      = "city"
	addressKeyProvince  = "province"
	addressKeyApartment = "apartment"

	addressPairSeparator  = "|"
	addressValueSeparator = "="
)

// Address is the structured form of the single address column used by
// customers, delivery persons and the restaurant configuration.
type Address struct {
	Street     string `json:"address"`
	PostalCode string `json:"postal_code"`
	City       string `json:"city"`
	Province   string `json:"province"`
	Apartment  string `json:"apartment,omitempty"`

	// Legacy holds a plain-text address written before the structured format existed.
	Legacy string `json:"legacy,omitempty"`
}

// EncodeAddress flattens an address into address=..|postal=..|city=..|province=..
// with |apartment=.. appended only when set.
func EncodeAddress(a Address) string {
	pairs := []string{
		addressKeyStreet + addressValueSeparator + cleanAddressValue(a.Street),
		addressKeyPostal + addressValueSeparator + cleanAddressValue(a.PostalCode),
		addressKeyCity + addressValueSeparator + cleanAddressValue(a.City),
		addressKeyProvince + addressValueSeparator + cleanAddressValue(a.Province),
	}
	if apartment := cleanAddressValue(a.Apartment); apartment != "" {
		pairs = append(pairs, addressKeyApartment+addressValueSeparator+apartment)
	}
	return strings.Join(pairs, addressPairSeparator)
}

// DecodeAddress parses the microformat back. Strings without both
// delimiters are kept verbatim as a legacy address.
func DecodeAddress(raw string) Address {
	if !strings.Contains(raw, addressPairSeparator) || !strings.Contains(raw, addressValueSeparator) {
		return Address{Legacy: strings.TrimSpace(raw)}
	}

	var a Address
	for _, part := range strings.Split(raw, addressPairSeparator) {
		key, value, ok := strings.Cut(part, addressValueSeparator)
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case addressKeyStreet:
			a.Street = value
		case addressKeyPostal:
			a.PostalCode = value
		case addressKeyCity:
			a.City = value
		case addressKeyProvince:
			a.Province = value
		case addressKeyApartment:
			a.Apartment = value
		}
	}
	return a
}

// IsLegacy reports whether the address came from a plain-text record.
func (a Address) IsLegacy() bool {
	return a.Legacy != ""
}

// IsEmpty reports whether no field is set.
func (a Address) IsEmpty() bool {
	return a.Legacy == "" && a.Street == "" && a.PostalCode == "" &&
		a.City == "" && a.Province == "" && a.Apartment == ""
}

// Display renders "street apartment, postal city province".
func (a Address) Display() string {
	if a.IsLegacy() {
		return a.Legacy
	}
	clauses := make([]string, 0, 2)
	if line := joinNonEmpty(" ", a.Street, a.Apartment); line != "" {
		clauses = append(clauses, line)
	}
	if line := joinNonEmpty(" ", a.PostalCode, a.City, a.Province); line != "" {
		clauses = append(clauses, line)
	}
	return strings.Join(clauses, ", ")
}

// StoreAddress returns the column value for a: empty, the legacy text as is,
// or the encoded microformat.
func StoreAddress(a Address) string {
	structured := a
	structured.Legacy = ""
	switch {
	case a.IsEmpty():
		return ""
	case structured.IsEmpty():
		return a.Legacy
	default:
		return EncodeAddress(structured)
	}
}

// FormatAddress decodes a stored address and renders it for display.
func FormatAddress(raw string) string {
	return DecodeAddress(raw).Display()
}

// a literal "|" inside a value would split the record on decode
func cleanAddressValue(v string) string {
	return strings.TrimSpace(strings.ReplaceAll(v, addressPairSeparator, " "))
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
