package legalcase

import (
	"regexp"
	"strings"
)

// Address is a structured postal address.
type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zip_code,omitempty"`
}

// IsEmpty reports whether no component of the address is set.
func (a Address) IsEmpty() bool {
	return a.Street == "" && a.City == "" && a.State == "" && a.ZipCode == ""
}

// String renders the address on one line, omitting missing components.
func (a Address) String() string {
	parts := make([]string, 0, 3)
	if a.Street != "" {
		parts = append(parts, a.Street)
	}
	if a.City != "" {
		parts = append(parts, a.City)
	}
	tail := strings.TrimSpace(a.State + " " + a.ZipCode)
	if tail != "" {
		parts = append(parts, tail)
	}
	return strings.Join(parts, ", ")
}

// stateZipPattern matches a two-letter state followed by a ZIP or ZIP+4,
// e.g. "NY 11373" or "NY 11373-2210".
var stateZipPattern = regexp.MustCompile(`\b([A-Z]{2})\s+(\d{5}(?:-\d{4})?)\b`)

// ParseAddress splits a one-line address of the usual
// "street, city, ST zip" form into its components.  Unrecognized trailing
// text stays attached to the nearest component; a raw string with no commas
// is treated as a street.
func ParseAddress(raw string) Address {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Address{}
	}

	var addr Address
	if m := stateZipPattern.FindStringSubmatchIndex(raw); m != nil {
		addr.State = raw[m[2]:m[3]]
		addr.ZipCode = raw[m[4]:m[5]]
		raw = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(raw[:m[0]]), ","))
	}

	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	switch {
	case len(parts) >= 3:
		addr.Street = strings.Join(parts[:len(parts)-1], ", ")
		addr.City = parts[len(parts)-1]
	case len(parts) == 2:
		addr.Street = parts[0]
		addr.City = parts[1]
	case len(parts) == 1 && parts[0] != "":
		addr.Street = parts[0]
	}
	// A lone city can end up in Street when the line had no street number.
	if addr.Street != "" && addr.City == "" && addr.State != "" &&
		!strings.ContainsAny(addr.Street, "0123456789") {
		addr.City, addr.Street = addr.Street, ""
	}
	return addr
}

// Plaintiff is the consumer bringing the case.
type Plaintiff struct {
	Name           string  `json:"name,omitempty"`
	Address        Address `json:"address"`
	Phone          string  `json:"phone,omitempty"`
	Email          string  `json:"email,omitempty"`
	Residency      string  `json:"residency,omitempty"`
	ConsumerStatus string  `json:"consumer_status,omitempty"`
}

// DefaultConsumerStatus is the standing allegation used when attorney notes
// do not override it.
const DefaultConsumerStatus = "Individual 'consumer' within the meaning of both the FCRA and the NY FCRA"

// PlaintiffCounsel identifies the filing attorney and firm.
type PlaintiffCounsel struct {
	Name         string `json:"name,omitempty"`
	Firm         string `json:"firm,omitempty"`
	Address      string `json:"address,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
	BarAdmission string `json:"bar_admission,omitempty"`
}

// Defendant is one accused party with its canonical display identity.
type Defendant struct {
	Name                 string `json:"name"`
	ShortName            string `json:"short_name,omitempty"`
	Type                 string `json:"type,omitempty"`
	StateOfIncorporation string `json:"state_of_incorporation,omitempty"`
	BusinessStatus       string `json:"business_status,omitempty"`
	Address              string `json:"address,omitempty"`
}

const (
	// DefendantTypeCRA marks a consumer reporting agency defendant.
	DefendantTypeCRA = "Consumer Reporting Agency"
	// DefendantTypeFurnisher marks a furnisher-of-information defendant.
	DefendantTypeFurnisher = "Furnisher of Credit Information"
)

// IsCreditBureau reports whether the defendant is a consumer reporting
// agency, by declared type or by membership in the known-CRA directory.
func (d Defendant) IsCreditBureau() bool {
	if d.Type == DefendantTypeCRA {
		return true
	}
	return IsKnownCRAKey(NormalizeDefendantKey(d.Name))
}
