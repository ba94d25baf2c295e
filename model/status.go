package model

import "fmt"

// Status classifies the outcome of comparing one matched pair. It is a closed
// enumeration: branching on it is exhaustive, and display strings only exist
// at the reporting boundary (config labels).
type Status int

const (
	StatusOK Status = iota
	StatusDeviation
	// StatusMissingInvoice: the line exists in the system data but no
	// counterpart was found on the supplier invoice.
	StatusMissingInvoice
	// StatusMissingSystem: the line exists on the supplier invoice but not in
	// the system data.
	StatusMissingSystem
	StatusPartial
	StatusDuplicateCode
)

var statusKeys = [...]string{
	StatusOK:             "ok",
	StatusDeviation:      "deviation",
	StatusMissingInvoice: "missing_invoice",
	StatusMissingSystem:  "missing_system",
	StatusPartial:        "partial",
	StatusDuplicateCode:  "duplicate_code",
}

// String returns the stable internal key, not the display label.
func (s Status) String() string {
	if int(s) < 0 || int(s) >= len(statusKeys) {
		return "unknown"
	}
	return statusKeys[s]
}

// MarshalText makes Status usable as a JSON map key and value.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses the stable key back into a Status.
func (s *Status) UnmarshalText(text []byte) error {
	for i, key := range statusKeys {
		if key == string(text) {
			*s = Status(i)
			return nil
		}
	}
	return fmt.Errorf("onbekende status %q", text)
}

// AllStatuses lists every status once, in enum order. The tally in a result
// carries an entry for each of these even when the count is zero.
func AllStatuses() []Status {
	return []Status{
		StatusOK,
		StatusDeviation,
		StatusMissingInvoice,
		StatusMissingSystem,
		StatusPartial,
		StatusDuplicateCode,
	}
}

// DefaultLabels are the display labels the original paper process used;
// deployments can override them in config without touching the engine.
func DefaultLabels() map[Status]string {
	return map[Status]string{
		StatusOK:             "OK",
		StatusDeviation:      "AFWIJKING",
		StatusMissingInvoice: "ONTBREEKT OP FACTUUR",
		StatusMissingSystem:  "ONTBREEKT IN SYSTEEM",
		StatusPartial:        "GEDEELTELIJK",
		StatusDuplicateCode:  "FOUT",
	}
}

// MatchMethod records which matching step produced a pair.
type MatchMethod int

const (
	MatchNone MatchMethod = iota
	MatchByCode
	MatchByName
)

var matchMethodKeys = [...]string{
	MatchNone:   "none",
	MatchByCode: "by_code",
	MatchByName: "by_name",
}

func (m MatchMethod) String() string {
	if int(m) < 0 || int(m) >= len(matchMethodKeys) {
		return "unknown"
	}
	return matchMethodKeys[m]
}

// MarshalText lets a match method serialize as its stable key.
func (m MatchMethod) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *MatchMethod) UnmarshalText(text []byte) error {
	for i, key := range matchMethodKeys {
		if key == string(text) {
			*m = MatchMethod(i)
			return nil
		}
	}
	return fmt.Errorf("onbekende matchmethode %q", text)
}
