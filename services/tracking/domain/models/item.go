package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MaxSerial bounds the zero-padded serial space per (prefix, type) pair.
// Registration fails once the space is exhausted.
const MaxSerial = 99999

const (
	maxPrefixLength   = 10
	maxTypeCodeLength = 10
	maxItemNameLength = 100
)

// Item is a uniquely identified physical instrument. Items are never hard
// deleted; removal moves them to the terminal "removed" location so audit
// references stay valid.
type Item struct {
	ID            string
	CompanyPrefix string
	TypeCode      string
	Serial        int
	Name          string
	Status        Status
	Location      Location
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewItem constructs a registered Item at the central unit with the given
// serial. The caller allocates serials monotonically per (prefix, type).
func NewItem(prefix, typeCode, name string, serial int, now time.Time) (*Item, error) {
	if err := validatePrefix(prefix); err != nil {
		return nil, err
	}
	if err := validateTypeCode(typeCode); err != nil {
		return nil, err
	}
	if name == "" || len(name) > maxItemNameLength {
		return nil, fmt.Errorf("item name must be 1-%d characters", maxItemNameLength)
	}
	if serial < 1 || serial > MaxSerial {
		return nil, fmt.Errorf("serial %d out of range 1-%d", serial, MaxSerial)
	}
	return &Item{
		ID:            FormatItemID(prefix, typeCode, serial),
		CompanyPrefix: prefix,
		TypeCode:      typeCode,
		Serial:        serial,
		Name:          name,
		Status:        StatusNotSterilized,
		Location:      LocationMSU,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// FormatItemID builds the canonical identifier, e.g. "123456-001-00001".
func FormatItemID(prefix, typeCode string, serial int) string {
	return fmt.Sprintf("%s-%s-%05d", prefix, typeCode, serial)
}

// ParseItemID splits a canonical identifier into its components.
func ParseItemID(id string) (prefix, typeCode string, serial int, err error) {
	parts := strings.Split(id, "-")
	if len(parts) != 3 {
		return "", "", 0, fmt.Errorf("malformed item id %q", id)
	}
	serial, err = strconv.Atoi(parts[2])
	if err != nil || serial < 1 || serial > MaxSerial {
		return "", "", 0, fmt.Errorf("malformed serial in item id %q", id)
	}
	if err := validatePrefix(parts[0]); err != nil {
		return "", "", 0, err
	}
	if err := validateTypeCode(parts[1]); err != nil {
		return "", "", 0, err
	}
	return parts[0], parts[1], serial, nil
}

func validatePrefix(prefix string) error {
	if prefix == "" || len(prefix) > maxPrefixLength {
		return fmt.Errorf("company prefix must be 1-%d digits", maxPrefixLength)
	}
	for _, r := range prefix {
		if r < '0' || r > '9' {
			return fmt.Errorf("company prefix %q must contain only digits", prefix)
		}
	}
	return nil
}

func validateTypeCode(code string) error {
	if code == "" || len(code) > maxTypeCodeLength {
		return fmt.Errorf("type code must be 1-%d characters", maxTypeCodeLength)
	}
	for _, r := range code {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return fmt.Errorf("type code %q must be alphanumeric", code)
		}
	}
	return nil
}
