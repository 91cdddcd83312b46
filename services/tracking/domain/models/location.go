package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Location is one of the fixed physical locations an Item or Group can occupy.
// Surgery rooms are numbered; "removed" is the terminal soft-delete marker.
type Location string

const (
	LocationMSU     Location = "msu"     // central sterilization unit
	LocationStorage Location = "storage" // storage area
	LocationRemoved Location = "removed" // terminal; row kept for audit integrity

	surgeryRoomPrefix = "surgery_room:"
)

// SurgeryRoom returns the Location for surgery room n (n >= 1).
func SurgeryRoom(n int) Location {
	return Location(surgeryRoomPrefix + strconv.Itoa(n))
}

// ParseLocation is the canonical normalization function for location strings.
func ParseLocation(s string) (Location, error) {
	switch Location(s) {
	case LocationMSU, LocationStorage, LocationRemoved:
		return Location(s), nil
	}
	if num, ok := strings.CutPrefix(s, surgeryRoomPrefix); ok {
		n, err := strconv.Atoi(num)
		if err != nil || n < 1 {
			return "", fmt.Errorf("invalid surgery room number %q", num)
		}
		return SurgeryRoom(n), nil
	}
	return "", fmt.Errorf("unknown location %q", s)
}

// IsSurgery reports whether l is a surgery room.
func (l Location) IsSurgery() bool {
	return strings.HasPrefix(string(l), surgeryRoomPrefix)
}

// Room returns the surgery room number, or (0, false) for non-surgery locations.
func (l Location) Room() (int, bool) {
	num, ok := strings.CutPrefix(string(l), surgeryRoomPrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(num)
	if err != nil {
		return 0, false
	}
	return n, true
}

// IsRemoved reports whether l is the terminal removed marker.
func (l Location) IsRemoved() bool {
	return l == LocationRemoved
}

func (l Location) String() string {
	return string(l)
}
