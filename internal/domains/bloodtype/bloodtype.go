// Package bloodtype implements donor to recipient compatibility over the
// eight ABO/Rh groups written in the compact "1+" .. "4-" notation, where
// 1 = O, 2 = A, 3 = B, 4 = AB.
package bloodtype

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"donorlink/shared/failure"
)

type Type string

const (
	OneNeg   Type = "1-"
	OnePos   Type = "1+"
	TwoNeg   Type = "2-"
	TwoPos   Type = "2+"
	ThreeNeg Type = "3-"
	ThreePos Type = "3+"
	FourNeg  Type = "4-"
	FourPos  Type = "4+"
)

// All lists every type in a fixed order.
var All = []Type{OneNeg, OnePos, TwoNeg, TwoPos, ThreeNeg, ThreePos, FourNeg, FourPos}

// ErrInvalid matches every InvalidBloodType failure with errors.Is.
var ErrInvalid = &failure.Failure{Code: http.StatusBadRequest, Kind: failure.KindInvalidBloodType, Message: "invalid blood type"}

var recipients = map[Type][]Type{
	OneNeg:   All,
	OnePos:   {OnePos, TwoPos, ThreePos, FourPos},
	TwoNeg:   {TwoPos, TwoNeg, FourPos, FourNeg},
	TwoPos:   {TwoPos, FourPos},
	ThreeNeg: {ThreePos, ThreeNeg, FourPos, FourNeg},
	ThreePos: {ThreePos, FourPos},
	FourNeg:  {FourPos, FourNeg},
	FourPos:  {FourPos},
}

var groupNames = map[byte]string{'1': "O", '2': "A", '3': "B", '4': "AB"}

// Parse accepts the compact notation, ignoring surrounding whitespace.
func Parse(value string) (Type, error) {
	candidate := Type(strings.TrimSpace(value))
	if _, ok := recipients[candidate]; !ok {
		return "", &failure.Failure{
			Code:    ErrInvalid.Code,
			Kind:    failure.KindInvalidBloodType,
			Message: fmt.Sprintf("invalid blood type %q, expected one of 1+..4-", value),
		}
	}

	return candidate, nil
}

func (t Type) Valid() bool {
	_, ok := recipients[t]

	return ok
}

func (t Type) String() string {
	return string(t)
}

// IsCompatible reports whether blood of donor may be given to recipient.
// Unknown types are never compatible.
func IsCompatible(donor, recipient Type) bool {
	return slices.Contains(recipients[donor], recipient)
}

// Recipients returns the types donor may give to.
func Recipients(donor Type) []Type {
	return slices.Clone(recipients[donor])
}

// Donors returns the types that may give to recipient, in All order.
func Donors(recipient Type) []Type {
	donors := []Type{}

	for _, donor := range All {
		if IsCompatible(donor, recipient) {
			donors = append(donors, donor)
		}
	}

	return donors
}

// Describe renders a one-line summary of who donor can give to.
func Describe(donor Type) string {
	list, ok := recipients[donor]
	if !ok {
		return "unknown blood type"
	}

	if len(list) == len(All) {
		return fmt.Sprintf("%s (%s) is a universal donor and can give to every blood type", donor, donor.label())
	}

	names := make([]string, len(list))
	for i, recipient := range list {
		names[i] = recipient.String()
	}

	return fmt.Sprintf("%s (%s) can give to %s", donor, donor.label(), strings.Join(names, ", "))
}

func (t Type) label() string {
	if !t.Valid() {
		return ""
	}

	rhesus := "Rh+"
	if t[1] == '-' {
		rhesus = "Rh-"
	}

	return groupNames[t[0]] + " " + rhesus
}
