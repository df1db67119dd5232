// SPDX-License-Identifier: Apache-2.0

// Package checksum computes the trailing checksum byte of a module's
// configuration block. The module's own identity bytes take part in the sum,
// and the last byte of the block is the checksum slot being solved for.
package checksum

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidInput reports a module ID or code word outside the accepted format.
var ErrInvalidInput = errors.New("invalid input")

var (
	moduleIDPattern = regexp.MustCompile(`^[0-9A-Fa-f]{3}-[0-9]{2}-[0-9]{2}$`)
	codePattern     = regexp.MustCompile(`^[0-9A-Fa-f]{4}$`)
	partialCode     = regexp.MustCompile(`^[0-9A-Fa-f]{0,4}$`)
	partialHex      = regexp.MustCompile(`^[0-9A-Fa-f]{0,3}$`)
	fullHex         = regexp.MustCompile(`^[0-9A-Fa-f]{3}$`)
	partialDecimal  = regexp.MustCompile(`^[0-9]{0,2}$`)
	fullDecimal     = regexp.MustCompile(`^[0-9]{2}$`)
)

// Result is a block with its corrected checksum. Codes always has three
// entries; absent optional codes are empty strings.
type Result struct {
	ModuleID string   `json:"moduleId" yaml:"moduleId"`
	Codes    []string `json:"codes" yaml:"codes"`
	Checksum string   `json:"checksum" yaml:"checksum"`
	// Slot is the index of the code whose last byte holds the checksum.
	Slot int `json:"slot" yaml:"slot"`
}

// String renders "{moduleId} : [{code1}] [{code2}] [{code3}]".
func (r Result) String() string {
	codes := make([]string, 3)
	copy(codes, r.Codes)
	return fmt.Sprintf("%s : [%s] [%s] [%s]", r.ModuleID, codes[0], codes[1], codes[2])
}

// ValidateModuleID checks the HHH-XX-XX format: a hex block followed by two
// 2-digit decimal segments.
func ValidateModuleID(moduleID string) error {
	if !moduleIDPattern.MatchString(moduleID) {
		return fmt.Errorf("%w: module ID %q must have the format HHH-XX-XX (HHH is hex, XX is numeric)", ErrInvalidInput, moduleID)
	}
	return nil
}

// ValidatePartialModuleID reports whether v is an acceptable prefix of a module
// ID while it is being typed.
func ValidatePartialModuleID(v string) bool {
	if len(v) > 9 {
		return false
	}
	parts := strings.Split(v, "-")
	switch len(parts) {
	case 1:
		return partialHex.MatchString(v)
	case 2:
		return fullHex.MatchString(parts[0]) && partialDecimal.MatchString(parts[1])
	case 3:
		return fullHex.MatchString(parts[0]) && fullDecimal.MatchString(parts[1]) && partialDecimal.MatchString(parts[2])
	default:
		return false
	}
}

// ValidatePartialCode reports whether v is an acceptable code word while it is
// being typed: up to four hex characters.
func ValidatePartialCode(v string) bool {
	return partialCode.MatchString(v)
}

// Sequence returns the bytes taking part in the checksum, before the trailing
// checksum byte is dropped: the two decimal segments in reverse order, the last
// two hex characters of the module block, its first character, then every code
// split into byte pairs.
func Sequence(moduleID string, codes ...string) ([]int, error) {
	if err := ValidateModuleID(moduleID); err != nil {
		return nil, err
	}
	hhh, rest, _ := strings.Cut(moduleID, "-")
	xx1, xx2, _ := strings.Cut(rest, "-")

	seq := make([]int, 0, 4+2*len(codes))
	for _, dec := range []string{xx2, xx1} {
		n, _ := strconv.Atoi(dec)
		seq = append(seq, n)
	}
	for _, part := range []string{hhh[1:3], hhh[0:1]} {
		n, _ := strconv.ParseUint(part, 16, 8)
		seq = append(seq, int(n))
	}
	for _, code := range codes {
		if !codePattern.MatchString(code) {
			return nil, fmt.Errorf("%w: code %q must be 4 hex characters", ErrInvalidInput, code)
		}
		for i := 0; i < len(code); i += 2 {
			n, _ := strconv.ParseUint(code[i:i+2], 16, 8)
			seq = append(seq, int(n))
		}
	}
	return seq, nil
}

// Compute returns the block with the checksum written into the last byte of the
// last code entered. code2 and code3 are optional; pass "" to omit them.
func Compute(moduleID, code1, code2, code3 string) (Result, error) {
	moduleID = strings.ToUpper(strings.TrimSpace(moduleID))
	code1 = strings.ToUpper(strings.TrimSpace(code1))
	code2 = strings.ToUpper(strings.TrimSpace(code2))
	code3 = strings.ToUpper(strings.TrimSpace(code3))

	if err := ValidateModuleID(moduleID); err != nil {
		return Result{}, err
	}
	if !codePattern.MatchString(code1) {
		return Result{}, fmt.Errorf("%w: Code 1 must be 4 characters long", ErrInvalidInput)
	}
	for i, code := range []string{code2, code3} {
		if code != "" && !codePattern.MatchString(code) {
			return Result{}, fmt.Errorf("%w: Code %d must be empty or 4 hex characters", ErrInvalidInput, i+2)
		}
	}

	codes := []string{code1, code2, code3}
	var entered []string
	slot := 0
	for i, code := range codes {
		if code != "" {
			entered = append(entered, code)
			slot = i
		}
	}

	seq, err := Sequence(moduleID, entered...)
	if err != nil {
		return Result{}, err
	}
	seq = seq[:len(seq)-1]

	sum := 0
	for _, b := range seq {
		sum += b
	}
	checksum := fmt.Sprintf("%02X", sum&0xFF)

	codes[slot] = codes[slot][:2] + checksum
	return Result{ModuleID: moduleID, Codes: codes, Checksum: checksum, Slot: slot}, nil
}
