package util

import (
	"fmt"
	"strings"
	"unicode"
)

// nameReserved are characters a topology or plan name may not contain:
// the key separator '|', path separators, and Redis glob metacharacters.
const nameReserved = `|/\*?[]`

// ValidateTopologyName checks a name used for published topologies,
// stored plans and generated file names.
func ValidateTopologyName(name string) error {
	if name == "" {
		return NewValidationError("topology name is required")
	}
	if strings.ContainsAny(name, nameReserved) || strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return NewValidationError(fmt.Sprintf("topology name %q must not contain whitespace or any of %s", name, nameReserved))
	}
	return nil
}
