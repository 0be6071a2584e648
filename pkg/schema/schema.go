// pkg/schema/schema.go
package schema

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Declared column sets for the three tables. A batch arriving with any
// other column set is structurally invalid and must be rejected before
// any correction rule runs.
var (
	CustomerColumns = []string{"customer_id", "name", "email", "state"}
	ProductColumns  = []string{"product_id", "product_name", "price", "category"}
	SaleColumns     = []string{"sale_id", "customer_id", "product_id", "quantity",
		"unit_price", "total_value", "sale_date", "status"}
)

// DefaultCategories is the accepted product category enumeration. The
// expectation suite can override it from the rules file.
var DefaultCategories = []string{
	"Electronics", "Books", "Clothing", "Furniture", "Accessories",
}

// validStates holds the 27 Brazilian federative unit codes.
var validStates = map[string]struct{}{
	"AC": {}, "AL": {}, "AP": {}, "AM": {}, "BA": {}, "CE": {}, "DF": {},
	"ES": {}, "GO": {}, "MA": {}, "MT": {}, "MS": {}, "MG": {}, "PA": {},
	"PB": {}, "PR": {}, "PE": {}, "PI": {}, "RJ": {}, "RN": {}, "RS": {},
	"RO": {}, "RR": {}, "SC": {}, "SP": {}, "SE": {}, "TO": {},
}

var emailPattern = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w+$`)

// ValidateHeader checks a loaded header against the declared column set
// for a table. The comparison is order-insensitive and case-insensitive;
// both missing and unexpected columns are reported in the error.
func ValidateHeader(table string, got, want []string) error {
	wanted := make(map[string]bool, len(want))
	for _, col := range want {
		wanted[col] = false
	}

	var unexpected []string
	for _, col := range got {
		name := strings.ToLower(strings.TrimSpace(col))
		if _, ok := wanted[name]; ok {
			wanted[name] = true
		} else {
			unexpected = append(unexpected, name)
		}
	}

	var missing []string
	for col, seen := range wanted {
		if !seen {
			missing = append(missing, col)
		}
	}
	sort.Strings(missing)
	sort.Strings(unexpected)

	if len(missing) == 0 && len(unexpected) == 0 {
		return nil
	}

	parts := make([]string, 0, 2)
	if len(missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing columns [%s]", strings.Join(missing, ", ")))
	}
	if len(unexpected) > 0 {
		parts = append(parts, fmt.Sprintf("unexpected columns [%s]", strings.Join(unexpected, ", ")))
	}
	return fmt.Errorf("invalid %s schema: %s", table, strings.Join(parts, "; "))
}

// IsValidEmail reports whether a string looks like an email address.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsKnownState reports whether a code is one of the Brazilian federative
// unit codes. The standardizer only enforces the two-character shape; this
// stricter check belongs to the expectation suite.
func IsKnownState(code string) bool {
	_, ok := validStates[code]
	return ok
}

// IsValidCategory reports whether a category belongs to the given
// enumeration.
func IsValidCategory(category string, categories []string) bool {
	for _, c := range categories {
		if c == category {
			return true
		}
	}
	return false
}
