package device

import (
	"fmt"

	"gridcert.org/internal/validate"
)

// ValidateSubmission checks a device group submission. Every child is
// validated independently so the form can flag all invalid rows at once,
// then the aggregate capacity cap is applied on top. Per-child errors and
// the aggregate error may be present simultaneously.
//
// The aggregate error deliberately lands on the last child's capacity
// path, not on whichever row pushed the total over the limit. That is the
// historical behavior the form layer renders, kept as documented.
func ValidateSubmission(sub GroupSubmission) *validate.Error {
	verr := validate.Struct(sub)

	if len(sub.Children) > 0 && TotalCapacityW(sub.Children) > MaxTotalCapacityW {
		verr = validate.Append(verr, validate.FieldError{
			Path: fmt.Sprintf("children[%d].capacity", len(sub.Children)-1),
			Message: fmt.Sprintf("Total capacity can be maximum: %s",
				FormatPowerW(MaxTotalCapacityW)),
		})
	}
	return verr
}
