package transaction

import (
	"strings"

	errs "github.com/amirhossein-jamali/lab-lending/internal/domain/error"
)

// RequestValidator provides validation for incoming borrow requests
type RequestValidator struct{}

// NewRequestValidator creates a new RequestValidator
func NewRequestValidator() *RequestValidator {
	return &RequestValidator{}
}

// ValidateCreate checks the contextual metadata and item lines of a borrow
// request, collecting every problem into one field-level message list
func (v *RequestValidator) ValidateCreate(req CreateBorrowRequest) error {
	fields := map[string]string{}

	if strings.TrimSpace(req.UserID) == "" {
		fields["userId"] = "borrower id is required"
	}
	if strings.TrimSpace(req.CourseSubject) == "" {
		fields["courseSubject"] = "course/subject is required"
	}
	if strings.TrimSpace(req.Professor) == "" {
		fields["professor"] = "professor is required"
	}
	if strings.TrimSpace(req.RoomNo) == "" {
		fields["roomNo"] = "room number is required"
	}
	if req.DurationHours < 0 || req.DurationMinutes < 0 {
		fields["duration"] = "duration components must not be negative"
	} else if req.DurationHours == 0 && req.DurationMinutes == 0 {
		fields["duration"] = "a borrow duration is required"
	}
	if len(req.Lines) == 0 {
		fields["items"] = "at least one scanned item is required"
	}
	seen := make(map[string]bool, len(req.Lines))
	for _, line := range req.Lines {
		if strings.TrimSpace(line.ItemBarcode) == "" {
			fields["items"] = "every line needs an item barcode"
			break
		}
		if line.Quantity <= 0 {
			fields["items"] = "quantity for item " + line.ItemBarcode + " must be positive"
			break
		}
		// One line per barcode; repeated scans must be combined by the caller
		if seen[line.ItemBarcode] {
			fields["items"] = "item " + line.ItemBarcode + " is scanned more than once"
			break
		}
		seen[line.ItemBarcode] = true
	}

	if len(fields) > 0 {
		return errs.NewValidationError(fields)
	}
	return nil
}
