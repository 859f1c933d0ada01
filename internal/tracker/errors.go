package tracker

import "errors"

var (
	ErrReadingNotFound    = errors.New("reading not found")
	ErrBookNotFound       = errors.New("book not found")
	ErrReadingClosed      = errors.New("reading is already finished or cancelled")
	ErrInvalidTotalPages  = errors.New("total_pages must be positive")
	ErrInvalidMode        = errors.New("mode must be \"pages\" or \"percentage\"")
	ErrInvalidReadAt      = errors.New("read_at must be a YYYY-MM-DD date")
	ErrInvalidDate        = errors.New("date must be a YYYY-MM-DD date")
	ErrProgressOutOfRange = errors.New("progress is outside the range allowed by the reading")
	ErrReadingMismatch    = errors.New("book_id or user_id does not match the reading")
	ErrUnknownReference   = errors.New("unknown book_id or user_id")
	ErrNotReadingOwner    = errors.New("reading belongs to another user")
)

// IsClientError reports whether err was caused by invalid caller input
// rather than by storage.
func IsClientError(err error) bool {
	for _, target := range []error{
		ErrInvalidTotalPages,
		ErrInvalidMode,
		ErrInvalidReadAt,
		ErrInvalidDate,
		ErrProgressOutOfRange,
		ErrReadingMismatch,
		ErrUnknownReference,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
