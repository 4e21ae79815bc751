package validation

import "errors"

var errFutureDate = errors.New("validation: date is not in the past")
