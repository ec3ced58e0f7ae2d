package notify

import "errors"

var (
	ErrNotificationNotFound = errors.New("notify: notification not found")
	ErrEncodeData           = errors.New("notify: failed to encode notification data")
	ErrExecQuery            = errors.New("notify: failed to execute query")
)
