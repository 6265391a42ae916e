package syncengine

import "errors"

var ErrUnknownPolicy = errors.New("unknown reconcile policy")
