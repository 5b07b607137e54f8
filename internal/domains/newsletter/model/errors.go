package model

import "celebstyle-backend/internal/shared/apperror"

var ErrSubscriberNotFound = apperror.NotFound("SUBSCRIBER_NOT_FOUND", "Subscriber not found")
