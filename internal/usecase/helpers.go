package usecase

import (
	"fmt"
	"math"
	"time"

	"foodshare/internal/session"
	"foodshare/pkg/errors"
)

// requireUser returns the signed-in user id and display name.
func requireUser(sess *session.Session) (string, string, error) {
	if sess == nil {
		return "", "", errors.Unauthorized("Authentication required", nil)
	}
	uid := sess.UserID()
	if uid == "" {
		return "", "", errors.Unauthorized("Authentication required", nil)
	}
	return uid, sess.DisplayName(), nil
}

func checkLimit(limiter ActionLimiter, uid, action, message string) error {
	if limiter == nil {
		return nil
	}
	if ok, wait := limiter.Allow(uid, action); !ok {
		seconds := int(math.Ceil(wait.Seconds()))
		if seconds < 1 {
			seconds = 1
		}
		return errors.TooManyRequests(fmt.Sprintf("%s, try again in %ds", message, seconds), nil)
	}
	return nil
}

var now = time.Now
