package impl

import (
	"github.com/google/uuid"
)

// Ephemeral store key layout.
const (
	signupTokenPrefix = "signup:token:"
	signupEmailPrefix = "signup:email:"
	otpPrefix         = "otp:"
	refreshPrefix     = "refresh:"
	rateLimitPrefix   = "ratelimit:"
)

// Rate-limited actions.
const (
	actionSignup    = "signup"
	actionLogin     = "login"
	actionResendOTP = "resend-otp"
)

func signupTokenKey(token string) string { return signupTokenPrefix + token }

func signupEmailKey(email string) string { return signupEmailPrefix + email }

func otpKey(email string) string { return otpPrefix + email }

func refreshKey(accountID uuid.UUID) string { return refreshPrefix + accountID.String() }

func rateLimitKey(action, ip, email string) string {
	return rateLimitPrefix + action + ":" + ip + ":" + email
}
