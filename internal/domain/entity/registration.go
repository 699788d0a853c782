package entity

// PendingRegistration is signup data waiting for email verification.
// It lives only in the ephemeral store, keyed by its verification token.
type PendingRegistration struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	PasswordHash  string `json:"passwordHash"`
	Contact       string `json:"contact"`
	Role          Role   `json:"role"`
	AgencyName    string `json:"agencyName,omitempty"`
	LicenseNumber string `json:"licenseNumber,omitempty"`
}
