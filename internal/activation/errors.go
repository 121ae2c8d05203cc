package activation

import "fmt"

// Stable numeric failure codes. Clients match on these, so the values are
// part of the wire contract and must not change.
const (
	CodeInvalidRequest     = 100
	CodeInvalidLicense     = 101
	CodeInvalidProductID   = 102
	CodeInvalidEmail       = 103
	CodeProductNotGranted  = 104
	CodeLimitReached       = 105
	CodeActivationFailed   = 107
	CodeDeactivationFailed = 108
	CodeInstanceNotFound   = 109
	CodeLicenseExpired     = 110
)

// Error is a protocol-level failure carried back to the client as
// {"success": false, "code": N, "message": ...}.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func errInvalidRequest() *Error {
	return &Error{Code: CodeInvalidRequest, Message: "Invalid API request."}
}

func errInvalidLicense() *Error {
	return &Error{Code: CodeInvalidLicense, Message: "Activation error: The provided license is invalid."}
}

func errInvalidProductID() *Error {
	return &Error{Code: CodeInvalidProductID, Message: "Activation error: Invalid API product ID."}
}

func errInvalidEmail(email string) *Error {
	return &Error{Code: CodeInvalidEmail, Message: fmt.Sprintf("Activation error: The email provided (%s) is invalid.", email)}
}

func errProductNotGranted() *Error {
	return &Error{Code: CodeProductNotGranted, Message: "This license does not allow access to the requested product."}
}

func errLimitReached(accountURL string) *Error {
	return &Error{Code: CodeLimitReached, Message: fmt.Sprintf("Activation error: Activation limit reached. Please deactivate an install first at your account page: %s.", accountURL)}
}

func errActivationFailed() *Error {
	return &Error{Code: CodeActivationFailed, Message: "Activation error: Could not activate license key. Please contact support."}
}

func errDeactivationFailed() *Error {
	return &Error{Code: CodeDeactivationFailed, Message: "Deactivation error: Could not deactivate license key. Please contact support."}
}

func errInstanceNotFound() *Error {
	return &Error{Code: CodeInstanceNotFound, Message: "Deactivation error: instance not found."}
}

func errLicenseExpired() *Error {
	return &Error{Code: CodeLicenseExpired, Message: "Activation error: The provided license has expired."}
}
