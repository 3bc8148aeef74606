package http

const (
	CodeUnknown          = "UNKNOWN"
	CodeNotFound         = "NOT_FOUND"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeInvalidJSON      = "INVALID_JSON"
	CodeInvalidForm      = "INVALID_FORM"
	CodeBadRequest       = "BAD_REQUEST"
	CodeBodyTooLarge     = "BODY_TOO_LARGE"
	CodeUnauthenticated  = "UNAUTHENTICATED"
)

// UnauthenticatedMessage is the only text a client ever sees for a rejected
// bearer token, whatever the underlying reason was.
const UnauthenticatedMessage = "could not validate credentials"
