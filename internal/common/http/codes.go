package http

const (
	CodeInternal         = "INTERNAL_ERROR"
	CodeUnauthenticated  = "UNAUTHENTICATED"
	CodePayloadTooLarge  = "PAYLOAD_TOO_LARGE"
	CodeNotFound         = "NOT_FOUND"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
)
