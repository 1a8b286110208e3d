// Package apperr defines the error taxonomy shared by the gateway.
//
// Errors fall into five kinds (domain, not found, already exists, validation,
// connection). The kind fixes the HTTP status; the code identifies the
// concrete condition and is what clients switch on:
//
//	err := apperr.CollectionNotFound(
//	    apperr.WithMessage("Collection 'docs' not found"),
//	    apperr.WithDetails(map[string]interface{}{"collection": "docs"}),
//	)
//	errors.Is(err, apperr.ErrCollectionNotFound) // true
//	err.Status()                                 // 404
//	err.Body()                                   // {error, message, details}
package apperr
