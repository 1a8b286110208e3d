package qdrant

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Aleph-Alpha/qdrant-gateway/v1/apperr"
)

// classify maps transport failures onto the taxonomy:
//
//	Unavailable                         -> QdrantConnection (503)
//	DeadlineExceeded / context deadline -> QdrantTimeout    (503)
//	InvalidArgument                     -> InvalidRequest   (422)
//	NotFound                            -> CollectionNotFound      (404)
//	AlreadyExists                       -> CollectionAlreadyExists (409)
//
// The last two apply only when the operation addresses a collection, named
// by attrs["collection"]. Taxonomy errors pass through untouched. Everything
// else is wrapped and left unclassified.
func classify(op string, attrs map[string]interface{}, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperr.From(err); ok {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.QdrantTimeout(
			apperr.WithMessage(fmt.Sprintf("Qdrant %s timed out", op)),
			apperr.WithCause(err),
		)
	}

	st := status.Convert(err)
	switch st.Code() {
	case codes.Unavailable:
		return apperr.QdrantConnection(
			apperr.WithMessage(fmt.Sprintf("Qdrant is unavailable: %s", st.Message())),
			apperr.WithCause(err),
		)
	case codes.DeadlineExceeded:
		return apperr.QdrantTimeout(
			apperr.WithMessage(fmt.Sprintf("Qdrant %s timed out", op)),
			apperr.WithCause(err),
		)
	case codes.InvalidArgument:
		return apperr.InvalidRequest(
			apperr.WithMessage(st.Message()),
			apperr.WithCause(err),
		)
	}

	if name, ok := attrs["collection"].(string); ok && name != "" {
		switch st.Code() {
		case codes.NotFound:
			return apperr.CollectionNotFound(
				apperr.WithMessage(fmt.Sprintf("Collection '%s' not found", name)),
				apperr.WithDetails(map[string]interface{}{"collection": name}),
				apperr.WithCause(err),
			)
		case codes.AlreadyExists:
			return apperr.CollectionAlreadyExists(
				apperr.WithMessage(fmt.Sprintf("Collection '%s' already exists", name)),
				apperr.WithDetails(map[string]interface{}{"collection": name}),
				apperr.WithCause(err),
			)
		}
	}

	return fmt.Errorf("[Qdrant] %s failed: %w", op, err)
}

// isAbsent reports whether err means the addressed point cannot exist:
// a missing collection or an id the server refuses to parse.
func isAbsent(err error) bool {
	switch status.Code(err) {
	case codes.NotFound, codes.InvalidArgument:
		return true
	}
	return false
}
