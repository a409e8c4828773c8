package mongo

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// Server error codes the repositories translate into domain errors.
const (
	codeNamespaceNotFound  = 26
	codeDocumentValidation = 121
)

// isValidationError reports whether err is a $jsonSchema rejection.
func isValidationError(err error) bool {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == codeDocumentValidation {
				return true
			}
		}
	}
	var ce mongo.CommandError
	return errors.As(err, &ce) && ce.Code == codeDocumentValidation
}
