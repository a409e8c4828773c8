// Package memory provides process-local implementations of the repository
// ports. It backs STORE=memory development runs and end-to-end tests; ids are
// Mongo ObjectID hex strings so id handling matches the Mongo store.
package memory

import (
	"slices"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newID() string {
	return primitive.NewObjectID().Hex()
}

// validID mirrors the Mongo store, where a malformed id cannot match any document.
func validID(id string) bool {
	return primitive.IsValidObjectID(id)
}

func addToSet(set []string, v string) []string {
	if slices.Contains(set, v) {
		return set
	}
	return append(set, v)
}

func pull(set []string, v string) []string {
	return slices.DeleteFunc(slices.Clone(set), func(s string) bool { return s == v })
}
