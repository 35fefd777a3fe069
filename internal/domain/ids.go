package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// NewID returns a fresh 24-character hexadecimal identifier.
// Every store backend uses the same ObjectID format so ids are portable between them.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// IsValidID reports whether id is a 24-character hexadecimal string.
func IsValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}
