package services

import "go.mongodb.org/mongo-driver/bson/primitive"

// Decision is the outcome of an ownership check, with the reason kept for
// the error message on deny.
type Decision struct {
	Allowed bool
	Reason  string
}

// OwnerOnly is the whole authorization model: strict creator equality, no
// roles, no delegation. Callers must check resource existence first so a
// missing resource stays a NotFound rather than a Forbidden.
func OwnerOnly(actorID, ownerID primitive.ObjectID) Decision {
	if actorID == ownerID {
		return Decision{Allowed: true}
	}
	return Decision{Allowed: false, Reason: "not authorized to modify this post"}
}
