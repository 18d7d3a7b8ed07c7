package id

import "github.com/oklog/ulid/v2"

// New returns a new ULID string. ULIDs sort by creation time, which keeps
// account ids usable as DynamoDB partition keys and Mongo _id values alike.
func New() string {
	return ulid.Make().String()
}
