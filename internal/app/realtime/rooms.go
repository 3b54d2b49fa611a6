// internal/app/realtime/rooms.go

package realtime

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DeriveRoomID returns the canonical room id for a pair of users. The
// two hex ids are sorted before joining, so both participants derive
// the same id regardless of argument order and no room registry is
// needed.
func DeriveRoomID(a, b primitive.ObjectID) string {
	ids := []string{a.Hex(), b.Hex()}
	if ids[1] < ids[0] {
		ids[0], ids[1] = ids[1], ids[0]
	}
	return strings.Join(ids, "_")
}
