package models

import "time"

// Role is the kind of actor behind a request.
type Role string

const (
	RoleClient Role = "client"
	RoleVendor Role = "vendor"
	RoleAdmin  Role = "admin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleClient, RoleVendor, RoleAdmin:
		return true
	}
	return false
}

// Principal is an authenticated actor. Credentials are managed elsewhere; the
// directory only keeps what bookings and stations need to reference.
type Principal struct {
	ID        string    `bson:"id" json:"id"`
	Role      Role      `bson:"role" json:"role"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	FCMToken  string    `bson:"fcmToken,omitempty" json:"-"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
