// Package rpc defines the shoppi backend gRPC contract.
//
// Messages travel as google.protobuf.Struct values so the service needs no
// generated stubs: Encode and Decode convert between the Go message types
// below and their Struct form through their JSON representation.
package rpc

import "time"

const ServiceName = "shoppi.v1.Backend"

const (
	MethodSignUp          = "SignUp"
	MethodSignIn          = "SignIn"
	MethodSignOut         = "SignOut"
	MethodCurrentIdentity = "CurrentIdentity"
	MethodSelect          = "Select"
	MethodInsert          = "Insert"
	MethodUpdate          = "Update"
	MethodDelete          = "Delete"
	MethodPing            = "Ping"
)

// FullMethod returns the gRPC path for method, e.g. /shoppi.v1.Backend/SignIn.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

type Empty struct{}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type AuthSession struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	Identity    Identity  `json:"identity"`
}

// Row is a single table row keyed by column name.
type Row = map[string]any

// SelectRequest fetches rows of Table where Column equals Value.
// An empty Column selects every row the caller may see.
type SelectRequest struct {
	Table  string `json:"table"`
	Column string `json:"column,omitempty"`
	Value  any    `json:"value,omitempty"`
}

type InsertRequest struct {
	Table string `json:"table"`
	Row   Row    `json:"row"`
}

type UpdateRequest struct {
	Table   string `json:"table"`
	Column  string `json:"column"`
	Value   any    `json:"value"`
	Changes Row    `json:"changes"`
}

type DeleteRequest struct {
	Table  string `json:"table"`
	Column string `json:"column"`
	Value  any    `json:"value"`
}

type Rows struct {
	Rows []Row `json:"rows"`
}

type Pong struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}
