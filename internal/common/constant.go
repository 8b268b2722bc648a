package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// SessionStorageKey is the fixed credential store key under which the
// serialized session record is persisted.
const SessionStorageKey = "user"
