// Package auth issues and verifies the bearer credentials that identify API callers.
//
// # Tokens
//
// [TokenAuthority] signs HS256 JWTs. Access tokens carry the user id and expire after
// auth.access_token_age; refresh tokens are signed with a separate key, carry a unique jti and
// are only honoured while present in a [RefreshStore].
//
// # Refresh stores
//
// The database store lives in the repositories package. [RedisStore] keeps refresh tokens in
// redis with the refresh token age as TTL.
//
// # Guard
//
// [Guard] turns an "Authorization: Bearer" header into the acting principal, which handlers read
// back with [PrincipalFrom].
package auth
