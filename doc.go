// Package blog implements a conventional blog backend: accounts with
// registration and login, posts, comments, and categories, all behind JWT
// bearer authentication with role-based authorization.
//
// The core of the package is the auth layer:
//   - Authenticator validates a bearer header: the token is checked against
//     the revoked-token blacklist before its signature, so a revoked token is
//     rejected even while it is still cryptographically valid.
//   - Authorizer decides admin and owner-or-admin access. The owner match
//     short-circuits without touching the store; role checks always re-read
//     the current role so privilege changes apply on the next request.
//   - Issuer mints 30-day session tokens and 1-hour password-reset tokens,
//     and revokes sessions on sign-out through the blacklist.
//
// Persistence goes through a RepositoryManager built once at process start
// and injected into every component; there is no lazily initialized global
// connection.
package blog
