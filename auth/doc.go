// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides identity tokens and ID generation.

# Bearer Tokens

Tokens are HS256 JWTs whose subject is the user id:

	token, err := auth.IssueToken(auth.Identity{UserID: id}, secret, ttl)
	id, err := auth.ParseToken(token, secret)

ParseToken rejects expired tokens, other signing methods, and tokens
without a subject, returning ErrInvalidToken.

BearerToken extracts the token from an Authorization header value:

	token := auth.BearerToken(r.Header.Get("Authorization"))

# ID Generation

Random hex IDs for database records:

	id, err := auth.GenerateID(16)  // 32 hex characters
	id := auth.NewID()              // same, panics if the RNG fails
*/
package auth
