// Package credentials provides credential issuance and verification
// primitives: user registration with unique identity fields, password
// verification against bcrypt hashes, signed bearer-token issuance, and a
// route guard that verifies tokens in front of protected handlers.
//
// The package holds no session state; an issued token is the full credential
// and logout is an acknowledgment only. Signing configuration is injected at
// construction so secrets can be rotated per deployment, and a missing
// signing key fails at wiring time rather than per request.
//
// Persistence goes through a Bun-backed Users repository. Email and username
// uniqueness is enforced both by ordered pre-checks (email first, so the
// reported conflict is stable) and by UNIQUE constraints in the schema, so a
// raced signup still surfaces as a conflict error.
package credentials
