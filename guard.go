package credentials

import (
	"context"

	"github.com/goliatone/go-credentials/middleware/bearerware"
	"github.com/goliatone/go-router"
)

// GuardValidator adapts a credentials TokenValidator into the middleware's
// validator interface.
func GuardValidator(v TokenValidator) bearerware.TokenValidator {
	return bearerware.TokenValidatorFunc(func(tokenString string) (bearerware.AuthClaims, error) {
		claims, err := v.Validate(tokenString)
		if err != nil {
			return nil, err
		}
		return claims, nil
	})
}

// ContextEnricherAdapter adapts bearerware.AuthClaims to credentials.AuthClaims
// and stores them in the standard context for downstream handler usage.
func ContextEnricherAdapter(c context.Context, claims bearerware.AuthClaims) context.Context {
	authClaims, ok := claims.(AuthClaims)
	if !ok {
		return c
	}

	return WithClaimsContext(c, authClaims)
}

// ProtectedRoute returns middleware that rejects requests lacking a valid
// bearer token. Claims from accepted tokens are exposed through the router
// context under the configured context key and through the standard context.
func ProtectedRoute(cfg Config, validator TokenValidator, errorHandler func(router.Context, error) error) router.MiddlewareFunc {
	return bearerware.New(bearerware.Config{
		TokenValidator:  GuardValidator(validator),
		ContextKey:      cfg.GetContextKey(),
		TokenLookup:     cfg.GetTokenLookup(),
		AuthScheme:      cfg.GetAuthScheme(),
		ErrorHandler:    errorHandler,
		ContextEnricher: ContextEnricherAdapter,
	})
}
