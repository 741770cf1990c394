package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming

    "github.com/golang-jwt/jwt/v5" // JWT library for parsing and validating tokens
    "github.com/labstack/echo/v4"  // Echo framework used for defining middleware and handlers
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the token's claims into the request context.  Tokens encode
// the account email as subject together with the numeric account id and
// role.  The provided secret must match the one used when issuing tokens.
// Handlers behind this middleware read the identity via
// c.Get("account_id"), c.Get("email") and c.Get("role").
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            // A valid header starts with "Bearer " followed by the JWT.
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            // Parse with the HS256 secret; reject tokens signed any other way.
            tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
                if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
                    return nil, echo.ErrUnauthorized
                }
                return []byte(secret), nil
            })
            if err != nil || !tok.Valid {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }

            claims, ok := tok.Claims.(jwt.MapClaims)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
            }

            // JWT numbers decode as float64; convert the account id here so
            // handlers get a uint64 without repeating the assertion dance.
            uid, ok := claims["uid"].(float64)
            if !ok || uid <= 0 {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
            }
            c.Set("account_id", uint64(uid))
            c.Set("email", claims["sub"])
            c.Set("role", claims["role"])
            return next(c)
        }
    }
}

// AccountID extracts the authenticated account id stored by JWTAuth.  It
// returns 0 when the request is unauthenticated.
func AccountID(c echo.Context) uint64 {
    if v, ok := c.Get("account_id").(uint64); ok {
        return v
    }
    return 0
}
