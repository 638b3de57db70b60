// Package middleware provides net/http guards over the authcore Engine.
// Guard resolves the bearer token into an [authcore.Identity] stored in the
// request context; RequireActive layers the active-account policy gate on
// top. Every authentication failure maps to a bare 401 so that HTTP callers
// learn nothing about why a credential was rejected.
package middleware
