package jwttoken

import (
	"emarge/internal/platform/middleware"
)

// MiddlewareAdapter bridges the JWT service to the middleware.JWTValidator
// interface without the middleware package importing jwt internals.
type MiddlewareAdapter struct {
	service *Service
}

func NewMiddlewareAdapter(service *Service) *MiddlewareAdapter {
	return &MiddlewareAdapter{service: service}
}

func (a *MiddlewareAdapter) ValidateToken(tokenString string) (*middleware.StaffClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &middleware.StaffClaims{
		StaffID: claims.StaffID,
		Role:    claims.Role,
	}, nil
}
