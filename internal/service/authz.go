package service

import "devconnector/internal/models"

// Authorize returns FORBIDDEN unless the caller owns the resource.
func Authorize(callerID, ownerID uint) error {
	if callerID != ownerID {
		return models.NewForbiddenError("User not authorized")
	}
	return nil
}
