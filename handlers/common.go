package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"linkup/services"
)

// Shared across all handler files.
var svc *services.Service

// SetService wires the service layer; called once from main.
func SetService(s *services.Service) {
	svc = s
}

// currentUserID reads the authenticated user's id set by the JWT middleware.
// On failure it writes the 401 itself and reports false.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return primitive.NilObjectID, false
	}
	return userID, true
}
