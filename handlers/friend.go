package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"linkup/services"
)

type FriendRequestRequest struct {
	ToUserID string `json:"toUserId" binding:"required"`
}

type FriendRespondRequest struct {
	RequestID string `json:"requestId" binding:"required"`
	Accept    bool   `json:"accept"`
}

func SendFriendRequest(c *gin.Context) {
	var req FriendRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	toID, err := primitive.ObjectIDFromHex(req.ToUserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target user ID"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	fr, err := svc.SendFriendRequest(ctx, userID, toID)
	switch {
	case errors.Is(err, services.ErrSelfFriendRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot send a friend request to yourself"})
		return
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	case errors.Is(err, services.ErrFriendRequestExists):
		c.JSON(http.StatusConflict, gin.H{"error": "Friend request already pending"})
		return
	case errors.Is(err, services.ErrAlreadyFriends):
		c.JSON(http.StatusConflict, gin.H{"error": "Already friends"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send friend request"})
		return
	}

	c.JSON(http.StatusCreated, fr)
}

func RespondFriendRequest(c *gin.Context) {
	var req FriendRespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	requestID, err := primitive.ObjectIDFromHex(req.RequestID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	fr, err := svc.RespondFriendRequest(ctx, requestID, userID, req.Accept)
	if errors.Is(err, services.ErrFriendRequestNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Friend request not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to respond to friend request"})
		return
	}

	c.JSON(http.StatusOK, fr)
}

func GetFriendRequests(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	reqs, err := svc.ListFriendRequests(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch friend requests"})
		return
	}

	c.JSON(http.StatusOK, reqs)
}

func GetFriends(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	friends, err := svc.ListFriends(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch friends"})
		return
	}

	c.JSON(http.StatusOK, friends)
}
