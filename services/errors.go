package services

import "errors"

// Sentinel errors handlers branch on for status codes.
var (
	ErrPostNotFound          = errors.New("post not found")
	ErrCommentNotFound       = errors.New("comment not found")
	ErrUserNotFound          = errors.New("user not found")
	ErrNotificationNotFound  = errors.New("notification not found")
	ErrEmailTaken            = errors.New("email already in use")
	ErrEmptyContent          = errors.New("content must not be empty")
	ErrSelfFriendRequest     = errors.New("cannot send a friend request to yourself")
	ErrFriendRequestExists   = errors.New("friend request already pending")
	ErrAlreadyFriends        = errors.New("already friends")
	ErrFriendRequestNotFound = errors.New("friend request not found")
)
