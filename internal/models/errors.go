package models

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrUserExists           = errors.New("Username or Email already exists")
	ErrInvalidCredentials   = errors.New("Invalid credentials")
	ErrAccountLocked        = errors.New("Your account has been blocked or suspended. Please contact the administrator.")
	ErrInvalidCaptcha       = errors.New("Invalid captcha. Please try again.")
	ErrSwitchNotAllowed     = errors.New("You are not allowed to switch dashboards.")
	ErrPasswordMismatch     = errors.New("Passwords do not match")
	ErrPasswordTooShort     = errors.New("Password must be at least 6 characters long")
	ErrAlreadyLiked         = errors.New("Already liked")
	ErrEmptyComment         = errors.New("Empty comment")
	ErrStoryNotFound        = errors.New("Story not found")
	ErrPendingRequestExists = errors.New("You already have a pending request.")
	ErrRequestNotFound      = errors.New("Request not found or already handled.")
	ErrCategoryExists       = errors.New("Category already exists")
	ErrInvalidStatus        = errors.New("Invalid status")
	ErrTitleContentRequired = errors.New("Title and content are required")
	ErrInvalidDateFormat    = errors.New("Invalid date format")
)
