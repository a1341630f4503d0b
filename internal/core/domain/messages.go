package domain

// Client-facing messages. They never carry store or hashing detail.
const (
	MsgAllFieldsRequired    = "All fields are required"
	MsgCredentialsRequired  = "Email and password are required"
	MsgEmailRequired        = "Email is required"
	MsgResetFieldsRequired  = "Email and new password are required"
	MsgPasswordTooShort     = "Password must be at least 6 characters"
	MsgServerError          = "Server error"
	MsgEmailRegistered      = "Email already registered"
	MsgPasswordProcessing   = "Error processing password"
	MsgCreateFailed         = "Failed to create account"
	MsgUserDoesNotExist     = "User does not exist"
	MsgPasswordVerification = "Error verifying password"
	MsgWrongPassword        = "Wrong password"
	MsgUserNotFound         = "User not found"
	MsgPasswordUpdateFailed = "Failed to update password"
	MsgInvalidPayload       = "Invalid request payload"
)
