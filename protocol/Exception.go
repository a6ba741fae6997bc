package protocol

// ExceptionRequest asks for an early clock in or overtime exception. The
// first submission omits the passcode and triggers delivery to the
// employee's email. The second submission carries the passcode.
type ExceptionRequest struct {
	// RequestedTime optionally names the clock time sought as HH:MM. When
	// empty the current time is used.
	RequestedTime string `json:"requestedTime,omitempty"`
	// OTP is the emailed one time passcode. Empty on the first submission.
	OTP string `json:"otp,omitempty"`
}

// ExceptionResponse reports the outcome of an exception request.
type ExceptionResponse struct {
	// OTPSent is true when a passcode was generated and emailed.
	OTPSent bool `json:"otpSent,omitempty"`
	// ApprovalID identifies the queued request awaiting an admin decision.
	ApprovalID string `json:"approvalId,omitempty"`
	// Status is PENDING when a request was queued.
	Status string `json:"status,omitempty"`
	// Message is a short operator readable explanation.
	Message string `json:"message"`
}
