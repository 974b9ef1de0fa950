package domain

// EmailOTP is the live one-time password for an email address.
// PK: email. ExpiresAt is a Unix timestamp used as DynamoDB TTL.
type EmailOTP struct {
	Email     string `json:"email" dynamodbav:"email"`
	Code      string `json:"-" dynamodbav:"code"`
	Attempts  int    `json:"attempts" dynamodbav:"attempts"`
	CreatedAt int64  `json:"created_at" dynamodbav:"created_at"`
	ExpiresAt int64  `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
}

// Email log statuses.
const (
	EmailStatusSent   = "sent"
	EmailStatusFailed = "failed"
)

// EmailLog records a single outbound email attempt.
type EmailLog struct {
	LogID     string `json:"log_id" dynamodbav:"log_id"`
	Email     string `json:"email" dynamodbav:"email"`
	Type      string `json:"type" dynamodbav:"type"` // "otp"
	Status    string `json:"status" dynamodbav:"status"`
	Error     string `json:"error,omitempty" dynamodbav:"error,omitempty"`
	CreatedAt string `json:"created_at" dynamodbav:"created_at"`
}
