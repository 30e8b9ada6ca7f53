package params

import "time"

const (
	ServerBodyLimit         = 8 * 1048576 // 8 MiB, uploads included
	ServerIdleTimeout       = 30 * time.Second
	ServerReadTimeout       = 10 * time.Second
	ServerWriteTimeout      = 10 * time.Second
	APIVersion              = "1.0"
	RevokedTokenKeyPrefix   = "r:"
	TokenTypeBearer         = "bearer"
	DefaultSigningAlgorithm = "HS256"
	DefaultAccessTokenTTL   = 60 * time.Minute   // lifetime of an access token
	DefaultRefreshTokenTTL  = 7 * 24 * time.Hour // lifetime of a refresh token
	MinRevocationTTL        = time.Second        // redis rejects a zero expiry
	PasswordMinLength       = 6
	PasswordMaxLength       = 16
	UsernameMinLength       = 3
	UsernameMaxLength       = 50
	EmailMaxLength          = 254
	SexMaxLength            = 7
	TagNameMaxLength        = 13
	MaxTagsPerImage         = 5
	CommentMaxLength        = 255
	DescriptionMaxLength    = 150
	MinRate                 = 1
	MaxRate                 = 5
	HealthCheckServerAddr   = ":3001"         // health check and metrics server address
	EventPublishTimeout     = 5 * time.Second // upper bound for a single kafka write
	AuditRecordTimeout      = 3 * time.Second
)
