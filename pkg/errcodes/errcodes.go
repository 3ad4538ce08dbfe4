package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	Forbidden           failure.ErrorCode = "Forbidden"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"

	// Marketplace session and transport.
	AccessTokenExpired failure.ErrorCode = "AccessTokenExpired"
	AccessTokenInvalid failure.ErrorCode = "AccessTokenInvalid"
	RateLimited        failure.ErrorCode = "RateLimited"
	MarketplaceError   failure.ErrorCode = "MarketplaceError"

	// Authentication (session acquisition).
	AuthTimeout         failure.ErrorCode = "AuthTimeout"
	InvalidCredentials  failure.ErrorCode = "InvalidCredentials"
	TokenNotFound       failure.ErrorCode = "TokenNotFound" //nolint:gosec // false positive
	NavigationFailure   failure.ErrorCode = "NavigationFailure"
	SessionNotUsable    failure.ErrorCode = "SessionNotUsable"
	CredentialsMismatch failure.ErrorCode = "CredentialsMismatch"

	// Bot state store.
	BotNotFound      failure.ErrorCode = "BotNotFound"
	InvalidBotStatus failure.ErrorCode = "InvalidBotStatus"
	InvalidFilters   failure.ErrorCode = "InvalidFilters"
	InvalidOfferID   failure.ErrorCode = "InvalidOfferID"
)
