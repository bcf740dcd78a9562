package application

import "errors"

var (
	// ErrAirdropDisabled is returned when requesting an airdrop on a daemon
	// that doesn't allow them.
	ErrAirdropDisabled = errors.New("airdrops are disabled")
	// ErrAirdropTooLarge is returned when the requested airdrop exceeds the
	// configured cap.
	ErrAirdropTooLarge = errors.New("airdrop amount exceeds the allowed maximum")
	// ErrProgramOwnedAccount is returned when requesting an airdrop to a vault
	// or transaction record account.
	ErrProgramOwnedAccount = errors.New("account is owned by the vault program")
	// ErrInvalidTopic is returned when subscribing a webhook for an unknown
	// topic.
	ErrInvalidTopic = errors.New("topic is invalid")
	// ErrWebhookManagerNotInitialized is returned when attempting to manage
	// webhooks without a pubsub service.
	ErrWebhookManagerNotInitialized = errors.New("webhook manager is not initialized")
	// ErrUnknownDBType is returned for an unsupported database type.
	ErrUnknownDBType = errors.New("unknown db type")
)
