package domain

import "github.com/gagliardetto/solana-go"

// Topic identifies a kind of vault event.
type Topic int

const (
	VaultCreatedTopic Topic = iota
	DepositTopic
	WithdrawTopic
	VaultPausedTopic
	VaultResumedTopic
	TransactionLoggedTopic
	AllTopics
)

var (
	topicToString = map[Topic]string{
		VaultCreatedTopic:      "VAULT_CREATED",
		DepositTopic:           "DEPOSIT",
		WithdrawTopic:          "WITHDRAW",
		VaultPausedTopic:       "VAULT_PAUSED",
		VaultResumedTopic:      "VAULT_RESUMED",
		TransactionLoggedTopic: "TRANSACTION_LOGGED",
		AllTopics:              "*",
	}
	stringToTopic = map[string]Topic{
		"VAULT_CREATED":      VaultCreatedTopic,
		"DEPOSIT":            DepositTopic,
		"WITHDRAW":           WithdrawTopic,
		"VAULT_PAUSED":       VaultPausedTopic,
		"VAULT_RESUMED":      VaultResumedTopic,
		"TRANSACTION_LOGGED": TransactionLoggedTopic,
		"*":                  AllTopics,
	}
)

// TopicFromString returns the topic with the given label.
func TopicFromString(str string) (Topic, bool) {
	topic, ok := stringToTopic[str]
	return topic, ok
}

// Topics returns all the topics an event can be published for, AllTopics
// excluded.
func Topics() []Topic {
	return []Topic{
		VaultCreatedTopic, DepositTopic, WithdrawTopic,
		VaultPausedTopic, VaultResumedTopic, TransactionLoggedTopic,
	}
}

func (t Topic) String() string {
	str, ok := topicToString[t]
	if !ok {
		return "UNKNOWN"
	}
	return str
}

// Event is a notification emitted once per successful vault operation.
type Event interface {
	Topic() Topic
	VaultAddress() solana.PublicKey
}

type VaultCreated struct {
	Vault     solana.PublicKey `json:"vault"`
	Authority solana.PublicKey `json:"authority"`
}

func (e VaultCreated) Topic() Topic                   { return VaultCreatedTopic }
func (e VaultCreated) VaultAddress() solana.PublicKey { return e.Vault }

type DepositEvent struct {
	Vault          solana.PublicKey `json:"vault"`
	Depositor      solana.PublicKey `json:"depositor"`
	Amount         uint64           `json:"amount"`
	TotalDeposited uint64           `json:"total_deposited"`
}

func (e DepositEvent) Topic() Topic                   { return DepositTopic }
func (e DepositEvent) VaultAddress() solana.PublicKey { return e.Vault }

type WithdrawEvent struct {
	Vault          solana.PublicKey `json:"vault"`
	Authority      solana.PublicKey `json:"authority"`
	Amount         uint64           `json:"amount"`
	TotalWithdrawn uint64           `json:"total_withdrawn"`
}

func (e WithdrawEvent) Topic() Topic                   { return WithdrawTopic }
func (e WithdrawEvent) VaultAddress() solana.PublicKey { return e.Vault }

type VaultPaused struct {
	Vault     solana.PublicKey `json:"vault"`
	Authority solana.PublicKey `json:"authority"`
	Timestamp int64            `json:"timestamp"`
}

func (e VaultPaused) Topic() Topic                   { return VaultPausedTopic }
func (e VaultPaused) VaultAddress() solana.PublicKey { return e.Vault }

type VaultResumed struct {
	Vault     solana.PublicKey `json:"vault"`
	Authority solana.PublicKey `json:"authority"`
	Timestamp int64            `json:"timestamp"`
}

func (e VaultResumed) Topic() Topic                   { return VaultResumedTopic }
func (e VaultResumed) VaultAddress() solana.PublicKey { return e.Vault }

type TransactionLogged struct {
	Vault       solana.PublicKey `json:"vault"`
	TxType      string           `json:"tx_type"`
	Amount      uint64           `json:"amount"`
	Description string           `json:"description"`
	Timestamp   int64            `json:"timestamp"`
}

func (e TransactionLogged) Topic() Topic                   { return TransactionLoggedTopic }
func (e TransactionLogged) VaultAddress() solana.PublicKey { return e.Vault }
