package domain

// VaultStatus is the state of a vault's kill switch.
type VaultStatus int

const (
	// VaultStatusActive lets every operation through.
	VaultStatusActive VaultStatus = iota
	// VaultStatusPaused blocks any value movement.
	VaultStatusPaused
)

// Operation identifies a state-changing operation on a vault.
type Operation int

const (
	OperationDeposit Operation = iota
	OperationWithdraw
	OperationLogTransaction
	OperationPause
	OperationResume
	OperationClose
)

// permittedOperations is the single allow-list of which operation each
// status lets through. Pausing gates value movement only: logging and
// administrative control stay available.
var permittedOperations = map[VaultStatus]map[Operation]bool{
	VaultStatusActive: {
		OperationDeposit:        true,
		OperationWithdraw:       true,
		OperationLogTransaction: true,
		OperationPause:          true,
		OperationResume:         true,
		OperationClose:          true,
	},
	VaultStatusPaused: {
		OperationLogTransaction: true,
		OperationPause:          true,
		OperationResume:         true,
		OperationClose:          true,
	},
}

// Permits returns whether op is allowed while in status s.
func (s VaultStatus) Permits(op Operation) bool {
	return permittedOperations[s][op]
}

func (s VaultStatus) String() string {
	switch s {
	case VaultStatusActive:
		return "active"
	case VaultStatusPaused:
		return "paused"
	default:
		return "unknown"
	}
}

func (op Operation) String() string {
	switch op {
	case OperationDeposit:
		return "deposit"
	case OperationWithdraw:
		return "withdraw"
	case OperationLogTransaction:
		return "log_transaction"
	case OperationPause:
		return "emergency_pause"
	case OperationResume:
		return "resume_vault"
	case OperationClose:
		return "close_vault"
	default:
		return "unknown"
	}
}
