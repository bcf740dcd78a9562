package domain

const (
	// MaxDescriptionLength is the maximum length in bytes of the description
	// of a transaction record.
	MaxDescriptionLength = 128

	// RecordTagSize is the size of the record-type tag prepended to every
	// stored account.
	RecordTagSize = 8

	// VaultSpace is the storage footprint of a vault account:
	// tag + authority + total deposited + total withdrawn + tx count + bump +
	// paused flag.
	VaultSpace = RecordTagSize + 32 + 8 + 8 + 8 + 1 + 1

	// TransactionRecordSpace is the storage footprint of a transaction record
	// account: tag + vault + authority + tx type + amount + length-prefixed
	// description + timestamp + slot.
	TransactionRecordSpace = RecordTagSize + 32 + 32 + 1 + 8 +
		(4 + MaxDescriptionLength) + 8 + 8
)
