package httpinterface

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-vault/internal/core/application"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
	"github.com/tdex-network/tdex-vault/internal/infrastructure/pubsub"
)

var (
	ErrMissingSigner     = errors.New("missing or malformed signer")
	ErrMissingSignature  = errors.New("missing or malformed signature")
	ErrMissingTimestamp  = errors.New("missing or malformed signature timestamp")
	ErrExpiredSignature  = errors.New("signature timestamp is too far from server time")
	ErrInvalidSignature  = errors.New("signature verification failed")
	ErrMissingNonce      = errors.New("missing or malformed signature nonce")
	ErrReplayedSignature = errors.New("signature was already used")
	ErrOperatorOnly      = errors.New("only the operator can manage webhooks")
	ErrRateLimited       = errors.New("too many requests")
	ErrInvalidAddress    = errors.New("invalid address")
	ErrInvalidBody       = errors.New("invalid request body")
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusForError maps the errors returned by the application services to
// HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrDescriptionTooLong),
		errors.Is(err, domain.ErrInvalidTxType),
		errors.Is(err, domain.ErrZeroAddress),
		errors.Is(err, domain.ErrOverflow),
		errors.Is(err, application.ErrInvalidTopic),
		errors.Is(err, application.ErrAirdropTooLarge),
		errors.Is(err, pubsub.ErrMissingTopic),
		errors.Is(err, pubsub.ErrInvalidEndpoint),
		errors.Is(err, ErrInvalidAddress),
		errors.Is(err, ErrInvalidBody):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, application.ErrProgramOwnedAccount):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrVaultNotFound),
		errors.Is(err, domain.ErrRecordNotFound),
		errors.Is(err, pubsub.ErrSubscriptionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrVaultAlreadyExists),
		errors.Is(err, domain.ErrRecordAlreadyExists),
		errors.Is(err, domain.ErrVaultAddressMismatch),
		errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrInsufficientBalance):
		return http.StatusConflict
	case errors.Is(err, domain.ErrVaultPaused):
		return http.StatusLocked
	case errors.Is(err, application.ErrAirdropDisabled),
		errors.Is(err, application.ErrWebhookManagerNotInitialized):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.WithError(err).Error("internal error")
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{msg})
}

func writeServiceError(w http.ResponseWriter, err error) {
	writeError(w, statusForError(err), err)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Debug("failed to write response")
	}
}
