package httpinterface

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/thanhpk/randstr"
)

const (
	// SignerHeader carries the base58 public key of the request signer.
	SignerHeader = "X-Vault-Signer"
	// SignatureHeader carries the base58 ed25519 signature of the request.
	SignatureHeader = "X-Vault-Signature"
	// TimestampHeader carries the unix time in seconds the request was signed
	// at.
	TimestampHeader = "X-Vault-Timestamp"
	// NonceHeader carries a random string making every signature unique.
	NonceHeader = "X-Vault-Nonce"

	// MaxClockSkew is how far apart the signing time and the server time can
	// be for a request to be accepted.
	MaxClockSkew = 5 * time.Minute

	maxBodySize  = 1 << 20
	maxNonceSize = 64
	nonceSize    = 16
)

type signerContextKey struct{}

// RequestMessage returns the message a client must sign to authenticate a
// request.
func RequestMessage(
	method, path string, timestamp int64, nonce string, body []byte,
) []byte {
	buf := bytes.NewBufferString(method)
	buf.WriteString(" ")
	buf.WriteString(path)
	buf.WriteString("\n")
	buf.WriteString(strconv.FormatInt(timestamp, 10))
	buf.WriteString("\n")
	buf.WriteString(nonce)
	buf.WriteString("\n")
	buf.Write(body)
	return buf.Bytes()
}

// SignRequest adds the authentication headers to req, whose body must not
// have been read yet.
func SignRequest(req *http.Request, key solana.PrivateKey, now time.Time) error {
	var body []byte
	if req.Body != nil {
		b, err := io.ReadAll(req.Body)
		if err != nil {
			return err
		}
		req.Body.Close()
		body = b
		req.Body = io.NopCloser(bytes.NewReader(body))
	}

	timestamp := now.Unix()
	nonce := randstr.Hex(nonceSize)
	msg := RequestMessage(req.Method, req.URL.Path, timestamp, nonce, body)
	signature, err := key.Sign(msg)
	if err != nil {
		return err
	}

	req.Header.Set(SignerHeader, key.PublicKey().String())
	req.Header.Set(SignatureHeader, signature.String())
	req.Header.Set(TimestampHeader, strconv.FormatInt(timestamp, 10))
	req.Header.Set(NonceHeader, nonce)
	return nil
}

// SignerFromContext returns the verified signer of the request.
func SignerFromContext(ctx context.Context) (solana.PublicKey, bool) {
	signer, ok := ctx.Value(signerContextKey{}).(solana.PublicKey)
	return signer, ok
}

// requireSignature rejects requests not signed by the public key in the
// signer header, and those whose signature was already accepted once. The
// signer is made available to handlers via SignerFromContext.
func requireSignature(
	now func() time.Time, replay *replayGuard,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			signer, signature, err := verifyRequest(r, now())
			if err != nil {
				writeError(w, http.StatusUnauthorized, err)
				return
			}
			if err := replay.check(signature); err != nil {
				status := http.StatusInternalServerError
				if errors.Is(err, ErrReplayedSignature) {
					status = http.StatusUnauthorized
				}
				writeError(w, status, err)
				return
			}
			ctx := context.WithValue(r.Context(), signerContextKey{}, signer)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func verifyRequest(
	r *http.Request, now time.Time,
) (solana.PublicKey, solana.Signature, error) {
	signer, err := solana.PublicKeyFromBase58(r.Header.Get(SignerHeader))
	if err != nil {
		return solana.PublicKey{}, solana.Signature{}, ErrMissingSigner
	}
	signature, err := solana.SignatureFromBase58(r.Header.Get(SignatureHeader))
	if err != nil {
		return solana.PublicKey{}, solana.Signature{}, ErrMissingSignature
	}
	timestamp, err := strconv.ParseInt(r.Header.Get(TimestampHeader), 10, 64)
	if err != nil {
		return solana.PublicKey{}, solana.Signature{}, ErrMissingTimestamp
	}
	nonce := r.Header.Get(NonceHeader)
	if len(nonce) == 0 || len(nonce) > maxNonceSize {
		return solana.PublicKey{}, solana.Signature{}, ErrMissingNonce
	}
	skew := now.Sub(time.Unix(timestamp, 0))
	if skew > MaxClockSkew || skew < -MaxClockSkew {
		return solana.PublicKey{}, solana.Signature{}, ErrExpiredSignature
	}

	var body []byte
	if r.Body != nil {
		b, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
		if err != nil {
			return solana.PublicKey{}, solana.Signature{},
				fmt.Errorf("failed to read body: %w", err)
		}
		r.Body.Close()
		body = b
		r.Body = io.NopCloser(bytes.NewReader(body))
	}

	msg := RequestMessage(r.Method, r.URL.Path, timestamp, nonce, body)
	if !signature.Verify(signer, msg) {
		return solana.PublicKey{}, solana.Signature{}, ErrInvalidSignature
	}
	return signer, signature, nil
}
