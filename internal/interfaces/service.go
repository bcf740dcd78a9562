package interfaces

// Service is implemented by every interface exposing the vault engine, like
// the HTTP API. Start must not block.
type Service interface {
	Start() error
	Stop()
}
