package interfaces

// Service is implemented by every transport the wallet client can reach the
// daemon through.
type Service interface {
	Start() error
	Stop()
}
