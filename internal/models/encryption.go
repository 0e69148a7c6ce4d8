package models

// Encryption parameters for the contact cache at-rest encryption.
const (
	NonceSize  = 12     // GCM standard nonce size
	KeySize    = 32     // AES-256 key size
	Iterations = 100000 // PBKDF2 iterations
)
