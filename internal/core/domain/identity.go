package domain

// Role distinguishes accounts that generate energy from accounts that buy it.
type Role string

const (
	RoleProducer Role = "PRODUCER"
	RoleConsumer Role = "CONSUMER"
)

// Identity is the resolved account behind the active session. Exactly one
// Identity is active per session; it is created on successful credential
// resolution and destroyed on logout. Secret never leaves the process.
type Identity struct {
	Address     string `json:"address"`
	DisplayName string `json:"display_name"`
	Role        Role   `json:"role"`
	Secret      string `json:"-"`
}

// IsProducer reports whether this identity may mint energy certificates.
func (i *Identity) IsProducer() bool {
	return i.Role == RoleProducer
}
