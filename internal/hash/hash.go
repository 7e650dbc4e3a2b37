package hash

import (
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

var ErrEmptyPassword = errors.New("password is empty")

func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	hashbytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hashbytes), nil
}

// CheckPassword never reports which side was wrong.
func CheckPassword(hash, password string) bool {
	if hash == "" || password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

var dummyHash = sync.OnceValue(func() string {
	h, err := bcrypt.GenerateFromPassword([]byte("dartz-league-no-such-user"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return string(h)
})

// DummyHash is a default cost bcrypt hash that no login password matches.
// Comparing against it for unknown users keeps login latency uniform.
func DummyHash() string {
	return dummyHash()
}
