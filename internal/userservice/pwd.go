package userservice

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

func (p *Password) set(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcryptCost)
	if err != nil {
		return err
	}

	p.Plain = pwd
	p.hash = hash

	return nil
}

// matches reports whether pwd is the password the hash was made from.
func (p *Password) matches(pwd string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(p.hash, []byte(pwd))
	if err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		default:
			return false, err
		}
	}

	return true, nil
}

// needsRehash reports whether the hash was made with a different cost than the current one.
func (p *Password) needsRehash() bool {
	cost, err := bcrypt.Cost(p.hash)
	return err != nil || cost != bcryptCost
}
