package utils

import "golang.org/x/crypto/bcrypt"

// HashCost is the bcrypt cost for new hashes. Tests lower it to bcrypt.MinCost.
var HashCost = 12

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), HashCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hashedPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}
