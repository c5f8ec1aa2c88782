package services

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateCode builds a human-readable record code like EXP-202401151030-0042.
func GenerateCode(prefix string) string {
	suffix := fmt.Sprintf("%04d", rand.Intn(10000))
	return fmt.Sprintf("%s-%s-%s", prefix, time.Now().Format("20060102150405"), suffix)
}
