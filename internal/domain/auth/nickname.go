package auth

import (
	"errors"
	"strings"
	"unicode"
)

const (
	maxNicknameLetters = 10
	fallbackNickname   = "Shopper"
)

// deriveNickname returns the letters of the first candidate that has any, capped at ten.
// Email candidates contribute their mailbox name only.
func deriveNickname(candidates ...string) string {
	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if local, _, found := strings.Cut(candidate, "@"); found {
			candidate = local
		}
		if name := lettersOnly(candidate, maxNicknameLetters); name != "" {
			return name
		}
	}
	return fallbackNickname
}

func lettersOnly(s string, limit int) string {
	var b strings.Builder
	count := 0
	for _, r := range s {
		if count >= limit {
			break
		}
		if unicode.IsLetter(r) {
			b.WriteRune(r)
			count++
		}
	}
	return b.String()
}

// normalizeNickname validates a nickname the shopper typed.
func normalizeNickname(raw string) (string, error) {
	nickname := strings.TrimSpace(raw)
	if nickname == "" {
		return "", errors.New("nickname cannot be empty")
	}
	if len([]rune(nickname)) > maxNicknameLetters {
		return "", errors.New("nickname cannot exceed 10 letters")
	}
	for _, r := range nickname {
		if !unicode.IsLetter(r) {
			return "", errors.New("nickname must contain only letters")
		}
	}
	return nickname, nil
}
